// File path: internal/source/record.go
package source

// Record is one raw post as served by the source API. The json tags follow
// the source payload shape, the db tags follow the staging table columns; the
// tag split replaces any runtime column renaming between the two.
type Record struct {
	UserID int64  `json:"userId" db:"user_id"`
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Body   string `json:"body" db:"body"`
}

// Columns lists the staging column order used when landing raw records.
func Columns() []string {
	return []string{"user_id", "id", "title", "body"}
}
