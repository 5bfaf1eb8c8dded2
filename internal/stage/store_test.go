// File path: internal/stage/store_test.go
package stage

import (
	"context"
	"testing"

	"github.com/nicodishanthj/vaultstage/internal/pgcopy"
	"github.com/nicodishanthj/vaultstage/internal/source"
)

type fakeCopier struct {
	table   pgcopy.TableRef
	columns []string
	rows    [][]any
}

func (f *fakeCopier) Copy(ctx context.Context, table pgcopy.TableRef, columns []string, rows [][]any) (int64, error) {
	f.table = table
	f.columns = columns
	f.rows = rows
	return int64(len(rows)), nil
}

func TestAppendBuildsRawRows(t *testing.T) {
	store := &Store{schema: "stg", table: "raw_test_data"}
	copier := &fakeCopier{}
	records := []source.Record{
		{UserID: 1, ID: 10, Title: "A", Body: "x"},
		{UserID: 2, ID: 11, Title: "B", Body: "y"},
	}

	copied, err := store.Append(context.Background(), copier, records)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if copied != 2 {
		t.Fatalf("copied = %d, want 2", copied)
	}
	if copier.table.Schema != "stg" || copier.table.Table != "raw_test_data" {
		t.Errorf("copy target = %+v", copier.table)
	}
	want := source.Columns()
	if len(copier.columns) != len(want) {
		t.Fatalf("columns = %v, want %v", copier.columns, want)
	}
	for i := range want {
		if copier.columns[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, copier.columns[i], want[i])
		}
	}
	if len(copier.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(copier.rows))
	}
	if copier.rows[0][0] != int64(1) || copier.rows[0][1] != int64(10) ||
		copier.rows[0][2] != "A" || copier.rows[0][3] != "x" {
		t.Errorf("row 0 = %v", copier.rows[0])
	}
}

func TestAppendRequiresCopier(t *testing.T) {
	store := &Store{schema: "stg", table: "raw_test_data"}
	if _, err := store.Append(context.Background(), nil, nil); err == nil {
		t.Fatal("Append accepted nil copier")
	}
}

func TestOpenValidation(t *testing.T) {
	if _, err := Open(" ", "stg", "raw_test_data"); err == nil {
		t.Error("Open accepted blank dsn")
	}
	if _, err := Open("postgres://localhost/db", "", "raw_test_data"); err == nil {
		t.Error("Open accepted blank schema")
	}
	if _, err := Open("postgres://localhost/db", "stg", " "); err == nil {
		t.Error("Open accepted blank table")
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent("stg"); got != `"stg"` {
		t.Errorf("quoteIdent = %s", got)
	}
	if got := quoteIdent(`ra"w`); got != `"ra""w"` {
		t.Errorf("quoteIdent with quote = %s", got)
	}
}
