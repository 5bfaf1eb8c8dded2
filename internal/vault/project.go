// File path: internal/vault/project.go
package vault

// Projections carries the four disjoint table-shaped views of one enriched
// batch. They are read-only once built and are discarded with the batch.
type Projections struct {
	HubUsers         []HubUserRow
	HubLetters       []HubLetterRow
	SatelliteLetters []SatelliteLetterRow
	LinkPosts        []LinkPostRow
}

// Project splits the enriched batch into the four target projections.
// HubUsers is deduplicated by exact user_id equality, first occurrence wins;
// the hash is a pure function of the key, so deduplicating by key and by
// pair are equivalent. The other three projections keep one row per source
// record — hub letters intentionally included, since downstream row counts
// depend on that. An empty batch yields four empty projections.
func Project(records []EnrichedRecord) Projections {
	projections := Projections{
		HubUsers:         []HubUserRow{},
		HubLetters:       make([]HubLetterRow, 0, len(records)),
		SatelliteLetters: make([]SatelliteLetterRow, 0, len(records)),
		LinkPosts:        make([]LinkPostRow, 0, len(records)),
	}
	seenUsers := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if _, ok := seenUsers[record.UserID]; !ok {
			seenUsers[record.UserID] = struct{}{}
			projections.HubUsers = append(projections.HubUsers, HubUserRow{
				UserID:     record.UserID,
				UserIDHash: record.UserIDHash,
			})
		}
		projections.HubLetters = append(projections.HubLetters, HubLetterRow{
			LetterID:     record.ID,
			LetterIDHash: record.LetterIDHash,
		})
		projections.SatelliteLetters = append(projections.SatelliteLetters, SatelliteLetterRow{
			LetterIDHash: record.LetterIDHash,
			Title:        record.Title,
			Body:         record.Body,
		})
		projections.LinkPosts = append(projections.LinkPosts, LinkPostRow{
			UserIDHash:   record.UserIDHash,
			LetterIDHash: record.LetterIDHash,
		})
	}
	return projections
}

func (p Projections) hubUserRows() [][]any {
	rows := make([][]any, 0, len(p.HubUsers))
	for _, row := range p.HubUsers {
		rows = append(rows, []any{row.UserID, row.UserIDHash})
	}
	return rows
}

func (p Projections) hubLetterRows() [][]any {
	rows := make([][]any, 0, len(p.HubLetters))
	for _, row := range p.HubLetters {
		rows = append(rows, []any{row.LetterID, row.LetterIDHash})
	}
	return rows
}

func (p Projections) satelliteLetterRows() [][]any {
	rows := make([][]any, 0, len(p.SatelliteLetters))
	for _, row := range p.SatelliteLetters {
		rows = append(rows, []any{row.LetterIDHash, row.Title, row.Body})
	}
	return rows
}

func (p Projections) linkPostRows() [][]any {
	rows := make([][]any, 0, len(p.LinkPosts))
	for _, row := range p.LinkPosts {
		rows = append(rows, []any{row.UserIDHash, row.LetterIDHash})
	}
	return rows
}
