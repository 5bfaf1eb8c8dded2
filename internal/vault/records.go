// File path: internal/vault/records.go
package vault

import "github.com/nicodishanthj/vaultstage/internal/source"

// EnrichedRecord is a raw record extended with the hashes of its two
// business keys. Enrichment is one-to-one with the input.
type EnrichedRecord struct {
	source.Record
	UserIDHash   string
	LetterIDHash string
}

// HubUserRow is one distinct user business key with its hash.
type HubUserRow struct {
	UserID     int64
	UserIDHash string
}

// HubLetterRow is one letter business key with its hash. The source id
// becomes the letter id in the vault model.
type HubLetterRow struct {
	LetterID     int64
	LetterIDHash string
}

// SatelliteLetterRow holds a letter's descriptive attributes keyed by hash.
type SatelliteLetterRow struct {
	LetterIDHash string
	Title        string
	Body         string
}

// LinkPostRow relates a user hash to a letter hash.
type LinkPostRow struct {
	UserIDHash   string
	LetterIDHash string
}

// Enrich computes both key hashes for every record.
func Enrich(records []source.Record) []EnrichedRecord {
	enriched := make([]EnrichedRecord, 0, len(records))
	for _, record := range records {
		enriched = append(enriched, EnrichedRecord{
			Record:       record,
			UserIDHash:   HashKey(record.UserID),
			LetterIDHash: HashKey(record.ID),
		})
	}
	return enriched
}
