// Package provider abstracts the three record sources behind one
// capability: given a person, hand back zero or more raw rows. Keys in a
// Record are raw spellings; normalization happens in the merge layer.
package provider

import "context"

// Source names, also used as the precedence ranking keys in merge.
const (
	SourceExcel    = "excel"
	SourceSQL      = "sql"
	SourceBigQuery = "bigquery"
)

// Record is one raw row from a single source for a single person.
type Record map[string]interface{}

// RecordProvider is implemented by each of the three sources. When
// medicalID is non-empty the source filters by it; otherwise it filters
// by name. Implementations return rows in source order and never invent
// rows for people they do not know.
type RecordProvider interface {
	Name() string
	FetchRecords(ctx context.Context, name, medicalID string) ([]Record, error)
}
