package provider

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

// BigQueryProvider runs a parameterized lookup against the warehouse copy
// of the case table. The table reference is fully qualified
// (`project.dataset.table`) and fixed by configuration.
type BigQueryProvider struct {
	client *bigquery.Client
	table  string
	log    zerolog.Logger
}

func NewBigQueryProvider(client *bigquery.Client, table string, log zerolog.Logger) *BigQueryProvider {
	return &BigQueryProvider{
		client: client,
		table:  table,
		log:    log,
	}
}

func (p *BigQueryProvider) Name() string {
	return SourceBigQuery
}

func (p *BigQueryProvider) FetchRecords(ctx context.Context, name, medicalID string) ([]Record, error) {
	if p.client == nil {
		return nil, errors.New("bigquery source not configured")
	}

	var q *bigquery.Query
	if medicalID != "" {
		q = p.client.Query(fmt.Sprintf("SELECT * FROM `%s` WHERE medical_id_number = @mid", p.table))
		q.Parameters = []bigquery.QueryParameter{{Name: "mid", Value: medicalID}}
	} else {
		q = p.client.Query(fmt.Sprintf("SELECT * FROM `%s` WHERE youth_name = @name", p.table))
		q.Parameters = []bigquery.QueryParameter{{Name: "name", Value: name}}
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery read: %w", err)
	}

	var results []Record
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery iterate: %w", err)
		}

		rec := make(Record, len(row))
		for key, value := range row {
			if value == nil {
				continue
			}
			rec[key] = value
		}
		results = append(results, rec)
	}

	p.log.Debug().
		Str("source", SourceBigQuery).
		Str("table", p.table).
		Int("matched", len(results)).
		Msg("Queried warehouse table")

	return results, nil
}
