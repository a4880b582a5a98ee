package provider

import (
	"context"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// SQLProvider queries the relational case table. The table name is fixed
// by configuration; rows are scanned dynamically since the table schema
// follows the spreadsheet export and changes with it.
type SQLProvider struct {
	db    *sqlx.DB
	table string
	log   zerolog.Logger
}

func NewSQLProvider(db *sqlx.DB, table string, log zerolog.Logger) *SQLProvider {
	return &SQLProvider{
		db:    db,
		table: table,
		log:   log,
	}
}

func (p *SQLProvider) Name() string {
	return SourceSQL
}

func (p *SQLProvider) FetchRecords(ctx context.Context, name, medicalID string) ([]Record, error) {
	if p.db == nil {
		return nil, errors.New("sql source not configured")
	}

	var query, arg string
	if medicalID != "" {
		query = fmt.Sprintf("SELECT * FROM %s WHERE medical_id_number = ?", p.table)
		arg = medicalID
	} else {
		query = fmt.Sprintf("SELECT * FROM %s WHERE youth_name = ?", p.table)
		arg = name
	}
	query = p.db.Rebind(query)

	rows, err := p.db.QueryxContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		// Remove NULL values and decode driver byte slices
		for key, value := range row {
			switch v := value.(type) {
			case nil:
				delete(row, key)
			case []byte:
				row[key] = string(v)
			}
		}
		results = append(results, Record(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	p.log.Debug().
		Str("source", SourceSQL).
		Str("table", p.table).
		Int("matched", len(results)).
		Msg("Queried case table")

	return results, nil
}
