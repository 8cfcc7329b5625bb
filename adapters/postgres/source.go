package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"stopstats/domain/frame"
	"stopstats/domain/stops"
	apperrors "stopstats/internal/errors"
)

// Source implements ports.RecordSource over Postgres. It is read-only: the
// analyses never write anything back.
type Source struct {
	db              *sqlx.DB
	stopsQuery      string
	populationQuery string
	schema          stops.Schema
}

// NewSource creates a database-backed record source. The queries must yield
// the schema's named columns.
func NewSource(db *sqlx.DB, stopsQuery, populationQuery string, schema stops.Schema) *Source {
	return &Source{
		db:              db,
		stopsQuery:      stopsQuery,
		populationQuery: populationQuery,
		schema:          schema,
	}
}

// Connect opens and pings a Postgres connection.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to postgres")
	}
	return db, nil
}

// Stops loads and normalizes the stop-record table.
func (s *Source) Stops(ctx context.Context) (frame.Table, error) {
	t, err := s.query(ctx, s.stopsQuery)
	if err != nil {
		return frame.Table{}, err
	}
	return stops.NormalizeTable(t, s.schema)
}

// Population loads and normalizes the population table.
func (s *Source) Population(ctx context.Context) (frame.Table, error) {
	t, err := s.query(ctx, s.populationQuery)
	if err != nil {
		return frame.Table{}, err
	}
	return stops.NormalizeTable(t, s.schema)
}

func (s *Source) query(ctx context.Context, query string) (frame.Table, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return frame.Table{}, apperrors.Wrapf(err, "query failed: %s", query)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return frame.Table{}, apperrors.Wrap(err, "failed to read result columns")
	}

	table := frame.New(columns...)
	for rows.Next() {
		m := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(m); err != nil {
			return frame.Table{}, apperrors.Wrap(err, "failed to scan row")
		}
		// drivers hand text columns back as []byte
		for k, v := range m {
			if b, ok := v.([]byte); ok {
				m[k] = string(b)
			}
		}
		table.Rows = append(table.Rows, frame.Row(m))
	}
	if err := rows.Err(); err != nil {
		return frame.Table{}, apperrors.Wrap(err, "row iteration failed")
	}
	return table, nil
}
