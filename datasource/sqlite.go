package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	charts "github.com/midbel/dashcharts"
)

// SQLite runs a query and turns every row into a record named after the
// columns of the result.
type SQLite struct {
	Path  string
	Query string
	Args  []any
}

func (s SQLite) Load(ctx context.Context) ([]charts.Record, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("error when opening database: %w", err)
	}
	defer db.Close()
	return Query(ctx, db, s.Query, s.Args...)
}

// Query runs query on db.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) ([]charts.Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var list []charts.Record
	for rows.Next() {
		var (
			values = make([]any, len(cols))
			ptrs   = make([]any, len(cols))
		)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		rec := make(charts.Record, len(cols))
		for i, c := range cols {
			if values[i] == nil {
				continue
			}
			rec[c] = charts.ValueOf(values[i])
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
