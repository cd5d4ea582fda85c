// Package datasource loads the records drawn by the charts.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/config"
)

var ErrUnsupported = errors.New("unsupported source")

type Source interface {
	Load(context.Context) ([]charts.Record, error)
}

// Open returns the source described by def.
func Open(def config.Source) (Source, error) {
	switch strings.ToLower(def.Type) {
	case "csv":
		return CSV{Path: def.Path}, nil
	case "json":
		return JSON{Path: def.Path}, nil
	case "xlsx", "excel":
		return XLSX{Path: def.Path, Sheet: def.Sheet}, nil
	case "sqlite":
		if def.Query == "" {
			return nil, fmt.Errorf("sqlite source %s: missing query", def.Path)
		}
		return SQLite{Path: def.Path, Query: def.Query}, nil
	case "dynamodb":
		if def.Table == "" {
			return nil, fmt.Errorf("dynamodb source: missing table")
		}
		return DynamoDB{
			Table:    def.Table,
			Fields:   def.Fields,
			Region:   def.Region,
			Endpoint: def.Endpoint,
		}, nil
	case "inline", "":
		return Inline(def.Rows), nil
	default:
		return nil, fmt.Errorf("%s: %w", def.Type, ErrUnsupported)
	}
}

type Inline []map[string]any

func (i Inline) Load(_ context.Context) ([]charts.Record, error) {
	return charts.MakeRecords(i), nil
}

// LoadAll loads every source concurrently. The first failure cancels the
// loads still running.
func LoadAll(ctx context.Context, sources map[string]Source) (map[string][]charts.Record, error) {
	var (
		mu  sync.Mutex
		all = make(map[string][]charts.Record, len(sources))
	)
	grp, ctx := errgroup.WithContext(ctx)
	for name, src := range sources {
		grp.Go(func() error {
			rs, err := src.Load(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			defer mu.Unlock()
			all[name] = rs
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// cell converts a textual cell. Empty cells are missing values.
func cell(str string) charts.Value {
	str = strings.TrimSpace(str)
	if str == "" {
		return charts.Value{}
	}
	return charts.Text(str)
}

// table turns a header and its rows into records. Short rows leave their
// last fields missing.
func table(header []string, rows [][]string) []charts.Record {
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	list := make([]charts.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(charts.Record, len(header))
		for i, h := range header {
			if h == "" || i >= len(row) {
				continue
			}
			if v := cell(row[i]); !v.IsZero() {
				rec[h] = v
			}
		}
		list = append(list, rec)
	}
	return list
}
