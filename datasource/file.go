package datasource

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	charts "github.com/midbel/dashcharts"
)

// CSV reads a comma separated file whose first line names the fields.
type CSV struct {
	Path string
}

func (c CSV) Load(_ context.Context) ([]charts.Record, error) {
	r, err := os.Open(c.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadCSV(r)
}

func ReadCSV(r io.Reader) ([]charts.Record, error) {
	rs := csv.NewReader(r)
	rs.FieldsPerRecord = -1
	rs.TrimLeadingSpace = true

	header, err := rs.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}
	rows, err := rs.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return table(header, rows), nil
}

// JSON reads a file holding an array of objects.
type JSON struct {
	Path string
}

func (j JSON) Load(_ context.Context) ([]charts.Record, error) {
	r, err := os.Open(j.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadJSON(r)
}

func ReadJSON(r io.Reader) ([]charts.Record, error) {
	var list []map[string]any
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return charts.MakeRecords(list), nil
}

// XLSX reads a sheet of a workbook, its first row naming the fields.
type XLSX struct {
	Path  string
	Sheet string
}

func (x XLSX) Load(_ context.Context) ([]charts.Record, error) {
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, nil
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return table(rows[0], rows[1:]), nil
}
