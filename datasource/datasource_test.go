package datasource

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/config"
)

// flatten turns records into plain strings so that they can be compared.
func flatten(list []charts.Record) []map[string]string {
	var out []map[string]string
	for _, r := range list {
		m := make(map[string]string, len(r))
		for k, v := range r {
			m[k] = v.String()
		}
		out = append(out, m)
	}
	return out
}

func TestReadCSV(t *testing.T) {
	const data = `month, sales, region
Jan, 10, north
Feb,, south
Mar, 20
`
	list, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := []map[string]string{
		{"month": "Jan", "sales": "10", "region": "north"},
		{"month": "Feb", "region": "south"},
		{"month": "Mar", "sales": "20"},
	}
	if diff := cmp.Diff(want, flatten(list)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if f, ok := list[0].Float("sales"); !ok || f != 10 {
		t.Errorf("sales should read as 10, got %g (%t)", f, ok)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	list, err := ReadCSV(strings.NewReader(""))
	if err != nil || list != nil {
		t.Errorf("empty file: want no records and no error, got %v, %v", list, err)
	}
}

func TestReadJSON(t *testing.T) {
	const data = `[{"x": "2024-01-01", "y": 1.5}, {"x": "2024-01-02", "y": null}]`
	list, err := ReadJSON(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 records, got %d", len(list))
	}
	if k := charts.Classify(list, "x"); k != charts.FieldTime {
		t.Errorf("x should classify as time, got %s", k)
	}
	if !list[1]["y"].IsZero() {
		t.Errorf("null should be a missing value")
	}
	if _, err := ReadJSON(strings.NewReader(`{"x": 1}`)); err == nil {
		t.Errorf("an object instead of an array should fail")
	}
}

func TestXLSX(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sales.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"quarter", "revenue"},
		{"Q1", 100},
		{"Q2", 140},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(file); err != nil {
		t.Fatal(err)
	}
	f.Close()

	list, err := XLSX{Path: file}.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []map[string]string{
		{"quarter": "Q1", "revenue": "100"},
		{"quarter": "Q2", "revenue": "140"},
	}
	if diff := cmp.Diff(want, flatten(list)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "metrics.db")
	db, err := sql.Open("sqlite", file)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{
		"CREATE TABLE metrics (day TEXT, cpu REAL, host TEXT)",
		"INSERT INTO metrics VALUES ('mon', 12.5, 'a'), ('tue', 30, NULL)",
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	src := SQLite{
		Path:  file,
		Query: "SELECT day, cpu, host FROM metrics WHERE cpu > ? ORDER BY day",
		Args:  []any{10},
	}
	list, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []map[string]string{
		{"day": "mon", "cpu": "12.5", "host": "a"},
		{"day": "tue", "cpu": "30"},
	}
	if diff := cmp.Diff(want, flatten(list)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

type fakeScan struct {
	pages [][]map[string]types.AttributeValue
	input *dynamodb.ScanInput
}

func (f *fakeScan) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.input = in
	var page int
	if in.ExclusiveStartKey != nil {
		page = 1
	}
	out := dynamodb.ScanOutput{
		Items: f.pages[page],
	}
	if page == 0 && len(f.pages) > 1 {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "next"},
		}
	}
	return &out, nil
}

func TestDynamoDB(t *testing.T) {
	item := func(day string, value string) map[string]types.AttributeValue {
		return map[string]types.AttributeValue{
			"day":   &types.AttributeValueMemberS{Value: day},
			"value": &types.AttributeValueMemberN{Value: value},
		}
	}
	client := fakeScan{
		pages: [][]map[string]types.AttributeValue{
			{item("mon", "4"), item("tue", "7.5")},
			{item("wed", "1")},
		},
	}
	src := DynamoDB{
		Table:  "metrics",
		Fields: []string{"day", "value"},
		Client: &client,
	}
	list, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []map[string]string{
		{"day": "mon", "value": "4"},
		{"day": "tue", "value": "7.5"},
		{"day": "wed", "value": "1"},
	}
	if diff := cmp.Diff(want, flatten(list)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if aws.ToString(client.input.TableName) != "metrics" {
		t.Errorf("scan of the wrong table: %s", aws.ToString(client.input.TableName))
	}
	if client.input.ProjectionExpression == nil {
		t.Errorf("fields should restrict the projection")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		Def  config.Source
		Want Source
		Err  bool
	}{
		{
			Def:  config.Source{Type: "CSV", Path: "data.csv"},
			Want: CSV{Path: "data.csv"},
		},
		{
			Def:  config.Source{Type: "excel", Path: "data.xlsx", Sheet: "q1"},
			Want: XLSX{Path: "data.xlsx", Sheet: "q1"},
		},
		{
			Def: config.Source{Type: "sqlite", Path: "data.db"},
			Err: true,
		},
		{
			Def: config.Source{Type: "dynamodb"},
			Err: true,
		},
		{
			Def: config.Source{Type: "parquet"},
			Err: true,
		},
	}
	for _, tt := range tests {
		got, err := Open(tt.Def)
		if tt.Err {
			if err == nil {
				t.Errorf("%s: want error", tt.Def.Type)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %s", tt.Def.Type, err)
			continue
		}
		if diff := cmp.Diff(tt.Want, got); diff != "" {
			t.Errorf("%s: source mismatch (-want +got):\n%s", tt.Def.Type, diff)
		}
	}
	if _, err := Open(config.Source{Type: "parquet"}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(file, []byte("x,y\n1,2\n3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sources := map[string]Source{
		"file":   CSV{Path: file},
		"inline": Inline{{"x": 1, "y": 5}},
	}
	all, err := LoadAll(context.Background(), sources)
	if err != nil {
		t.Fatal(err)
	}
	if len(all["file"]) != 2 || len(all["inline"]) != 1 {
		t.Errorf("unexpected record counts: file=%d inline=%d", len(all["file"]), len(all["inline"]))
	}

	sources["missing"] = CSV{Path: filepath.Join(dir, "missing.csv")}
	if _, err := LoadAll(context.Background(), sources); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("a failing source should fail the load, got %v", err)
	}
}
