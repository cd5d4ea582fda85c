package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	charts "github.com/midbel/dashcharts"
)

const dashboard = `
server:
  port: 9090
logging:
  level: debug
charts:
  - name: revenue
    kind: bar
    title: Revenue per quarter
    source:
      type: csv
      path: revenue.csv
    x_key: quarter
    stacked: true
    series:
      - key: online
        name: Online
      - key: store
        color: "#ff0000"
        stroke_width: 3
        dash: dotted
  - name: load
    kind: heatmap
    x_key: day
    y_key: hour
    show_legend: false
    animate: false
    palette: tableau10
    heatmap:
      min: 0
      max: 10
    source:
      type: inline
      rows:
        - {day: mon, hour: "8", value: 3}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestLoad(t *testing.T) {
	app, err := Load(writeConfig(t, dashboard))
	if err != nil {
		t.Fatal(err)
	}
	if got := app.Server.Addr(); got != ":9090" {
		t.Errorf("address: want :9090, got %s", got)
	}
	if got := app.Logging.GetLevel().String(); got != "DEBUG" {
		t.Errorf("level: want DEBUG, got %s", got)
	}
	if len(app.Charts) != 2 {
		t.Fatalf("want 2 charts, got %d", len(app.Charts))
	}

	c, ok := app.Chart("revenue")
	if !ok {
		t.Fatalf("revenue chart not found")
	}
	kind, cfg, err := c.Options()
	if err != nil {
		t.Fatal(err)
	}
	if kind != charts.KindBar || !cfg.Stacked || cfg.XKey != "quarter" {
		t.Errorf("unexpected options: kind=%s stacked=%t x=%s", kind, cfg.Stacked, cfg.XKey)
	}
	want := []charts.SeriesConfig{
		{Key: "online", Name: "Online"},
		{Key: "store", Color: "#ff0000", StrokeWidth: 3, Dash: "dotted"},
	}
	if diff := cmp.Diff(want, cfg.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	if !cfg.ShowGrid || !cfg.ShowLegend || cfg.ShowDots || !cfg.Animate {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	c, _ = app.Chart("load")
	kind, cfg, err = c.Options()
	if err != nil {
		t.Fatal(err)
	}
	if kind != charts.KindHeatmap || cfg.ShowLegend || cfg.Animate {
		t.Errorf("unexpected options: kind=%s legend=%t animate=%t", kind, cfg.ShowLegend, cfg.Animate)
	}
	if cfg.Heatmap.Min != 0 || cfg.Heatmap.Max != 10 {
		t.Errorf("heatmap domain: want [0, 10], got [%g, %g]", cfg.Heatmap.Min, cfg.Heatmap.Max)
	}
	if diff := cmp.Diff([]string(charts.Tableau10), cfg.Colors); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	if len(c.Source.Rows) != 1 || c.Source.Rows[0]["day"] != "mon" {
		t.Errorf("inline rows not decoded: %v", c.Source.Rows)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		Name    string
		Content string
		Err     error
	}{
		{
			Name:    "no-chart",
			Content: "server:\n  port: 80\n",
			Err:     ErrNoChart,
		},
		{
			Name:    "duplicate",
			Content: "charts:\n  - {name: a, kind: line}\n  - {name: a, kind: bar}\n",
			Err:     ErrDuplicate,
		},
		{
			Name:    "unknown-kind",
			Content: "charts:\n  - {name: a, kind: radar}\n",
		},
		{
			Name:    "unknown-palette",
			Content: "charts:\n  - {name: a, kind: line, palette: solarized}\n",
		},
		{
			Name:    "empty-heatmap",
			Content: "charts:\n  - name: a\n    kind: heatmap\n    heatmap: {min: 5, max: 5}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.Content))
			if err == nil {
				t.Fatalf("want error")
			}
			if tt.Err != nil && !errors.Is(err, tt.Err) {
				t.Errorf("want %v, got %v", tt.Err, err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing file should fail")
	}
}
