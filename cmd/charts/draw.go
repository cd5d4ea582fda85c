package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/datasource"
	"github.com/midbel/dashcharts/svgdraw"
)

var fileOpts struct {
	kind     string
	title    string
	x        string
	y        string
	category string
	series   []string
	curve    string
	stacked  bool
	dots     bool
	output   string
	width    float64
	height   float64
}

func runDrawFile(cmd *cobra.Command, args []string) error {
	logger := newLogger(slog.LevelInfo)

	kind, err := charts.ParseKind(fileOpts.kind)
	if err != nil {
		return err
	}
	data, err := datasource.CSV{Path: args[0]}.Load(cmd.Context())
	if err != nil {
		return err
	}
	cfg := charts.Config{
		Data:        data,
		XKey:        fileOpts.x,
		YKey:        fileOpts.y,
		CategoryKey: fileOpts.category,
		Width:       fileOpts.width,
		Height:      fileOpts.height,
		Curve:       fileOpts.curve,
		Stacked:     fileOpts.stacked,
		ShowDots:    fileOpts.dots,
		ShowGrid:    true,
		ShowLegend:  len(fileOpts.series) > 1 || kind == charts.KindPie,
		Heatmap:     charts.DefaultColorScale(),
	}
	for _, s := range fileOpts.series {
		cfg.Series = append(cfg.Series, charts.SeriesConfig{Key: s})
	}
	return drawChart(logger, fileOpts.output, fileOpts.title, kind, cfg)
}

// drawChart writes the chart to file, or to stdout when file is empty.
func drawChart(logger *slog.Logger, file, title string, kind charts.Kind, cfg charts.Config) error {
	frame := charts.Render(kind, cfg)
	for _, w := range frame.Warnings {
		logger.Warn("chart rendered with warnings", slog.String("kind", string(kind)), slog.String("warning", w.String()))
	}
	opts := svgdraw.DefaultOptions()
	opts.Title = title

	var buf bytes.Buffer
	if err := svgdraw.Write(&buf, frame, opts); err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	size := buf.Len()
	if _, err := buf.WriteTo(w); err != nil {
		return err
	}
	if file != "" {
		logger.Info("chart written",
			slog.String("file", file),
			slog.Int("shapes", len(frame.Shapes)),
			slog.String("size", humanize.Bytes(uint64(size))))
	}
	return nil
}
