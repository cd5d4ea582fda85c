package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/config"
	"github.com/midbel/dashcharts/logging"
	"github.com/midbel/dashcharts/server"
)

var (
	configPath string
	outDir     string
	width      float64
	height     float64
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "charts",
		Short: "Draw line, area, bar, pie and heatmap charts",
		Long: `charts renders the charts of a dashboard definition as SVG files,
or serves them over HTTP with live hover and resize through websockets.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")

	drawCmd := &cobra.Command{
		Use:   "draw [chart...]",
		Short: "Render the charts of a dashboard to SVG files",
		RunE:  runDraw,
	}
	drawCmd.Flags().StringVarP(&configPath, "config", "c", "config/dashboard.yaml", "Dashboard file")
	drawCmd.Flags().StringVarP(&outDir, "output", "o", ".", "Directory of the SVG files")
	drawCmd.Flags().Float64Var(&width, "width", 0, "Chart width, overrides the dashboard")
	drawCmd.Flags().Float64Var(&height, "height", 0, "Chart height, overrides the dashboard")

	fileCmd := &cobra.Command{
		Use:   "draw-file [data.csv]",
		Short: "Render one chart from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDrawFile,
	}
	fileCmd.Flags().StringVarP(&fileOpts.kind, "kind", "k", "line", "Chart kind: line, multiline, area, bar, pie, heatmap")
	fileCmd.Flags().StringVar(&fileOpts.title, "title", "", "Chart title")
	fileCmd.Flags().StringVarP(&fileOpts.x, "x", "x", "", "Field of the x values")
	fileCmd.Flags().StringVarP(&fileOpts.y, "y", "y", "", "Field of the y values")
	fileCmd.Flags().StringVar(&fileOpts.category, "category", "", "Field of the categories")
	fileCmd.Flags().StringSliceVarP(&fileOpts.series, "series", "s", nil, "Fields drawn as series")
	fileCmd.Flags().StringVar(&fileOpts.curve, "curve", "monotone", "Line interpolation")
	fileCmd.Flags().BoolVar(&fileOpts.stacked, "stacked", false, "Stack the bars of the series")
	fileCmd.Flags().BoolVar(&fileOpts.dots, "dots", false, "Draw a dot on every point")
	fileCmd.Flags().StringVarP(&fileOpts.output, "output", "o", "", "Output file (default: stdout)")
	fileCmd.Flags().Float64Var(&fileOpts.width, "width", charts.DefaultWidth, "Chart width")
	fileCmd.Flags().Float64Var(&fileOpts.height, "height", charts.DefaultHeight, "Chart height")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the charts of a dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config/dashboard.yaml", "Dashboard file")

	rootCmd.AddCommand(drawCmd, fileCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

func runDraw(cmd *cobra.Command, args []string) error {
	app, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(app.Logging.GetLevel())

	selected := app.Charts
	if len(args) > 0 {
		selected = selected[:0:0]
		for _, name := range args {
			c, ok := app.Chart(name)
			if !ok {
				return fmt.Errorf("%s: %w", name, server.ErrNotFound)
			}
			selected = append(selected, c)
		}
	}
	app.Charts = selected

	data, err := server.Load(cmd.Context(), app)
	if err != nil {
		return fmt.Errorf("loading data failed: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	for _, c := range app.Charts {
		kind, cfg, err := c.Options()
		if err != nil {
			return err
		}
		cfg.Data = data[c.Name]
		if width > 0 {
			cfg.Width = width
		}
		if height > 0 {
			cfg.Height = height
		}
		file := filepath.Join(outDir, c.Name+".svg")
		if err := drawChart(logger, file, c.Title, kind, cfg); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(app.Logging.GetLevel())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, logger, configPath)
	if err != nil {
		return err
	}
	return srv.Run(ctx, app.Server.Addr())
}
