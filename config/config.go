package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/logging"
)

type AppConfigServer struct {
	Address string
	Port    *int
}

func (s AppConfigServer) GetPort() int {
	if s.Port == nil {
		return 8080
	}
	return *s.Port
}

func (s AppConfigServer) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.GetPort())
}

type AppConfigLogging struct {
	// "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	Level *string
}

func (l AppConfigLogging) GetLevel() slog.Level {
	return logging.LevelFromString(l.Level)
}

// Source tells where the records of a chart come from.
type Source struct {
	// csv, json, xlsx, sqlite, dynamodb or inline
	Type string
	Path string
	// Sheet of a workbook, the first one when empty.
	Sheet string
	// Query run against a sqlite database.
	Query string
	// Table scanned on DynamoDB.
	Table    string
	Region   string
	Endpoint string
	// Fields restricts the attributes read from DynamoDB.
	Fields []string
	// Rows of an inline source.
	Rows []map[string]any
}

type Series struct {
	Key         string
	Name        string
	Color       string
	StrokeWidth float64 `mapstructure:"stroke_width"`
	// Dash is a dash array or one of straight, dotted and dashed.
	Dash string
}

type Heatmap struct {
	Min *float64
	Max *float64
}

type Chart struct {
	Name        string
	Kind        string
	Title       string
	Source      Source
	XKey        string `mapstructure:"x_key"`
	YKey        string `mapstructure:"y_key"`
	CategoryKey string `mapstructure:"category_key"`
	Order       []string
	Series      []Series
	Width       float64
	Height      float64
	Curve       string
	Stacked     bool
	ShowGrid    *bool `mapstructure:"show_grid"`
	ShowLegend  *bool `mapstructure:"show_legend"`
	ShowDots    *bool `mapstructure:"show_dots"`
	Animate     *bool
	Colors      []string
	// Palette names a predefined palette, used when Colors is empty.
	Palette     string
	InnerRadius float64 `mapstructure:"inner_radius"`
	Heatmap     Heatmap
}

func (c Chart) GetShowGrid() bool {
	return getBool(c.ShowGrid, true)
}

func (c Chart) GetShowLegend() bool {
	return getBool(c.ShowLegend, true)
}

func (c Chart) GetShowDots() bool {
	return getBool(c.ShowDots, false)
}

func (c Chart) GetAnimate() bool {
	return getBool(c.Animate, true)
}

func getBool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// Options converts the chart definition. The data are left empty: they are
// loaded from the source separately.
func (c Chart) Options() (charts.Kind, charts.Config, error) {
	kind, err := charts.ParseKind(c.Kind)
	if err != nil {
		return "", charts.Config{}, fmt.Errorf("chart %s: %w", c.Name, err)
	}
	cfg := charts.Config{
		XKey:        c.XKey,
		YKey:        c.YKey,
		CategoryKey: c.CategoryKey,
		Order:       c.Order,
		Width:       c.Width,
		Height:      c.Height,
		Colors:      c.Colors,
		ShowGrid:    c.GetShowGrid(),
		ShowLegend:  c.GetShowLegend(),
		ShowDots:    c.GetShowDots(),
		Animate:     c.GetAnimate(),
		Curve:       c.Curve,
		Stacked:     c.Stacked,
		InnerRadius: c.InnerRadius,
	}
	if len(cfg.Colors) == 0 && c.Palette != "" {
		p, ok := charts.LookupPalette(c.Palette)
		if !ok {
			return "", charts.Config{}, fmt.Errorf("chart %s: %s: unknown palette", c.Name, c.Palette)
		}
		cfg.Colors = p
	}
	for _, s := range c.Series {
		cfg.Series = append(cfg.Series, charts.SeriesConfig{
			Key:         s.Key,
			Name:        s.Name,
			Color:       s.Color,
			StrokeWidth: s.StrokeWidth,
			Dash:        s.Dash,
		})
	}
	if c.Heatmap.Min != nil || c.Heatmap.Max != nil {
		scale := charts.DefaultColorScale()
		if c.Heatmap.Min != nil {
			scale.Min = *c.Heatmap.Min
		}
		if c.Heatmap.Max != nil {
			scale.Max = *c.Heatmap.Max
		}
		if scale.Max <= scale.Min {
			return "", charts.Config{}, fmt.Errorf("chart %s: heatmap domain [%g, %g] is empty", c.Name, scale.Min, scale.Max)
		}
		cfg.Heatmap = scale
	}
	return kind, cfg, nil
}

type AppConfig struct {
	Server  AppConfigServer
	Logging AppConfigLogging
	Charts  []Chart
}

func (a *AppConfig) Chart(name string) (Chart, bool) {
	for _, c := range a.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}

var (
	ErrNoChart   = errors.New("no chart defined")
	ErrDuplicate = errors.New("duplicate chart name")
)

func (a *AppConfig) validate() error {
	if len(a.Charts) == 0 {
		return ErrNoChart
	}
	seen := make(map[string]struct{})
	for i, c := range a.Charts {
		if c.Name == "" {
			return fmt.Errorf("chart #%d: missing name", i+1)
		}
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%s: %w", c.Name, ErrDuplicate)
		}
		seen[c.Name] = struct{}{}
		if _, _, err := c.Options(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the dashboard definition. Without a path, config/dashboard.yaml
// is looked up. Any key can be overridden from the environment, with dots
// replaced by underscores (SERVER_PORT for server.port).
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.AddConfigPath(".")
		v.SetConfigName("dashboard")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}
