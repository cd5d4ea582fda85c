package charts

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

type Kind string

const (
	KindLine      Kind = "line"
	KindMultiLine Kind = "multiline"
	KindArea      Kind = "area"
	KindBar       Kind = "bar"
	KindPie       Kind = "pie"
	KindHeatmap   Kind = "heatmap"
)

func ParseKind(str string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(str))); k {
	case KindLine, KindMultiLine, KindArea, KindBar, KindPie, KindHeatmap:
		return k, nil
	case "multi-line", "multi_line":
		return KindMultiLine, nil
	default:
		return "", fmt.Errorf("%s: unknown chart kind", str)
	}
}

// Config is the declarative description of a chart. Only Data is required;
// every other field has a usable zero value.
type Config struct {
	Data   []Record
	Series []SeriesConfig

	XKey        string
	YKey        string
	CategoryKey string
	// Order fixes the order of the categories on the x axis.
	Order []string

	Width  float64
	Height float64
	Margin *Margin
	Colors []string

	ShowGrid   bool
	ShowLegend bool
	ShowDots   bool
	Animate    bool
	Curve      string
	Stacked    bool

	InnerRadius float64
	Heatmap     ColorScale
	Timing      *TimingOptions

	OnHover func(Record)
	OnClick func(Record)
}

func (c Config) palette() Palette {
	if len(c.Colors) > 0 {
		return Palette(c.Colors)
	}
	return Category10
}

func (c Config) dimensions() Dimensions {
	var (
		w = c.Width
		h = c.Height
	)
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	return Layout(w, h, LayoutOptions{
		Margin: c.Margin,
		Legend: c.ShowLegend,
	})
}

func (c Config) timing() TimingOptions {
	opts := DefaultTiming()
	if c.Timing != nil {
		opts = *c.Timing
	}
	opts.Disabled = opts.Disabled || !c.Animate
	return opts
}

// Frame is everything needed to draw one chart. Shapes and axes are in plot
// coordinates: their origin is the top left corner of the inner plot area.
type Frame struct {
	Kind Kind
	Dimensions

	X Scale
	Y Scale

	Shapes   []Shape
	Axes     []Axis
	Legend   []LegendItem
	Warnings []Warning

	timing  TimingOptions
	onHover func(Record)
	onClick func(Record)
}

func (f Frame) Empty() bool {
	return len(f.Shapes) == 0
}

// Timeline returns a new timeline animating the shapes of the frame.
func (f Frame) Timeline() *Timeline {
	return NewTimeline(f.Shapes, f.timing)
}

// Hover resolves a pointer given in viewport coordinates and reports the
// datum found, or nil, to the hover callback. An empty frame never reports
// anything.
func (f Frame) Hover(pointer Pos) HoverState {
	if f.Empty() {
		return HoverState{Pointer: pointer}
	}
	hover := f.resolve(pointer)
	if f.onHover != nil {
		f.onHover(hover.Datum)
	}
	return hover
}

// Leave clears the hover state.
func (f Frame) Leave() HoverState {
	if !f.Empty() && f.onHover != nil {
		f.onHover(nil)
	}
	return HoverState{}
}

func (f Frame) Click(pointer Pos) HoverState {
	if f.Empty() {
		return HoverState{Pointer: pointer}
	}
	hover := f.resolve(pointer)
	if hover.Active && f.onClick != nil {
		f.onClick(hover.Datum)
	}
	return hover
}

func (f Frame) resolve(pointer Pos) HoverState {
	plot := f.Plot()
	if !plot.Contains(pointer) {
		return HoverState{Pointer: pointer}
	}
	local := NewPos(pointer.X-plot.X, pointer.Y-plot.Y)
	hover := Resolve(f.Shapes, local)
	hover.Pointer = pointer
	if hover.Active {
		w, h := TooltipSize(f.Tooltip(hover))
		hover.Tooltip = PlaceTooltip(pointer, w, h, Rect{W: f.Width, H: f.Height})
	}
	return hover
}

// Tooltip returns the lines describing the hovered datum, one per field in
// key order.
func (f Frame) Tooltip(hover HoverState) []string {
	if !hover.Active || hover.Datum == nil {
		return nil
	}
	keys := make([]string, 0, len(hover.Datum))
	for k := range hover.Datum {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v := hover.Datum[k]
		str := v.String()
		if v.Kind == FieldNumber {
			f, _ := v.Float()
			str = FormatNumber(f)
		}
		lines = append(lines, k+": "+str)
	}
	return lines
}

// TooltipSize estimates the box needed to show lines.
func TooltipSize(lines []string) (float64, float64) {
	var w float64
	for _, str := range lines {
		w = math.Max(w, textWidth(str))
	}
	return w + 16, float64(len(lines))*FontSize*1.4 + 12
}

// Render builds the frame of the given kind. An unknown kind yields an
// empty frame carrying a warning.
func Render(kind Kind, cfg Config) Frame {
	switch kind {
	case KindLine:
		return LineChart(cfg)
	case KindMultiLine:
		return MultiLineChart(cfg)
	case KindArea:
		return AreaChart(cfg)
	case KindBar:
		return BarChart(cfg)
	case KindPie:
		return PieChart(cfg)
	case KindHeatmap:
		return HeatmapChart(cfg)
	default:
		return Frame{
			Kind:       kind,
			Dimensions: cfg.dimensions(),
			Warnings:   []Warning{{Message: fmt.Sprintf("%q: unknown chart kind", kind)}},
		}
	}
}

func LineChart(cfg Config) Frame {
	return renderLines(KindLine, cfg, LineRenderer{
		Curve:  ParseCurve(cfg.Curve),
		Dots:   cfg.ShowDots,
		Marker: MarkerCircle,
	})
}

// MultiLineChart plots every series on one shared y scale. Without series,
// every numeric field other than the x key is plotted.
func MultiLineChart(cfg Config) Frame {
	if len(cfg.Series) == 0 && cfg.YKey == "" {
		for _, k := range numericFields(cfg.Data, cfg.XKey) {
			cfg.Series = append(cfg.Series, SeriesConfig{Key: k})
		}
	}
	return renderLines(KindMultiLine, cfg, LineRenderer{
		Curve:  ParseCurve(cfg.Curve),
		Dots:   cfg.ShowDots,
		Marker: MarkerCircle,
	})
}

func AreaChart(cfg Config) Frame {
	return renderLines(KindArea, cfg, LineRenderer{
		Curve:   ParseCurve(cfg.Curve),
		Fill:    true,
		Stacked: cfg.Stacked,
		Dots:    cfg.ShowDots,
	})
}

func renderLines(kind Kind, cfg Config, r LineRenderer) Frame {
	frame, series, ok := prepare(kind, cfg)
	if !ok {
		return frame
	}
	var (
		width  = frame.InnerWidth()
		height = frame.InnerHeight()
		xs     = columnValues(cfg.Data, cfg.XKey)
		opts   = ScaleOptions{Nice: true}
	)
	switch Classify(cfg.Data, cfg.XKey) {
	case FieldNumber:
		frame.X = BuildScale(ScaleLinear, xs, NewRange(0, width), ScaleOptions{})
	case FieldTime:
		frame.X = BuildScale(ScaleTime, xs, NewRange(0, width), ScaleOptions{})
	default:
		frame.X = BuildScale(ScalePoint, xs, NewRange(0, width), ScaleOptions{Order: cfg.Order})
	}
	if kind == KindArea {
		opts.Zero = true
	} else {
		opts.Pad = true
	}
	if r.Stacked {
		lo, hi := StackExtent(cfg.Data, series)
		frame.Y = LinearScale([]float64{lo, hi}, NewRange(height, 0), opts)
	} else {
		frame.Y = BuildScale(ScaleLinear, seriesValues(cfg.Data, series), NewRange(height, 0), opts)
	}
	return finish(frame, cfg, r, series)
}

// BarChart groups the series of a category side by side, or stacks them
// when cfg.Stacked is set.
func BarChart(cfg Config) Frame {
	frame, series, ok := prepare(KindBar, cfg)
	if !ok {
		return frame
	}
	var (
		width  = frame.InnerWidth()
		height = frame.InnerHeight()
		opts   = ScaleOptions{Nice: true, Zero: true}
		r      Renderer
	)
	frame.X = BuildScale(ScaleBand, columnValues(cfg.Data, cfg.XKey), NewRange(0, width), ScaleOptions{Order: cfg.Order})
	if cfg.Stacked {
		lo, hi := StackExtent(cfg.Data, series)
		frame.Y = LinearScale([]float64{lo, hi}, NewRange(height, 0), opts)
		r = StackedRenderer{}
	} else {
		frame.Y = BuildScale(ScaleLinear, seriesValues(cfg.Data, series), NewRange(height, 0), opts)
		r = BarRenderer{}
	}
	return finish(frame, cfg, r, series)
}

// PieChart draws one sector per record in input order. Labels come from the
// x key, or the category key when no x key is set.
func PieChart(cfg Config) Frame {
	if cfg.XKey == "" {
		cfg.XKey = cfg.CategoryKey
	}
	frame, series, ok := prepare(KindPie, cfg)
	if !ok {
		return frame
	}
	frame.X = PointScale(nil, NewRange(0, frame.InnerWidth()), 0)
	frame.Y = PointScale(nil, NewRange(0, frame.InnerHeight()), 0)

	var (
		palette = cfg.palette()
		p       = Plot{
			Records: cfg.Data,
			Series:  series[:1],
			XKey:    cfg.XKey,
			X:       frame.X,
			Y:       frame.Y,
			issues:  new(issues),
		}
		r = PieRenderer{
			Fill:        palette,
			InnerRadius: cfg.InnerRadius,
		}
	)
	frame.Shapes = r.Render(p)
	frame.Warnings = p.issues.warnings()
	if cfg.ShowLegend {
		labels := make([]string, len(cfg.Data))
		colors := make([]string, len(cfg.Data))
		for i, rec := range cfg.Data {
			labels[i] = rec.Text(cfg.XKey)
			colors[i] = palette.Pick(i)
		}
		frame.Legend = Legend(frame.Dimensions, labels, colors)
	}
	return frame
}

// HeatmapChart draws a cell per (x, y) pair. The value of a cell comes from
// the first series, the category key or the "value" field, in that order.
// Colors use cfg.Heatmap, or the 0-100 default scale.
func HeatmapChart(cfg Config) Frame {
	if len(cfg.Series) == 0 {
		key := cfg.CategoryKey
		if key == "" {
			key = "value"
		}
		cfg.Series = []SeriesConfig{{Key: key}}
	}
	yKey := cfg.YKey
	cfg.YKey = ""
	frame, series, ok := prepare(KindHeatmap, cfg)
	if !ok {
		return frame
	}
	frame.X = BuildScale(ScaleBand, columnValues(cfg.Data, cfg.XKey), NewRange(0, frame.InnerWidth()), ScaleOptions{Order: cfg.Order, Padding: 0.05})
	frame.Y = BuildScale(ScaleBand, columnValues(cfg.Data, yKey), NewRange(0, frame.InnerHeight()), ScaleOptions{Padding: 0.05})

	p := Plot{
		Records: cfg.Data,
		Series:  series[:1],
		XKey:    cfg.XKey,
		YKey:    yKey,
		X:       frame.X,
		Y:       frame.Y,
		issues:  new(issues),
	}
	frame.Shapes = HeatmapRenderer{Colors: cfg.Heatmap}.Render(p)
	frame.Warnings = p.issues.warnings()
	frame.Axes = axes(frame, cfg)
	frame.Axes[1].Label = yKey
	return frame
}

// prepare lays the chart out and resolves its series. The returned frame is
// final when ok is false: there is nothing to draw.
func prepare(kind Kind, cfg Config) (Frame, []SeriesConfig, bool) {
	frame := Frame{
		Kind:       kind,
		Dimensions: cfg.dimensions(),
		timing:     cfg.timing(),
		onHover:    cfg.OnHover,
		onClick:    cfg.OnClick,
	}
	if len(cfg.Data) == 0 {
		return frame, nil, false
	}
	series := resolveSeries(cfg.Series, cfg.YKey, cfg.palette())
	if len(series) == 0 {
		frame.Warnings = append(frame.Warnings, Warning{Message: "no series to plot"})
		return frame, nil, false
	}
	return frame, series, true
}

func finish(frame Frame, cfg Config, r Renderer, series []SeriesConfig) Frame {
	p := Plot{
		Records: cfg.Data,
		Series:  series,
		XKey:    cfg.XKey,
		X:       frame.X,
		Y:       frame.Y,
		issues:  new(issues),
	}
	frame.Shapes = r.Render(p)
	frame.Warnings = append(frame.Warnings, p.issues.warnings()...)
	frame.Axes = axes(frame, cfg)
	if cfg.ShowLegend {
		labels := make([]string, len(series))
		colors := make([]string, len(series))
		for i, s := range series {
			labels[i] = s.Label()
			colors[i] = s.Color
		}
		frame.Legend = Legend(frame.Dimensions, labels, colors)
	}
	return frame
}

func axes(frame Frame, cfg Config) []Axis {
	var (
		xopts = AxisOptions{
			Grid:   cfg.ShowGrid,
			Narrow: frame.Mobile,
			Label:  cfg.XKey,
		}
		yopts = AxisOptions{
			Grid: cfg.ShowGrid,
		}
	)
	if len(cfg.Series) == 1 {
		yopts.Label = cfg.Series[0].Label()
	} else if cfg.YKey != "" {
		yopts.Label = cfg.YKey
	}
	return []Axis{
		BottomAxis(frame.X, frame.InnerHeight(), xopts),
		LeftAxis(frame.Y, frame.InnerWidth(), yopts),
	}
}

// seriesValues gathers the values of every series so that they share one
// scale.
func seriesValues(records []Record, series []SeriesConfig) []Value {
	var vs []Value
	for _, s := range series {
		vs = append(vs, columnValues(records, s.Key)...)
	}
	return vs
}

func numericFields(records []Record, skip string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	var list []string
	for k := range seen {
		if k == skip || Classify(records, k) != FieldNumber {
			continue
		}
		list = append(list, k)
	}
	slices.Sort(list)
	return list
}
