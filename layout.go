package charts

import (
	"math"
)

type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (m Margin) Horizontal() float64 {
	return m.Left + m.Right
}

func (m Margin) Vertical() float64 {
	return m.Top + m.Bottom
}

var (
	DefaultMargin = Margin{Top: 20, Right: 30, Bottom: 50, Left: 60}
	MobileMargin  = Margin{Top: 10, Right: 10, Bottom: 60, Left: 40}
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 400.0

	MobileBreakpoint = 600.0
	LegendBreakpoint = 500.0

	MinInnerWidth  = 200.0
	MinInnerHeight = 150.0

	LegendHeight = 24.0
	legendSwatch = 12.0
	legendGap    = 16.0
)

// Dimensions is the outcome of a layout: the size of the viewport, its
// margins and whether the narrow variants apply.
type Dimensions struct {
	Width  float64
	Height float64
	Margin

	Mobile bool
	Legend bool
}

func (d Dimensions) InnerWidth() float64 {
	return math.Max(MinInnerWidth, d.Width-d.Margin.Horizontal())
}

func (d Dimensions) InnerHeight() float64 {
	return math.Max(MinInnerHeight, d.Height-d.Margin.Vertical())
}

// Plot returns the inner plot area in viewport coordinates.
func (d Dimensions) Plot() Rect {
	return Rect{
		X: d.Margin.Left,
		Y: d.Margin.Top,
		W: d.InnerWidth(),
		H: d.InnerHeight(),
	}
}

type LayoutOptions struct {
	// Margin overrides the default margins. Narrow viewports still use the
	// mobile set.
	Margin *Margin
	Legend bool
}

// Layout derives the dimensions of a chart from the size of its container.
// Sizes that are not positive are clamped so that the inner plot never goes
// below MinInnerWidth x MinInnerHeight.
func Layout(width, height float64, opts LayoutOptions) Dimensions {
	if math.IsNaN(width) || width < 0 {
		width = 0
	}
	if math.IsNaN(height) || height < 0 {
		height = 0
	}
	d := Dimensions{
		Width:  width,
		Height: height,
		Margin: DefaultMargin,
		Mobile: width < MobileBreakpoint,
		Legend: opts.Legend && width >= LegendBreakpoint,
	}
	if opts.Margin != nil {
		d.Margin = *opts.Margin
	}
	if d.Mobile {
		d.Margin = MobileMargin
	}
	if d.Legend {
		d.Margin.Bottom += LegendHeight
	}
	d.Width = math.Max(d.Width, MinInnerWidth+d.Margin.Horizontal())
	d.Height = math.Max(d.Height, MinInnerHeight+d.Margin.Vertical())
	return d
}

type LegendItem struct {
	Label  string
	Color  string
	Swatch Rect
	Text   Pos
}

// Legend lays the entries out on one row under the plot. It returns nothing
// when the legend is disabled for these dimensions or when the entries do
// not fit on the row.
func Legend(d Dimensions, labels, colors []string) []LegendItem {
	if !d.Legend || len(labels) == 0 {
		return nil
	}
	var (
		x    = d.Margin.Left
		y    = d.Height - LegendHeight/2
		list []LegendItem
	)
	for i, label := range labels {
		var color string
		if i < len(colors) {
			color = colors[i]
		}
		width := legendSwatch + 6 + textWidth(label)
		if x+width > d.Width-d.Margin.Right {
			return nil
		}
		list = append(list, LegendItem{
			Label:  label,
			Color:  color,
			Swatch: Rect{X: x, Y: y - legendSwatch/2, W: legendSwatch, H: legendSwatch},
			Text:   NewPos(x+legendSwatch+6, y),
		})
		x += width + legendGap
	}
	return list
}

// textWidth estimates the rendered width of str at FontSize.
func textWidth(str string) float64 {
	return float64(len([]rune(str))) * FontSize * 0.6
}
