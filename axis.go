package charts

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

const FontSize = 12.0

type Orientation int

const (
	OrientTop Orientation = 1 << iota
	OrientRight
	OrientBottom
	OrientLeft
)

func (o Orientation) Vertical() bool {
	return o == OrientLeft || o == OrientRight
}

func (o Orientation) Reverse() bool {
	return o == OrientRight || o == OrientTop
}

const (
	denseCategories = 8
	denseStep       = 40.0
	rotateAngle     = -45.0
	tickSize        = 6.0
)

type Tick struct {
	Value Value
	Pos   float64
	Label string
}

type AxisOptions struct {
	Ticks  int
	Grid   bool
	Narrow bool
	Label  string
	Format func(Value) string
}

// Axis is the drawable description of one axis, in plot coordinates: the
// origin is the top left corner of the inner plot area.
type Axis struct {
	Orientation
	Label  string
	Rotate float64
	Ticks  []Tick
	Domain Line
	Marks  []Line
	Grid   []Line
}

// BottomAxis lays out the x axis along the bottom edge. height is the
// inner plot height, used for gridlines.
func BottomAxis(s Scale, height float64, opts AxisOptions) Axis {
	a := Axis{
		Orientation: OrientBottom,
		Label:       opts.Label,
		Domain:      NewLine(s.Range.Min(), height, s.Range.Max(), height),
	}
	for _, t := range layoutTicks(s, opts) {
		a.Ticks = append(a.Ticks, t)
		a.Marks = append(a.Marks, NewLine(t.Pos, height, t.Pos, height+tickSize))
		if opts.Grid {
			a.Grid = append(a.Grid, NewLine(t.Pos, 0, t.Pos, height))
		}
	}
	if shouldRotate(s, len(a.Ticks), opts.Narrow) {
		a.Rotate = rotateAngle
	}
	return a
}

// LeftAxis lays out the y axis along the left edge. width is the inner plot
// width, used for gridlines.
func LeftAxis(s Scale, width float64, opts AxisOptions) Axis {
	a := Axis{
		Orientation: OrientLeft,
		Label:       opts.Label,
		Domain:      NewLine(0, s.Range.Min(), 0, s.Range.Max()),
	}
	for _, t := range layoutTicks(s, opts) {
		a.Ticks = append(a.Ticks, t)
		a.Marks = append(a.Marks, NewLine(-tickSize, t.Pos, 0, t.Pos))
		if opts.Grid {
			a.Grid = append(a.Grid, NewLine(0, t.Pos, width, t.Pos))
		}
	}
	return a
}

func layoutTicks(s Scale, opts AxisOptions) []Tick {
	format := opts.Format
	if format == nil {
		format = defaultFormat(s)
	}
	var list []Tick
	for _, v := range s.Ticks(opts.Ticks) {
		var pos float64
		if s.Kind.Discrete() {
			pos = s.Center(v.String())
		} else {
			pos = s.Scale(v)
		}
		list = append(list, Tick{
			Value: v,
			Pos:   pos,
			Label: format(v),
		})
	}
	return list
}

func shouldRotate(s Scale, n int, narrow bool) bool {
	switch {
	case s.Kind.Discrete():
		return n > denseCategories || s.Space() < denseStep || (narrow && n > 1)
	case s.Kind == ScaleTime:
		return narrow
	default:
		return false
	}
}

func defaultFormat(s Scale) func(Value) string {
	switch s.Kind {
	case ScaleLinear:
		return func(v Value) string {
			f, _ := v.Float()
			return FormatNumber(f)
		}
	case ScaleTime:
		return func(v Value) string {
			t, _ := v.Time()
			return t.Format("Jan 2006")
		}
	default:
		return func(v Value) string {
			return v.String()
		}
	}
}

// FormatNumber abbreviates large numbers with SI prefixes: 1200 gives
// "1.2k", 3500000 gives "3.5M".
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if math.Abs(f) < 1000 {
		return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
	}
	val, prefix := humanize.ComputeSI(f)
	return strconv.FormatFloat(math.Round(val*10)/10, 'f', -1, 64) + prefix
}
