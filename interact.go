package charts

import (
	"math"
	"sort"
)

// HoverState is owned by whoever resolves pointer events; renderers only
// read it.
type HoverState struct {
	Active  bool
	Datum   Record
	Shape   Shape
	Pointer Pos
	Tooltip Pos
}

const (
	TooltipOffset = 12.0
	hitRadius     = 8.0
)

// NearestX returns the index in xs, sorted in increasing order, of the
// value closest to px. The two values around px are found by bisection and
// the closer one wins; on a tie the left one is kept.
func NearestX(xs []float64, px float64) int {
	n := len(xs)
	if n == 0 {
		return -1
	}
	i := sort.SearchFloat64s(xs, px)
	switch {
	case i <= 0:
		return 0
	case i >= n:
		return n - 1
	}
	if px-xs[i-1] <= xs[i]-px {
		return i - 1
	}
	return i
}

// Resolve finds the shape under the pointer. Discrete shapes (bars, sectors,
// cells) must contain the pointer; lines resolve to the point nearest on x.
// The returned state is inactive when nothing matches.
func Resolve(shapes []Shape, pointer Pos) HoverState {
	hover := HoverState{Pointer: pointer}
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if !s.Kind.Discrete() {
			continue
		}
		var hit bool
		switch s.Kind {
		case ShapeArc:
			hit = s.Arc.Contains(pointer)
		default:
			hit = s.Rect.Contains(pointer)
		}
		if hit {
			hover.Active = true
			hover.Shape = s
			hover.Datum = s.Datum()
			return hover
		}
	}
	var (
		best  = math.Inf(1)
		found bool
	)
	for _, s := range shapes {
		if s.Kind != ShapeLine || len(s.Points) == 0 {
			continue
		}
		var (
			xs  = make([]float64, len(s.Points))
			pts = s.Points
		)
		for i, p := range pts {
			xs[i] = p.X
		}
		i := NearestX(xs, pointer.X)
		if i < 0 {
			continue
		}
		dist := math.Abs(pts[i].Y - pointer.Y)
		if found && dist >= best {
			continue
		}
		found = true
		best = dist
		hover.Shape = Shape{
			Kind:    ShapeDot,
			Series:  s.Series,
			Index:   i,
			Center:  pts[i],
			Radius:  DefaultDotRadius * 1.5,
			Fill:    s.Stroke,
			Stroke:  s.Stroke,
			Opacity: 1,
		}
		if i < len(s.Records) {
			hover.Shape.Records = []Record{s.Records[i]}
			hover.Datum = s.Records[i]
		}
	}
	if found {
		hover.Active = true
		return hover
	}
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if s.Kind == ShapeDot && s.Center.Distance(pointer) <= math.Max(s.Radius, hitRadius) {
			hover.Active = true
			hover.Shape = s
			hover.Datum = s.Datum()
			return hover
		}
	}
	return hover
}

// PlaceTooltip puts a box of the given size next to the pointer, flipping
// it to the other side when it would leave the viewport and clamping what
// still does not fit.
func PlaceTooltip(pointer Pos, w, h float64, viewport Rect) Pos {
	var (
		x = pointer.X + TooltipOffset
		y = pointer.Y + TooltipOffset
	)
	if x+w > viewport.X+viewport.W {
		x = pointer.X - TooltipOffset - w
	}
	if y+h > viewport.Y+viewport.H {
		y = pointer.Y - TooltipOffset - h
	}
	x = math.Max(viewport.X, math.Min(x, viewport.X+viewport.W-w))
	y = math.Max(viewport.Y, math.Min(y, viewport.Y+viewport.H-h))
	return NewPos(x, y)
}

// Highlight returns the shapes marking the hovered datum: a crosshair and
// an enlarged point for lines, a darkened copy for discrete shapes.
func Highlight(hover HoverState, plot Rect) []Shape {
	if !hover.Active {
		return nil
	}
	s := hover.Shape
	switch s.Kind {
	case ShapeDot:
		cross := Shape{
			Kind:        ShapeLine,
			Series:      s.Series,
			Index:       s.Index,
			Points:      []Pos{NewPos(s.Center.X, plot.Y), NewPos(s.Center.X, plot.Bottom())},
			Stroke:      "#999999",
			StrokeWidth: 1,
			Dash:        "4,4",
			Opacity:     1,
		}
		cross.Curve = CurveLinear
		cross.Path = LinePath(cross.Points, cross.Curve)
		return []Shape{cross, s}
	case ShapeRect, ShapeCell, ShapeArc:
		s.Fill = Darken(s.Fill, 0.2)
		return []Shape{s}
	default:
		return nil
	}
}
