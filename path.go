package charts

import (
	"math"
	"strconv"
	"strings"
)

type Curve int

const (
	CurveMonotone Curve = iota
	CurveLinear
	CurveStep
	CurveStepBefore
	CurveStepAfter
	CurveBasis
)

// ParseCurve never fails: unknown names give the monotone curve.
func ParseCurve(str string) Curve {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "linear":
		return CurveLinear
	case "step":
		return CurveStep
	case "step-before", "stepbefore":
		return CurveStepBefore
	case "step-after", "stepafter":
		return CurveStepAfter
	case "basis":
		return CurveBasis
	default:
		return CurveMonotone
	}
}

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveStep:
		return "step"
	case CurveStepBefore:
		return "step-before"
	case CurveStepAfter:
		return "step-after"
	case CurveBasis:
		return "basis"
	default:
		return "monotone"
	}
}

// pathDrawer receives the segments of a curve.
type pathDrawer interface {
	MoveTo(Pos)
	LineTo(Pos)
	CubicTo(c1, c2, p Pos)
}

type pathBuilder struct {
	strings.Builder
}

func (b *pathBuilder) MoveTo(p Pos) {
	b.command('M', p)
}

func (b *pathBuilder) LineTo(p Pos) {
	b.command('L', p)
}

func (b *pathBuilder) CubicTo(c1, c2, p Pos) {
	b.command('C', c1, c2, p)
}

func (b *pathBuilder) ArcTo(radius float64, large, sweep bool, p Pos) {
	b.WriteByte('A')
	b.WriteString(formatCoord(radius))
	b.WriteByte(',')
	b.WriteString(formatCoord(radius))
	b.WriteString(",0,")
	b.WriteString(flag(large))
	b.WriteByte(',')
	b.WriteString(flag(sweep))
	b.WriteByte(',')
	b.writePos(p)
}

func (b *pathBuilder) Close() {
	b.WriteByte('Z')
}

func (b *pathBuilder) command(cmd byte, ps ...Pos) {
	b.WriteByte(cmd)
	for i, p := range ps {
		if i > 0 {
			b.WriteByte(',')
		}
		b.writePos(p)
	}
}

func (b *pathBuilder) writePos(p Pos) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(',')
	b.WriteString(formatCoord(p.Y))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatCoord(f float64) string {
	f = math.Round(f*100) / 100
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LinePath draws a connected path through points with the given curve.
func LinePath(points []Pos, curve Curve) string {
	var b pathBuilder
	drawCurve(&b, points, curve, true)
	return b.String()
}

// AreaPath closes the line through points against a horizontal baseline.
func AreaPath(points []Pos, baseline float64, curve Curve) string {
	if len(points) == 0 {
		return ""
	}
	var b pathBuilder
	drawCurve(&b, points, curve, true)
	var (
		fst = points[0]
		lst = points[len(points)-1]
	)
	b.LineTo(NewPos(lst.X, baseline))
	b.LineTo(NewPos(fst.X, baseline))
	b.Close()
	return b.String()
}

func drawCurve(b pathDrawer, points []Pos, curve Curve, move bool) {
	if len(points) == 0 {
		return
	}
	if move {
		b.MoveTo(points[0])
	}
	if len(points) == 1 {
		return
	}
	switch curve {
	case CurveLinear:
		for _, p := range points[1:] {
			b.LineTo(p)
		}
	case CurveStep:
		drawStep(b, points)
	case CurveStepBefore:
		drawStepBefore(b, points)
	case CurveStepAfter:
		drawStepAfter(b, points)
	case CurveBasis:
		drawBasis(b, points)
	default:
		drawMonotone(b, points)
	}
}

func drawStep(b pathDrawer, points []Pos) {
	ori := points[0]
	for _, pos := range points[1:] {
		ori.X += (pos.X - ori.X) / 2
		b.LineTo(ori)
		ori.Y = pos.Y
		b.LineTo(ori)
		b.LineTo(pos)
		ori = pos
	}
}

func drawStepAfter(b pathDrawer, points []Pos) {
	ori := points[0]
	for _, pos := range points[1:] {
		ori.X = pos.X
		b.LineTo(ori)
		b.LineTo(pos)
		ori = pos
	}
}

func drawStepBefore(b pathDrawer, points []Pos) {
	ori := points[0]
	for _, pos := range points[1:] {
		ori.Y = pos.Y
		b.LineTo(ori)
		b.LineTo(pos)
		ori = pos
	}
}

// drawBasis renders a uniform cubic B-spline whose ends are clamped to
// the first and last points.
func drawBasis(b pathDrawer, points []Pos) {
	if len(points) == 2 {
		b.LineTo(points[1])
		return
	}
	var (
		p0 = points[0]
		p1 = points[1]
	)
	b.LineTo(NewPos((5*p0.X+p1.X)/6, (5*p0.Y+p1.Y)/6))
	segment := func(p0, p1, p Pos) {
		b.CubicTo(
			NewPos((2*p0.X+p1.X)/3, (2*p0.Y+p1.Y)/3),
			NewPos((p0.X+2*p1.X)/3, (p0.Y+2*p1.Y)/3),
			NewPos((p0.X+4*p1.X+p.X)/6, (p0.Y+4*p1.Y+p.Y)/6),
		)
	}
	for _, p := range points[2:] {
		segment(p0, p1, p)
		p0, p1 = p1, p
	}
	segment(p0, p1, p1)
	b.LineTo(p1)
}

// drawMonotone renders a monotone cubic interpolation in x: tangents are
// zero at local extrema so the curve never overshoots the data.
func drawMonotone(b pathDrawer, points []Pos) {
	if len(points) == 2 {
		b.LineTo(points[1])
		return
	}
	tangents := monotoneTangents(points)
	for i := 0; i < len(points)-1; i++ {
		var (
			p0 = points[i]
			p1 = points[i+1]
			dx = (p1.X - p0.X) / 3
		)
		b.CubicTo(
			NewPos(p0.X+dx, p0.Y+dx*tangents[i]),
			NewPos(p1.X-dx, p1.Y-dx*tangents[i+1]),
			p1,
		)
	}
}

func monotoneTangents(points []Pos) []float64 {
	n := len(points)
	ts := make([]float64, n)
	for i := 1; i < n-1; i++ {
		ts[i] = interiorSlope(points[i-1], points[i], points[i+1])
	}
	ts[0] = endSlope(points[0], points[1], ts[1])
	ts[n-1] = endSlope(points[n-2], points[n-1], ts[n-2])
	return ts
}

func interiorSlope(p0, p1, p2 Pos) float64 {
	var (
		h0 = p1.X - p0.X
		h1 = p2.X - p1.X
		s0 = secant(p0, p1)
		s1 = secant(p1, p2)
	)
	if h0+h1 == 0 {
		return 0
	}
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

// endSlope derives the tangent at an end point from the secant of the
// outer segment and the tangent at its other end.
func endSlope(p0, p1 Pos, other float64) float64 {
	h := p1.X - p0.X
	if h == 0 {
		return other
	}
	t := (3*(p1.Y-p0.Y)/h - other) / 2
	s := secant(p0, p1)
	if sign(t) != sign(s) {
		return 0
	}
	if math.Abs(t) > 3*math.Abs(s) {
		return 3 * s
	}
	return t
}

func secant(p0, p1 Pos) float64 {
	h := p1.X - p0.X
	if h == 0 {
		return 0
	}
	return (p1.Y - p0.Y) / h
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// CurveLength measures the path drawn through points with the given curve.
// Cubic segments are flattened. Line reveal animations use it as their dash
// length.
func CurveLength(points []Pos, curve Curve) float64 {
	var m pathMeter
	drawCurve(&m, points, curve, true)
	return m.length
}

const cubicSamples = 32

type pathMeter struct {
	cur    Pos
	length float64
}

func (m *pathMeter) MoveTo(p Pos) {
	m.cur = p
}

func (m *pathMeter) LineTo(p Pos) {
	m.length += m.cur.Distance(p)
	m.cur = p
}

func (m *pathMeter) CubicTo(c1, c2, p Pos) {
	var (
		p0   = m.cur
		prev = p0
	)
	for i := 1; i <= cubicSamples; i++ {
		var (
			t = float64(i) / cubicSamples
			u = 1 - t
			a = u * u * u
			b = 3 * u * u * t
			c = 3 * u * t * t
			d = t * t * t
		)
		q := NewPos(a*p0.X+b*c1.X+c*c2.X+d*p.X, a*p0.Y+b*c1.Y+c*c2.Y+d*p.Y)
		m.length += prev.Distance(q)
		prev = q
	}
	m.cur = p
}

// ArcPath draws a pie or donut sector.
func ArcPath(a Arc) string {
	var b pathBuilder
	if a.Span() <= 0 || a.Outer <= 0 {
		return ""
	}
	if a.Span() >= fullTurn-1e-9 {
		half := a.Start + math.Pi
		b.MoveTo(polar(a.Center, a.Outer, a.Start))
		b.ArcTo(a.Outer, false, true, polar(a.Center, a.Outer, half))
		b.ArcTo(a.Outer, false, true, polar(a.Center, a.Outer, a.Start))
		if a.Inner > 0 {
			b.MoveTo(polar(a.Center, a.Inner, a.Start))
			b.ArcTo(a.Inner, false, false, polar(a.Center, a.Inner, half))
			b.ArcTo(a.Inner, false, false, polar(a.Center, a.Inner, a.Start))
		}
		b.Close()
		return b.String()
	}
	large := a.Span() > math.Pi
	b.MoveTo(polar(a.Center, a.Outer, a.Start))
	b.ArcTo(a.Outer, large, true, polar(a.Center, a.Outer, a.End))
	if a.Inner > 0 {
		b.LineTo(polar(a.Center, a.Inner, a.End))
		b.ArcTo(a.Inner, large, false, polar(a.Center, a.Inner, a.Start))
	} else {
		b.LineTo(a.Center)
	}
	b.Close()
	return b.String()
}

// RectPath draws r as a closed path, keeping fractional coordinates.
func RectPath(r Rect) string {
	var b pathBuilder
	b.MoveTo(NewPos(r.X, r.Y))
	b.LineTo(NewPos(r.X+r.W, r.Y))
	b.LineTo(NewPos(r.X+r.W, r.Y+r.H))
	b.LineTo(NewPos(r.X, r.Y+r.H))
	b.Close()
	return b.String()
}

// MarkerPath draws the marker of a dot centered on c.
func MarkerPath(c Pos, radius float64, m Marker) string {
	if radius <= 0 {
		return ""
	}
	var b pathBuilder
	switch m {
	case MarkerSquare:
		return RectPath(Rect{X: c.X - radius, Y: c.Y - radius, W: 2 * radius, H: 2 * radius})
	case MarkerDiamond:
		b.MoveTo(NewPos(c.X, c.Y-radius))
		b.LineTo(NewPos(c.X+radius, c.Y))
		b.LineTo(NewPos(c.X, c.Y+radius))
		b.LineTo(NewPos(c.X-radius, c.Y))
	default:
		b.MoveTo(NewPos(c.X-radius, c.Y))
		b.ArcTo(radius, true, false, NewPos(c.X+radius, c.Y))
		b.ArcTo(radius, true, false, NewPos(c.X-radius, c.Y))
	}
	b.Close()
	return b.String()
}
