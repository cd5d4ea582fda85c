package charts

import (
	"math"
	"sort"
)

// Plot carries what every generator needs: the records, the series to
// draw and the scales of both axes.
type Plot struct {
	Records []Record
	Series  []SeriesConfig
	XKey    string
	YKey    string
	X       Scale
	Y       Scale

	issues *issues
}

// value reads a numeric field and degrades to 0 when it is not numeric.
func (p Plot) value(r Record, index int, key string) float64 {
	f, ok := r.Float(key)
	if !ok {
		if v, exists := r[key]; exists && !v.IsZero() {
			p.issues.add(key, index, "%q is not numeric, plotted as 0", v.String())
		} else {
			p.issues.add(key, index, "missing value, plotted as 0")
		}
	}
	return f
}

// xOf returns the horizontal position of a record: the center of its slot
// on discrete scales.
func (p Plot) xOf(r Record) float64 {
	v := r[p.XKey]
	if p.X.Kind.Discrete() {
		return p.X.Center(v.String())
	}
	return p.X.Scale(v)
}

// baseline returns the pixel of 0 on the y scale, or the bottom of the
// plot when 0 lies outside the domain.
func (p Plot) baseline() float64 {
	if p.Y.Min <= 0 && p.Y.Max >= 0 {
		return p.Y.ScaleNumber(0)
	}
	return p.Y.Range.Max()
}

type Renderer interface {
	Render(Plot) []Shape
}

type LineRenderer struct {
	Curve   Curve
	Fill    bool
	Stacked bool
	Dots    bool
	Marker  Marker
	Opacity float64
}

type seriesLine struct {
	points  []Pos
	base    []Pos
	records []Record
}

func (r LineRenderer) Render(p Plot) []Shape {
	if len(p.Records) == 0 {
		return nil
	}
	var (
		order = p.order()
		lines = make([]seriesLine, len(p.Series))
		stack = make([]float64, len(order))
		base  = p.baseline()
	)
	for si, s := range p.Series {
		var sl seriesLine
		for j, i := range order {
			rec := p.Records[i]
			var (
				val = p.value(rec, i, s.Key)
				x   = p.xOf(rec)
				lo  = base
			)
			if r.Stacked {
				lo = p.Y.ScaleNumber(stack[j])
				stack[j] += val
				val = stack[j]
			}
			sl.points = append(sl.points, NewPos(x, p.Y.ScaleNumber(val)))
			sl.base = append(sl.base, NewPos(x, lo))
			sl.records = append(sl.records, rec)
		}
		lines[si] = sl
	}

	var list []Shape
	for si, s := range p.Series {
		sl := lines[si]
		if r.Fill {
			area := Shape{
				Kind:    ShapeArea,
				Series:  s.Key,
				Index:   si,
				Points:  sl.points,
				Base:    base,
				Fill:    s.Color,
				Opacity: r.opacity(),
				Records: sl.records,
			}
			if r.Stacked {
				area.Path = AreaBandPath(sl.points, sl.base, r.Curve)
			} else {
				area.Path = AreaPath(sl.points, base, r.Curve)
			}
			list = append(list, area)
		}
		list = append(list, Shape{
			Kind:        ShapeLine,
			Series:      s.Key,
			Index:       si,
			Path:        LinePath(sl.points, r.Curve),
			Points:      sl.points,
			Curve:       r.Curve,
			Stroke:      s.Color,
			StrokeWidth: s.StrokeWidth,
			Dash:        s.Dash,
			Opacity:     1,
			Records:     sl.records,
		})
	}
	if !r.Dots {
		return list
	}
	for si, s := range p.Series {
		sl := lines[si]
		for i, pos := range sl.points {
			list = append(list, Shape{
				Kind:    ShapeDot,
				Series:  s.Key,
				Index:   i,
				Center:  pos,
				Radius:  DefaultDotRadius,
				Marker:  r.Marker,
				Fill:    s.Color,
				Stroke:  s.Color,
				Opacity: 1,
				Records: []Record{sl.records[i]},
			})
		}
	}
	return list
}

func (r LineRenderer) opacity() float64 {
	if r.Opacity <= 0 {
		return 0.3
	}
	return r.Opacity
}

// order returns the indices of the records to draw, sorted by x. Records
// keep their input order on ties. Records whose category is not on the x
// axis are left out.
func (p Plot) order() []int {
	var (
		idx []int
		xs  = make([]float64, len(p.Records))
	)
	for i, r := range p.Records {
		if !p.onAxis(r, i) {
			continue
		}
		idx = append(idx, i)
		xs[i] = p.xOf(r)
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return xs[idx[i]] < xs[idx[j]]
	})
	return idx
}

// onAxis reports whether the categories of r exist on the discrete scales
// of the plot. A record that does not fit is reported once.
func (p Plot) onAxis(r Record, index int) bool {
	if str := r.Text(p.XKey); !p.X.Has(str) {
		p.issues.add(p.XKey, index, "category %q not on the x axis, skipped", str)
		return false
	}
	if p.YKey == "" || !p.Y.Kind.Discrete() {
		return true
	}
	if str := r.Text(p.YKey); !p.Y.Has(str) {
		p.issues.add(p.YKey, index, "category %q not on the y axis, skipped", str)
		return false
	}
	return true
}

// AreaBandPath closes a region between two lines sharing their x positions.
func AreaBandPath(top, bottom []Pos, curve Curve) string {
	if len(top) == 0 || len(top) != len(bottom) {
		return ""
	}
	rev := make([]Pos, len(bottom))
	for i := range bottom {
		rev[len(bottom)-1-i] = bottom[i]
	}
	var b pathBuilder
	drawCurve(&b, top, curve, true)
	b.LineTo(rev[0])
	drawCurve(&b, rev, curve, false)
	b.Close()
	return b.String()
}

type BarRenderer struct {
	Gap float64
}

func (r BarRenderer) Render(p Plot) []Shape {
	if len(p.Records) == 0 || len(p.Series) == 0 {
		return nil
	}
	var (
		n     = float64(len(p.Series))
		gap   = r.gap()
		bw    = p.X.Bandwidth()
		width = (bw - gap*(n-1)) / n
		base  = p.baseline()
		list  []Shape
	)
	if width <= 0 {
		gap, width = 0, bw/n
	}
	for i, rec := range p.Records {
		if !p.onAxis(rec, i) {
			continue
		}
		x0 := p.X.ScaleCategory(rec.Text(p.XKey))
		for si, s := range p.Series {
			var (
				val = p.value(rec, i, s.Key)
				y   = p.Y.ScaleNumber(val)
				x   = x0 + float64(si)*(width+gap)
			)
			list = append(list, Shape{
				Kind:    ShapeRect,
				Series:  s.Key,
				Index:   i,
				Rect:    Rect{X: x, Y: math.Min(y, base), W: width, H: math.Abs(base - y)},
				Value:   val,
				Fill:    s.Color,
				Opacity: 1,
				Records: []Record{rec},
			})
		}
	}
	return list
}

func (r BarRenderer) gap() float64 {
	if r.Gap <= 0 {
		return 2
	}
	return r.Gap
}

// StackedRenderer puts the series of a category end to end. Positive and
// negative values grow away from 0 on their own side.
type StackedRenderer struct{}

func (r StackedRenderer) Render(p Plot) []Shape {
	if len(p.Records) == 0 || len(p.Series) == 0 {
		return nil
	}
	var list []Shape
	for i, rec := range p.Records {
		if !p.onAxis(rec, i) {
			continue
		}
		var (
			x        = p.X.ScaleCategory(rec.Text(p.XKey))
			pos, neg float64
		)
		for _, s := range p.Series {
			var (
				val    = p.value(rec, i, s.Key)
				lo, hi float64
			)
			if val >= 0 {
				lo, hi = pos, pos+val
				pos = hi
			} else {
				lo, hi = neg+val, neg
				neg = lo
			}
			var (
				y0 = p.Y.ScaleNumber(lo)
				y1 = p.Y.ScaleNumber(hi)
			)
			list = append(list, Shape{
				Kind:    ShapeRect,
				Series:  s.Key,
				Index:   i,
				Rect:    Rect{X: x, Y: math.Min(y0, y1), W: p.X.Bandwidth(), H: math.Abs(y0 - y1)},
				Value:   val,
				Fill:    s.Color,
				Opacity: 1,
				Records: []Record{rec},
			})
		}
	}
	return list
}

// StackExtent returns the lowest and highest cumulative sums over every
// category, the domain a stacked layout must be scaled on.
func StackExtent(records []Record, series []SeriesConfig) (float64, float64) {
	var lo, hi float64
	for _, rec := range records {
		var pos, neg float64
		for _, s := range series {
			f, _ := rec.Float(s.Key)
			if f >= 0 {
				pos += f
			} else {
				neg += f
			}
		}
		lo = math.Min(lo, neg)
		hi = math.Max(hi, pos)
	}
	return lo, hi
}

// PieLayout turns values into consecutive sectors in input order starting
// at angle 0. Negative values count as 0.
func PieLayout(values []float64, center Pos, inner, outer float64) []Arc {
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	arcs := make([]Arc, len(values))
	if total <= 0 {
		for i := range arcs {
			arcs[i] = Arc{Center: center, Inner: inner, Outer: outer}
		}
		return arcs
	}
	var (
		cum   float64
		angle float64
	)
	for i, v := range values {
		if v > 0 {
			cum += v
		}
		end := fullTurn * cum / total
		arcs[i] = Arc{
			Center: center,
			Inner:  inner,
			Outer:  outer,
			Start:  angle,
			End:    end,
		}
		angle = end
	}
	return arcs
}

type PieRenderer struct {
	Fill        Palette
	InnerRadius float64
	OuterRadius float64
}

func (r PieRenderer) Render(p Plot) []Shape {
	if len(p.Records) == 0 || len(p.Series) == 0 {
		return nil
	}
	var (
		key    = p.Series[0].Key
		values = make([]float64, len(p.Records))
		center = NewPos(p.X.Range.Min()+math.Abs(p.X.Len())/2, p.Y.Range.Min()+math.Abs(p.Y.Len())/2)
		outer  = r.OuterRadius
		list   []Shape
	)
	if outer <= 0 {
		outer = math.Min(math.Abs(p.X.Len()), math.Abs(p.Y.Len())) / 2
	}
	for i, rec := range p.Records {
		values[i] = p.value(rec, i, key)
		if values[i] < 0 {
			p.issues.add(key, i, "negative value %g counted as 0", values[i])
		}
	}
	arcs := PieLayout(values, center, r.InnerRadius, outer)
	for i, a := range arcs {
		list = append(list, Shape{
			Kind:    ShapeArc,
			Series:  p.Records[i].Text(p.XKey),
			Index:   i,
			Path:    ArcPath(a),
			Arc:     a,
			Value:   values[i],
			Fill:    r.Fill.Pick(i),
			Stroke:  "#ffffff",
			Opacity: 1,
			Records: []Record{p.Records[i]},
		})
	}
	return list
}

type HeatmapRenderer struct {
	Colors ColorScale
}

func (r HeatmapRenderer) Render(p Plot) []Shape {
	if len(p.Records) == 0 || len(p.Series) == 0 {
		return nil
	}
	var (
		key    = p.Series[0].Key
		colors = r.Colors
		list   []Shape
	)
	if len(colors.Stops) == 0 && colors.Min == 0 && colors.Max == 0 {
		colors = DefaultColorScale()
	}
	for i, rec := range p.Records {
		if !p.onAxis(rec, i) {
			continue
		}
		var (
			val  = p.value(rec, i, key)
			rect = Rect{
				X: p.X.ScaleCategory(rec.Text(p.XKey)),
				Y: p.Y.ScaleCategory(rec.Text(p.YKey)),
				W: p.X.Bandwidth(),
				H: p.Y.Bandwidth(),
			}
		)
		if colors.Clamped(val) {
			p.issues.add(key, i, "%g outside color domain [%g, %g], clamped", val, colors.Min, colors.Max)
		}
		list = append(list, Shape{
			Kind:    ShapeCell,
			Series:  key,
			Index:   i,
			Rect:    rect,
			Value:   val,
			Fill:    colors.Color(val),
			Stroke:  "#ffffff",
			Opacity: 1,
			Records: []Record{rec},
		})
	}
	return list
}
