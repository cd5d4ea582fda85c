package charts

import (
	"math"
	"time"
)

type ScaleKind int

const (
	ScalePoint ScaleKind = iota
	ScaleBand
	ScaleLinear
	ScaleTime
)

func (k ScaleKind) String() string {
	switch k {
	case ScaleBand:
		return "band"
	case ScaleLinear:
		return "linear"
	case ScaleTime:
		return "time"
	default:
		return "point"
	}
}

func (k ScaleKind) Discrete() bool {
	return k == ScalePoint || k == ScaleBand
}

const (
	DefaultBandPadding  = 0.1
	DefaultPointPadding = 0.5
	DomainPadFraction   = 0.05
)

type Range struct {
	F float64
	T float64
}

func NewRange(f, t float64) Range {
	return Range{
		F: f,
		T: t,
	}
}

func (r Range) Len() float64 {
	return r.T - r.F
}

func (r Range) Max() float64 {
	return math.Max(r.F, r.T)
}

func (r Range) Min() float64 {
	return math.Min(r.F, r.T)
}

func (r Range) Contains(px float64) bool {
	return px >= r.Min() && px <= r.Max()
}

type ScaleOptions struct {
	// Order replaces the order of appearance for discrete scales.
	Order []string
	// Padding between slots of discrete scales, as a fraction of a step.
	Padding float64
	// Pad widens continuous domains by DomainPadFraction on both ends.
	Pad  bool
	Nice bool
	// Zero forces 0 into continuous domains (bar baselines).
	Zero  bool
	Ticks int
}

// Scale is an immutable mapping from a domain to a pixel range. Every
// stage of a render receives the scale it needs as a parameter.
type Scale struct {
	Kind ScaleKind
	Range

	Categories []string
	Min        float64
	Max        float64
	Padding    float64

	index map[string]int
}

// BuildScale creates the scale of the given kind from every value that
// contributes to an axis. Callers plotting several series pass the values of
// all of them so that the series share one scale.
func BuildScale(kind ScaleKind, values []Value, rg Range, opts ScaleOptions) Scale {
	switch kind {
	case ScaleLinear:
		var nums []float64
		for _, v := range values {
			if f, ok := v.Float(); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
				nums = append(nums, f)
			}
		}
		return LinearScale(nums, rg, opts)
	case ScaleTime:
		var times []time.Time
		for _, v := range values {
			t, ok := v.Time()
			if !ok {
				if v.IsZero() {
					continue
				}
				return BuildScale(ScalePoint, values, rg, opts)
			}
			times = append(times, t)
		}
		if len(times) == 0 {
			return BuildScale(ScalePoint, values, rg, opts)
		}
		return TimeScale(times, rg, opts)
	case ScaleBand:
		return BandScale(categories(values, opts.Order), rg, opts.Padding)
	default:
		pad := opts.Padding
		if pad == 0 {
			pad = DefaultPointPadding
		}
		return PointScale(categories(values, opts.Order), rg, pad)
	}
}

func categories(values []Value, order []string) []string {
	if len(order) > 0 {
		return append([]string(nil), order...)
	}
	var (
		list []string
		seen = make(map[string]struct{})
	)
	for _, v := range values {
		if v.IsZero() {
			continue
		}
		s := v.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		list = append(list, s)
	}
	return list
}

func PointScale(cats []string, rg Range, padding float64) Scale {
	return discreteScale(ScalePoint, cats, rg, padding)
}

func BandScale(cats []string, rg Range, padding float64) Scale {
	if padding <= 0 {
		padding = DefaultBandPadding
	}
	if padding >= 1 {
		padding = 0.9
	}
	return discreteScale(ScaleBand, cats, rg, padding)
}

func discreteScale(kind ScaleKind, cats []string, rg Range, padding float64) Scale {
	s := Scale{
		Kind:       kind,
		Range:      rg,
		Categories: cats,
		Padding:    padding,
		index:      make(map[string]int, len(cats)),
	}
	for i, c := range cats {
		if _, ok := s.index[c]; !ok {
			s.index[c] = i
		}
	}
	return s
}

// LinearScale builds a continuous scale over the extent of values.
func LinearScale(values []float64, rg Range, opts ScaleOptions) Scale {
	s := Scale{
		Kind:  ScaleLinear,
		Range: rg,
	}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = extent(values)
	if opts.Zero {
		s.Min = math.Min(s.Min, 0)
		s.Max = math.Max(s.Max, 0)
	}
	s.Min, s.Max = widen(s.Min, s.Max)
	if opts.Pad {
		pad := (s.Max - s.Min) * DomainPadFraction
		if !(opts.Zero && s.Min == 0) {
			s.Min -= pad
		}
		if !(opts.Zero && s.Max == 0) {
			s.Max += pad
		}
	}
	if opts.Nice {
		s.Min, s.Max = nice(s.Min, s.Max, tickCount(opts.Ticks))
	}
	return s
}

func TimeScale(values []time.Time, rg Range, opts ScaleOptions) Scale {
	s := Scale{
		Kind:  ScaleTime,
		Range: rg,
	}
	if len(values) == 0 {
		return s
	}
	fst, lst := values[0], values[0]
	for _, t := range values[1:] {
		if t.Before(fst) {
			fst = t
		}
		if t.After(lst) {
			lst = t
		}
	}
	s.Min = float64(fst.UnixMilli())
	s.Max = float64(lst.UnixMilli())
	if s.Min == s.Max {
		day := float64(24 * time.Hour / time.Millisecond)
		s.Min -= day / 2
		s.Max += day / 2
	}
	return s
}

func extent(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// widen keeps zero-span domains usable.
func widen(lo, hi float64) (float64, float64) {
	if lo != hi {
		return lo, hi
	}
	delta := math.Abs(lo) * 0.1
	if delta == 0 {
		delta = 1
	}
	if lo == 0 {
		return 0, delta
	}
	return lo - delta, hi + delta
}

func tickCount(n int) int {
	if n <= 0 {
		return 5
	}
	return n
}

func tickStep(lo, hi float64, count int) float64 {
	var (
		step  = (hi - lo) / float64(count)
		power = math.Floor(math.Log10(step))
		base  = math.Pow(10, power)
		err   = step / base
	)
	switch {
	case err >= math.Sqrt(50):
		return 10 * base
	case err >= math.Sqrt(10):
		return 5 * base
	case err >= math.Sqrt(2):
		return 2 * base
	default:
		return base
	}
}

func nice(lo, hi float64, count int) (float64, float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	var prev float64
	for i := 0; i < 10; i++ {
		step := tickStep(lo, hi, count)
		if step == prev || step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
			break
		}
		lo = math.Floor(lo/step) * step
		hi = math.Ceil(hi/step) * step
		prev = step
	}
	return lo, hi
}

func (s Scale) Empty() bool {
	if s.Kind.Discrete() {
		return len(s.Categories) == 0
	}
	return s.Min == 0 && s.Max == 0
}

// Step is the distance between two consecutive slots of a discrete scale.
func (s Scale) Step() float64 {
	n := float64(len(s.Categories))
	switch s.Kind {
	case ScaleBand:
		return s.Len() / math.Max(1, n+s.Padding)
	case ScalePoint:
		return s.Len() / math.Max(1, n-1+2*s.Padding)
	default:
		return 0
	}
}

// Space is the unsigned size of one slot.
func (s Scale) Space() float64 {
	return math.Abs(s.Step())
}

func (s Scale) Bandwidth() float64 {
	if s.Kind != ScaleBand {
		return 0
	}
	return s.Step() * (1 - s.Padding)
}

func (s Scale) start() float64 {
	var (
		n    = float64(len(s.Categories))
		step = s.Step()
	)
	switch s.Kind {
	case ScaleBand:
		return s.F + (s.Len()-step*(n-s.Padding))/2
	default:
		return s.F + (s.Len()-step*math.Max(0, n-1))/2
	}
}

// Has reports whether str is one of the categories of a discrete scale.
// Continuous scales accept everything.
func (s Scale) Has(str string) bool {
	if !s.Kind.Discrete() {
		return true
	}
	_, ok := s.index[str]
	return ok
}

// ScaleCategory returns the left edge of a band or the position of a point.
// Unknown categories map to the start of the range: callers check Has first.
func (s Scale) ScaleCategory(str string) float64 {
	i, ok := s.index[str]
	if !ok {
		return s.F
	}
	return s.scaleIndex(i)
}

func (s Scale) scaleIndex(i int) float64 {
	return s.start() + float64(i)*s.Step()
}

// Center returns the middle of the slot of str.
func (s Scale) Center(str string) float64 {
	return s.ScaleCategory(str) + s.Bandwidth()/2
}

func (s Scale) ScaleNumber(f float64) float64 {
	if s.Max == s.Min {
		return s.F
	}
	return s.F + (f-s.Min)/(s.Max-s.Min)*s.Len()
}

func (s Scale) ScaleTime(t time.Time) float64 {
	return s.ScaleNumber(float64(t.UnixMilli()))
}

func (s Scale) Scale(v Value) float64 {
	switch s.Kind {
	case ScaleLinear:
		f, _ := v.Float()
		return s.ScaleNumber(f)
	case ScaleTime:
		t, ok := v.Time()
		if !ok {
			return s.F
		}
		return s.ScaleTime(t)
	default:
		return s.ScaleCategory(v.String())
	}
}

// InvertIndex returns the index of the category nearest to px.
func (s Scale) InvertIndex(px float64) int {
	n := len(s.Categories)
	if n == 0 || !s.Kind.Discrete() {
		return -1
	}
	step := s.Step()
	if step == 0 {
		return 0
	}
	var (
		off = (px - s.start()) / step
		i   int
	)
	if s.Kind == ScaleBand {
		off -= (1 - s.Padding) / 2
	}
	i = int(math.Round(off))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// Invert maps a pixel back to the domain.
func (s Scale) Invert(px float64) Value {
	switch s.Kind {
	case ScaleLinear:
		if s.Len() == 0 {
			return Number(s.Min)
		}
		return Number(s.Min + (px-s.F)/s.Len()*(s.Max-s.Min))
	case ScaleTime:
		if s.Len() == 0 {
			return Time(time.UnixMilli(int64(s.Min)).UTC())
		}
		ms := s.Min + (px-s.F)/s.Len()*(s.Max-s.Min)
		return Time(time.UnixMilli(int64(math.Round(ms))).UTC())
	default:
		i := s.InvertIndex(px)
		if i < 0 {
			return Value{}
		}
		return Text(s.Categories[i])
	}
}

// Ticks returns about n values spread over the domain, on round numbers for
// linear scales and on month boundaries for time scales. Discrete scales
// return every category.
func (s Scale) Ticks(n int) []Value {
	n = tickCount(n)
	switch s.Kind {
	case ScaleLinear:
		var vs []Value
		for _, f := range s.NumberTicks(n) {
			vs = append(vs, Number(f))
		}
		return vs
	case ScaleTime:
		var vs []Value
		for _, t := range s.TimeTicks(n) {
			vs = append(vs, Time(t))
		}
		return vs
	default:
		vs := make([]Value, 0, len(s.Categories))
		for _, c := range s.Categories {
			vs = append(vs, Text(c))
		}
		return vs
	}
}

func (s Scale) NumberTicks(n int) []float64 {
	if s.Empty() || s.Max <= s.Min {
		return nil
	}
	var (
		step = tickStep(s.Min, s.Max, tickCount(n))
		fst  = math.Ceil(s.Min / step)
		lst  = math.Floor(s.Max / step)
		all  []float64
	)
	if step < 1 {
		inv := math.Round(1 / step)
		fst = math.Ceil(s.Min * inv)
		lst = math.Floor(s.Max * inv)
		for i := fst; i <= lst; i++ {
			all = append(all, i/inv)
		}
		return all
	}
	for i := fst; i <= lst; i++ {
		all = append(all, i*step)
	}
	return all
}

// TimeTicks returns month starts, thinned to at most n values.
func (s Scale) TimeTicks(n int) []time.Time {
	if s.Empty() || s.Max <= s.Min {
		return nil
	}
	var (
		fst = time.UnixMilli(int64(s.Min)).UTC()
		lst = time.UnixMilli(int64(s.Max)).UTC()
		cur = time.Date(fst.Year(), fst.Month(), 1, 0, 0, 0, 0, time.UTC)
		all []time.Time
	)
	if cur.Before(fst) {
		cur = cur.AddDate(0, 1, 0)
	}
	for !cur.After(lst) {
		all = append(all, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	if len(all) == 0 {
		return []time.Time{fst, lst}
	}
	n = tickCount(n)
	if len(all) <= n {
		return all
	}
	var (
		every = int(math.Ceil(float64(len(all)) / float64(n)))
		list  []time.Time
	)
	for i := 0; i < len(all); i += every {
		list = append(list, all[i])
	}
	return list
}
