package charts

import (
	"math"
	"time"
)

type Phase int

const (
	PhaseHidden Phase = iota
	PhaseAnimating
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseAnimating:
		return "animating"
	case PhaseSettled:
		return "settled"
	default:
		return "hidden"
	}
}

type Ease int

const (
	EaseLinear Ease = iota
	EaseCubicInOut
	EaseBackOut
	EaseElasticOut
)

const backOvershoot = 1.70158

func (e Ease) Apply(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	switch e {
	case EaseCubicInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	case EaseBackOut:
		t--
		return t*t*((backOvershoot+1)*t+backOvershoot) + 1
	case EaseElasticOut:
		if t == 0 || t == 1 {
			return t
		}
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*(2*math.Pi/3)) + 1
	default:
		return t
	}
}

type Timing struct {
	Duration time.Duration
	Stagger  time.Duration
	Ease     Ease
}

type TimingOptions struct {
	Disabled bool
	Line     Timing
	Area     Timing
	Bar      Timing
	Arc      Timing
	Cell     Timing
	Dot      Timing
}

func DefaultTiming() TimingOptions {
	return TimingOptions{
		Line: Timing{Duration: 1500 * time.Millisecond, Stagger: 200 * time.Millisecond, Ease: EaseLinear},
		Area: Timing{Duration: 1500 * time.Millisecond, Stagger: 200 * time.Millisecond, Ease: EaseCubicInOut},
		Bar:  Timing{Duration: 1000 * time.Millisecond, Stagger: 100 * time.Millisecond, Ease: EaseBackOut},
		Arc:  Timing{Duration: 1000 * time.Millisecond, Stagger: 100 * time.Millisecond, Ease: EaseBackOut},
		Cell: Timing{Duration: 600 * time.Millisecond, Stagger: 20 * time.Millisecond, Ease: EaseCubicInOut},
		Dot:  Timing{Duration: 300 * time.Millisecond, Stagger: 50 * time.Millisecond, Ease: EaseBackOut},
	}
}

func (o TimingOptions) timing(k ShapeKind) Timing {
	switch k {
	case ShapeLine:
		return o.Line
	case ShapeArea:
		return o.Area
	case ShapeRect:
		return o.Bar
	case ShapeArc:
		return o.Arc
	case ShapeCell:
		return o.Cell
	default:
		return o.Dot
	}
}

// AnimationState tracks one shape. A shape with a dependency stays hidden
// until the shape it waits for has settled.
type AnimationState struct {
	Phase     Phase
	Progress  float64
	StartedAt time.Time
	Delay     time.Duration
	Duration  time.Duration
	Ease      Ease
	After     int
}

// Timeline animates one set of shapes from their hidden state to their
// final geometry. A timeline is never reused: new data means a new timeline.
type Timeline struct {
	shapes    []Shape
	states    []AnimationState
	origin    time.Time
	started   bool
	cancelled bool
}

func NewTimeline(shapes []Shape, opts TimingOptions) *Timeline {
	t := Timeline{
		shapes: shapes,
		states: make([]AnimationState, len(shapes)),
	}
	lines := make(map[string]int)
	for i, s := range shapes {
		if s.Kind == ShapeLine {
			lines[s.Series] = i
		}
	}
	for i, s := range shapes {
		var (
			tm = opts.timing(s.Kind)
			st = AnimationState{
				Phase:    PhaseHidden,
				Delay:    time.Duration(s.Index) * tm.Stagger,
				Duration: tm.Duration,
				Ease:     tm.Ease,
				After:    -1,
			}
		)
		if s.Kind == ShapeDot {
			if j, ok := lines[s.Series]; ok {
				st.After = j
			}
		}
		if opts.Disabled || st.Duration <= 0 {
			st.Phase = PhaseSettled
			st.Progress = 1
		}
		t.states[i] = st
	}
	return &t
}

func (t *Timeline) Len() int {
	return len(t.states)
}

func (t *Timeline) State(i int) AnimationState {
	return t.states[i]
}

// Start anchors the timeline on now. Calling it twice has no effect.
func (t *Timeline) Start(now time.Time) {
	if t.started || t.cancelled {
		return
	}
	t.started = true
	t.origin = now
	for i := range t.states {
		st := &t.states[i]
		if st.Phase == PhaseSettled || st.After >= 0 {
			continue
		}
		st.StartedAt = now.Add(st.Delay)
	}
}

func (t *Timeline) Cancel() {
	t.cancelled = true
}

func (t *Timeline) Cancelled() bool {
	return t.cancelled
}

func (t *Timeline) Settled() bool {
	for _, st := range t.states {
		if st.Phase != PhaseSettled {
			return false
		}
	}
	return true
}

// Advance moves every shape to its state at now and returns the shapes as
// they must be drawn at that instant. A cancelled timeline yields nothing.
func (t *Timeline) Advance(now time.Time) []Shape {
	if t.cancelled {
		return nil
	}
	t.Start(now)
	for i := range t.states {
		t.step(i, now)
	}
	list := make([]Shape, len(t.shapes))
	for i, s := range t.shapes {
		list[i] = Interpolate(s, t.states[i])
	}
	return list
}

func (t *Timeline) step(i int, now time.Time) {
	st := &t.states[i]
	if st.Phase == PhaseSettled {
		return
	}
	if st.After >= 0 && st.StartedAt.IsZero() {
		t.step(st.After, now)
		dep := t.states[st.After]
		if dep.Phase != PhaseSettled {
			return
		}
		st.StartedAt = settledAt(dep, t.origin).Add(st.Delay)
	}
	if now.Before(st.StartedAt) {
		return
	}
	st.Phase = PhaseAnimating
	st.Progress = float64(now.Sub(st.StartedAt)) / float64(st.Duration)
	if st.Progress >= 1 {
		st.Progress = 1
		st.Phase = PhaseSettled
	}
}

func settledAt(st AnimationState, origin time.Time) time.Time {
	if st.StartedAt.IsZero() {
		return origin
	}
	return st.StartedAt.Add(st.Duration)
}

// Interpolate returns the shape at the given state. Hidden shapes have no
// size: bars sit flat on their baseline, sectors have no angle, lines are
// not drawn yet.
func Interpolate(s Shape, st AnimationState) Shape {
	if st.Phase == PhaseSettled {
		return s
	}
	var e float64
	if st.Phase == PhaseAnimating {
		e = st.Ease.Apply(st.Progress)
	}
	switch s.Kind {
	case ShapeLine:
		s.Reveal = math.Max(0, math.Min(1, e))
		s.Length = CurveLength(s.Points, s.Curve)
	case ShapeArea, ShapeCell:
		s.Opacity *= math.Max(0, math.Min(1, e))
	case ShapeRect:
		h := s.Rect.H
		if s.Value >= 0 {
			s.Rect.Y += h * (1 - e)
		}
		s.Rect.H = math.Max(0, h*e)
	case ShapeArc:
		s.Arc.End = s.Arc.Start + s.Arc.Span()*e
		if s.Arc.End < s.Arc.Start {
			s.Arc.End = s.Arc.Start
		}
		s.Path = ArcPath(s.Arc)
	case ShapeDot:
		s.Radius = math.Max(0, s.Radius*e)
	}
	return s
}
