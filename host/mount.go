// Package host binds a chart to the events of its container: size changes,
// pointer moves and animation frames.
package host

import (
	"math"
	"sync"
	"time"

	charts "github.com/midbel/dashcharts"
)

type event int

const (
	eventMove event = iota
	eventLeave
	eventClick
)

type listener struct {
	generation int
	handle     func(charts.Pos) charts.HoverState
}

// Mount owns one chart. Every change of configuration, data or size
// rebuilds the chart from scratch: the listeners and the animation timer of
// the previous render are removed before new ones are attached.
type Mount struct {
	mu sync.Mutex

	kind   charts.Kind
	cfg    charts.Config
	width  float64
	height float64

	generation int
	frame      charts.Frame
	hover      charts.HoverState
	listeners  map[event]listener
	timeline   *charts.Timeline
	closed     bool

	onRender func(charts.Frame)
}

func New(kind charts.Kind, cfg charts.Config) *Mount {
	m := Mount{
		kind:      kind,
		cfg:       cfg,
		width:     cfg.Width,
		height:    cfg.Height,
		listeners: make(map[event]listener),
	}
	m.render()
	return &m
}

// OnRender registers fn to be called with every new frame. It is called once
// immediately with the current frame.
func (m *Mount) OnRender(fn func(charts.Frame)) {
	m.mu.Lock()
	m.onRender = fn
	frame := m.frame
	m.mu.Unlock()
	if fn != nil {
		fn(frame)
	}
}

func (m *Mount) SetConfig(kind charts.Kind, cfg charts.Config) {
	m.mu.Lock()
	m.kind = kind
	m.cfg = cfg
	if cfg.Width != 0 {
		m.width = cfg.Width
	}
	if cfg.Height != 0 {
		m.height = cfg.Height
	}
	m.render()
	m.notify()
}

func (m *Mount) SetData(data []charts.Record) {
	m.mu.Lock()
	m.cfg.Data = data
	m.render()
	m.notify()
}

// Resize recomputes the chart for the new size of the container, even when
// the size did not change. Sizes below 1 are kept positive since a zero size
// would select the default dimensions instead of the minimal ones.
func (m *Mount) Resize(width, height float64) {
	m.mu.Lock()
	m.width = math.Max(width, 1)
	m.height = math.Max(height, 1)
	m.render()
	m.notify()
}

func (m *Mount) PointerMove(x, y float64) charts.HoverState {
	return m.dispatch(eventMove, charts.NewPos(x, y))
}

func (m *Mount) PointerLeave() {
	m.dispatch(eventLeave, charts.Pos{})
}

func (m *Mount) Click(x, y float64) charts.HoverState {
	return m.dispatch(eventClick, charts.NewPos(x, y))
}

// Tick advances the entrance animation to now and returns the shapes to
// draw. The timer is released once every shape has settled.
func (m *Mount) Tick(now time.Time) []charts.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeline == nil {
		return m.frame.Shapes
	}
	shapes := m.timeline.Advance(now)
	if m.timeline.Settled() {
		m.timeline = nil
	}
	return shapes
}

func (m *Mount) Frame() charts.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

func (m *Mount) Hover() charts.HoverState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hover
}

// Listeners returns the number of pointer listeners currently attached.
func (m *Mount) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// Timers returns the number of running animation timers: 0 or 1.
func (m *Mount) Timers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeline == nil {
		return 0
	}
	return 1
}

// Generation counts the renders done so far.
func (m *Mount) Generation() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Close detaches everything. Events received afterwards are ignored.
func (m *Mount) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown()
	m.closed = true
	m.onRender = nil
}

// dispatch runs the listener attached for ev outside of the lock, so that
// callbacks may use the mount. The result is dropped when a new render
// happened in the meantime.
func (m *Mount) dispatch(ev event, pos charts.Pos) charts.HoverState {
	m.mu.Lock()
	li, ok := m.listeners[ev]
	m.mu.Unlock()
	if !ok {
		return charts.HoverState{}
	}
	hover := li.handle(pos)

	m.mu.Lock()
	defer m.mu.Unlock()
	if li.generation == m.generation {
		m.hover = hover
	}
	return hover
}

// notify releases the lock taken by the caller before calling the render
// callback.
func (m *Mount) notify() {
	var (
		fn    = m.onRender
		frame = m.frame
	)
	m.mu.Unlock()
	if fn != nil {
		fn(frame)
	}
}

func (m *Mount) render() {
	m.teardown()
	if m.closed {
		return
	}

	cfg := m.cfg
	cfg.Width = m.width
	cfg.Height = m.height

	m.generation++
	m.frame = charts.Render(m.kind, cfg)
	m.hover = charts.HoverState{}
	if m.frame.Empty() {
		return
	}
	frame := m.frame
	m.listeners[eventMove] = listener{
		generation: m.generation,
		handle:     frame.Hover,
	}
	m.listeners[eventLeave] = listener{
		generation: m.generation,
		handle: func(charts.Pos) charts.HoverState {
			return frame.Leave()
		},
	}
	m.listeners[eventClick] = listener{
		generation: m.generation,
		handle:     frame.Click,
	}
	if cfg.Animate {
		m.timeline = frame.Timeline()
	}
}

func (m *Mount) teardown() {
	if m.timeline != nil {
		m.timeline.Cancel()
		m.timeline = nil
	}
	clear(m.listeners)
}
