package charts

import (
	"math"
)

type Pos struct {
	X float64
	Y float64
}

func NewPos(x, y float64) Pos {
	return Pos{
		X: x,
		Y: y,
	}
}

func (p Pos) Distance(other Pos) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

type Line struct {
	From Pos
	To   Pos
}

func NewLine(x1, y1, x2, y2 float64) Line {
	return Line{
		From: NewPos(x1, y1),
		To:   NewPos(x2, y2),
	}
}

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Contains(p Pos) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Center() Pos {
	return NewPos(r.X+r.W/2, r.Y+r.H/2)
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Arc is a pie sector. Angles are in radians, clockwise from twelve
// o'clock.
type Arc struct {
	Center Pos
	Inner  float64
	Outer  float64
	Start  float64
	End    float64
}

func (a Arc) Span() float64 {
	return a.End - a.Start
}

func (a Arc) Contains(p Pos) bool {
	var (
		dx = p.X - a.Center.X
		dy = p.Y - a.Center.Y
		r  = math.Hypot(dx, dy)
	)
	if r < a.Inner || r > a.Outer || a.Span() <= 0 {
		return false
	}
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += fullTurn
	}
	return angle >= a.Start && angle < a.End
}

func (a Arc) Centroid() Pos {
	var (
		mid = (a.Start + a.End) / 2
		rad = (a.Inner + a.Outer) / 2
	)
	return polar(a.Center, rad, mid)
}

const fullTurn = 2 * math.Pi

func polar(center Pos, radius, angle float64) Pos {
	return NewPos(center.X+radius*math.Sin(angle), center.Y-radius*math.Cos(angle))
}
