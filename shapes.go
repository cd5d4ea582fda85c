package charts

type ShapeKind int

const (
	ShapeLine ShapeKind = iota
	ShapeArea
	ShapeRect
	ShapeArc
	ShapeCell
	ShapeDot
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeLine:
		return "line"
	case ShapeArea:
		return "area"
	case ShapeRect:
		return "rect"
	case ShapeArc:
		return "arc"
	case ShapeCell:
		return "cell"
	case ShapeDot:
		return "dot"
	default:
		return "shape"
	}
}

// Discrete shapes are hit by containment, the others by distance.
func (k ShapeKind) Discrete() bool {
	return k == ShapeRect || k == ShapeArc || k == ShapeCell
}

type Marker int

const (
	MarkerCircle Marker = iota
	MarkerSquare
	MarkerDiamond
)

var DefaultDotRadius = 4.0

// Shape describes one rendered element. Records holds the observations it
// was built from so that any shape leads back to its data.
type Shape struct {
	Kind   ShapeKind
	Series string
	Index  int

	Path   string
	Points []Pos
	Base   float64
	Rect   Rect
	Arc    Arc
	Center Pos
	Radius float64
	Marker Marker
	Curve  Curve
	Value  float64

	Fill        string
	Stroke      string
	StrokeWidth float64
	Dash        string
	Opacity     float64

	// Length and Reveal describe a line being drawn: only the first
	// Reveal fraction of Length is visible. Zero Length draws it whole.
	Length float64
	Reveal float64

	Records []Record
}

func (s Shape) Datum() Record {
	if len(s.Records) == 0 {
		return nil
	}
	return s.Records[0]
}

// Anchor is where a highlight or a tooltip attaches to the shape.
func (s Shape) Anchor() Pos {
	switch s.Kind {
	case ShapeRect, ShapeCell:
		return NewPos(s.Rect.X+s.Rect.W/2, s.Rect.Y)
	case ShapeArc:
		return s.Arc.Centroid()
	default:
		return s.Center
	}
}
