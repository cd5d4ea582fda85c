package charts

import (
	"strings"
)

type LineStyle int

const (
	StyleStraight LineStyle = iota
	StyleDotted
	StyleDashed
)

// Dash returns the stroke-dasharray of the style.
func (s LineStyle) Dash() string {
	switch s {
	case StyleDotted:
		return "1,5"
	case StyleDashed:
		return "10,5"
	default:
		return ""
	}
}

// DashPattern accepts a style name or a raw dash array.
func DashPattern(str string) string {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "straight", "solid":
		return ""
	case "dotted":
		return StyleDotted.Dash()
	case "dashed":
		return StyleDashed.Dash()
	default:
		return str
	}
}

// Style holds the presentation attributes that do not depend on data.
type Style struct {
	Background string
	Grid       string
	Axis       string
	Line       struct {
		Style LineStyle
		Width float64
	}
	Text struct {
		Size     float64
		Color    string
		Families []string
	}
	Tooltip struct {
		Fill  string
		Color string
	}
}

func DefaultStyle() Style {
	var s Style
	s.Background = "#ffffff"
	s.Grid = "#e5e5e5"
	s.Axis = "#333333"
	s.Line.Width = 1
	s.Text.Size = FontSize
	s.Text.Color = "#333333"
	s.Text.Families = []string{"Helvetica", "Arial", "sans-serif"}
	s.Tooltip.Fill = "#222222"
	s.Tooltip.Color = "#ffffff"
	return s
}

func (s Style) Font() string {
	return strings.Join(s.Text.Families, ",")
}
