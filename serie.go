package charts

import (
	"fmt"
)

type SeriesConfig struct {
	Key         string
	Name        string
	Color       string
	StrokeWidth float64
	Dash        string
}

func (s SeriesConfig) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

const DefaultStrokeWidth = 2.0

// resolveSeries fills the gaps of the configured series: a missing list
// falls back to the value key, missing colors come from the palette.
func resolveSeries(series []SeriesConfig, key string, colors Palette) []SeriesConfig {
	if len(series) == 0 && key != "" {
		series = []SeriesConfig{{Key: key}}
	}
	list := make([]SeriesConfig, 0, len(series))
	for i, s := range series {
		if s.Key == "" {
			continue
		}
		if s.Color == "" {
			s.Color = colors.Pick(i)
		}
		s.Dash = DashPattern(s.Dash)
		if s.StrokeWidth <= 0 {
			s.StrokeWidth = DefaultStrokeWidth
		}
		list = append(list, s)
	}
	return list
}

type Warning struct {
	Series  string
	Index   int
	Message string
}

func (w Warning) String() string {
	if w.Series == "" {
		return w.Message
	}
	return fmt.Sprintf("%s[%d]: %s", w.Series, w.Index, w.Message)
}

type issues struct {
	list []Warning
}

func (i *issues) add(series string, index int, msg string, args ...any) {
	if i == nil {
		return
	}
	i.list = append(i.list, Warning{
		Series:  series,
		Index:   index,
		Message: fmt.Sprintf(msg, args...),
	})
}

func (i *issues) warnings() []Warning {
	if i == nil {
		return nil
	}
	return i.list
}
