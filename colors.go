package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Palette []string

var (
	Category10 Palette
	Tableau10  Palette
)

func init() {
	Category10 = splitColorString("1f77b4ff7f0e2ca02cd627289467bd8c564be377c27f7f7fbcbd2217becf")
	Tableau10 = splitColorString("4e79a7f28e2ce1575976b7b259a14fedc949af7aa1ff9da79c755fbab0ab")
}

func splitColorString(str string) []string {
	var arr []string
	for i := 0; i < len(str); i += 6 {
		arr = append(arr, "#"+str[i:i+6])
	}
	return arr
}

// LookupPalette returns one of the predefined palettes by name.
func LookupPalette(name string) (Palette, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "category10":
		return Category10, true
	case "tableau10":
		return Tableau10, true
	default:
		return nil, false
	}
}

// Pick cycles through the palette.
func (p Palette) Pick(i int) string {
	if len(p) == 0 {
		return Category10.Pick(i)
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)]
}

type RGB struct {
	R, G, B uint8
}

func ParseColor(str string) (RGB, error) {
	str = strings.TrimPrefix(strings.TrimSpace(str), "#")
	if len(str) == 3 {
		str = string([]byte{str[0], str[0], str[1], str[1], str[2], str[2]})
	}
	if len(str) != 6 {
		return RGB{}, fmt.Errorf("%s: invalid color", str)
	}
	n, err := strconv.ParseUint(str, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%s: invalid color", str)
	}
	return RGB{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
	}, nil
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) Mix(other RGB, t float64) RGB {
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return RGB{
		R: mix(c.R, other.R),
		G: mix(c.G, other.G),
		B: mix(c.B, other.B),
	}
}

// Darken returns the color scaled toward black. Colors that cannot be
// parsed are returned unchanged.
func Darken(color string, k float64) string {
	c, err := ParseColor(color)
	if err != nil {
		return color
	}
	return c.Mix(RGB{}, k).String()
}

// ColorScale maps a fixed numeric domain onto a color ramp.
type ColorScale struct {
	Min   float64
	Max   float64
	Stops []RGB
}

var (
	heatLow  = RGB{R: 0xf7, G: 0xfb, B: 0xff}
	heatMid  = RGB{R: 0x6b, G: 0xae, B: 0xd6}
	heatHigh = RGB{R: 0x08, G: 0x30, B: 0x6b}
)

const (
	HeatmapMin = 0.0
	HeatmapMax = 100.0
)

func DefaultColorScale() ColorScale {
	return ColorScale{
		Min:   HeatmapMin,
		Max:   HeatmapMax,
		Stops: []RGB{heatLow, heatMid, heatHigh},
	}
}

// Clamped reports whether f falls outside the domain.
func (c ColorScale) Clamped(f float64) bool {
	return f < c.Min || f > c.Max
}

func (c ColorScale) Color(f float64) string {
	if len(c.Stops) == 0 {
		c.Stops = DefaultColorScale().Stops
	}
	if len(c.Stops) == 1 || c.Max <= c.Min {
		return c.Stops[0].String()
	}
	t := (f - c.Min) / (c.Max - c.Min)
	t = math.Max(0, math.Min(1, t))
	var (
		seg = t * float64(len(c.Stops)-1)
		i   = int(math.Floor(seg))
	)
	if i >= len(c.Stops)-1 {
		return c.Stops[len(c.Stops)-1].String()
	}
	return c.Stops[i].Mix(c.Stops[i+1], seg-float64(i)).String()
}
