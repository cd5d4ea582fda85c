package charts

import (
	"math"
	"testing"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		Name   string
		Width  float64
		Height float64
		Legend bool
		Mobile bool
		Shown  bool
		Margin Margin
	}{
		{
			Name:   "desktop",
			Width:  800,
			Height: 400,
			Legend: true,
			Shown:  true,
			Margin: Margin{Top: 20, Right: 30, Bottom: 50 + LegendHeight, Left: 60},
		},
		{
			Name:   "desktop-no-legend",
			Width:  800,
			Height: 400,
			Margin: DefaultMargin,
		},
		{
			Name:   "mobile-with-legend",
			Width:  599,
			Height: 400,
			Legend: true,
			Mobile: true,
			Shown:  true,
			Margin: Margin{Top: 10, Right: 10, Bottom: 60 + LegendHeight, Left: 40},
		},
		{
			Name:   "narrow",
			Width:  400,
			Height: 400,
			Legend: true,
			Mobile: true,
			Margin: MobileMargin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			d := Layout(tt.Width, tt.Height, LayoutOptions{Legend: tt.Legend})
			if d.Mobile != tt.Mobile {
				t.Errorf("mobile: want %t, got %t", tt.Mobile, d.Mobile)
			}
			if d.Legend != tt.Shown {
				t.Errorf("legend: want %t, got %t", tt.Shown, d.Legend)
			}
			if d.Margin != tt.Margin {
				t.Errorf("margin: want %+v, got %+v", tt.Margin, d.Margin)
			}
		})
	}
}

func TestLayoutClamp(t *testing.T) {
	for _, size := range [][2]float64{{0, 0}, {-50, -10}, {math.NaN(), 30}, {120, 80}} {
		d := Layout(size[0], size[1], LayoutOptions{})
		if d.InnerWidth() < MinInnerWidth || d.InnerHeight() < MinInnerHeight {
			t.Errorf("%v: inner size %gx%g below the minimum", size, d.InnerWidth(), d.InnerHeight())
		}
		if d.Width-d.Margin.Horizontal() < MinInnerWidth {
			t.Errorf("%v: width %g leaves no room for the plot", size, d.Width)
		}
		if d.Height-d.Margin.Vertical() < MinInnerHeight {
			t.Errorf("%v: height %g leaves no room for the plot", size, d.Height)
		}
	}
}

func TestLegendOverflow(t *testing.T) {
	d := Layout(500, 300, LayoutOptions{Legend: true})
	items := Legend(d, []string{"a", "b"}, []string{"#000", "#fff"})
	if len(items) != 2 {
		t.Fatalf("want 2 entries, got %d", len(items))
	}
	if items[1].Swatch.X <= items[0].Swatch.X {
		t.Errorf("entries should be laid out left to right")
	}
	var labels []string
	for i := 0; i < 20; i++ {
		labels = append(labels, "a rather long series name")
	}
	if items := Legend(d, labels, nil); items != nil {
		t.Errorf("overflowing legend should be dropped, got %d entries", len(items))
	}
}
