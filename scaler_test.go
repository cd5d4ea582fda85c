package charts

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLinearScaleOrdering(t *testing.T) {
	tests := []struct {
		Name   string
		Values []float64
		Opts   ScaleOptions
	}{
		{
			Name:   "positive",
			Values: []float64{10, 30, 20},
			Opts:   ScaleOptions{Pad: true, Nice: true},
		},
		{
			Name:   "negative",
			Values: []float64{-12.5, -3, -7},
			Opts:   ScaleOptions{Pad: true, Nice: true},
		},
		{
			Name:   "mixed-zero",
			Values: []float64{-4, 17, 3},
			Opts:   ScaleOptions{Zero: true, Nice: true},
		},
		{
			Name:   "single",
			Values: []float64{42},
			Opts:   ScaleOptions{Pad: true, Nice: true},
		},
		{
			Name:   "large",
			Values: []float64{1200, 3500000, 87000},
			Opts:   ScaleOptions{Nice: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			var (
				s      = LinearScale(tt.Values, NewRange(400, 0), tt.Opts)
				lo, hi = extent(tt.Values)
				bottom = s.ScaleNumber(lo)
				top    = s.ScaleNumber(hi)
			)
			if s.Min > lo || s.Max < hi {
				t.Fatalf("domain [%g, %g] does not cover [%g, %g]", s.Min, s.Max, lo, hi)
			}
			if lo != hi && bottom <= top {
				t.Errorf("min at %g should be below max at %g", bottom, top)
			}
			for _, px := range []float64{bottom, top} {
				if px < 0 || px > 400 {
					t.Errorf("%g outside of range [0, 400]", px)
				}
			}
		})
	}
}

func TestLinearScaleZero(t *testing.T) {
	s := LinearScale([]float64{10, 30}, NewRange(300, 0), ScaleOptions{Zero: true, Nice: true})
	if s.Min != 0 || s.Max != 30 {
		t.Fatalf("domain: want [0, 30], got [%g, %g]", s.Min, s.Max)
	}
	if got := s.ScaleNumber(0); got != 300 {
		t.Errorf("baseline: want 300, got %g", got)
	}
}

func TestBandScale(t *testing.T) {
	var (
		cats = []string{"A", "B", "C", "D", "E"}
		s    = BandScale(cats, NewRange(0, 500), 0.1)
	)
	if s.Bandwidth() <= 0 || s.Bandwidth() >= s.Step() {
		t.Fatalf("bandwidth %g should be positive and below step %g", s.Bandwidth(), s.Step())
	}
	var prev = math.Inf(-1)
	for i, c := range cats {
		x := s.ScaleCategory(c)
		if x <= prev {
			t.Errorf("%s: %g not after %g", c, x, prev)
		}
		prev = x
		if got := s.InvertIndex(s.Center(c)); got != i {
			t.Errorf("%s: center inverted to %d, want %d", c, got, i)
		}
	}
	if x := s.ScaleCategory(cats[len(cats)-1]) + s.Bandwidth(); x > 500 {
		t.Errorf("last band ends at %g, past the range", x)
	}
}

func TestPointScaleOrder(t *testing.T) {
	values := []Value{Text("Mar"), Text("Jan"), Text("Feb"), Text("Jan")}

	s := BuildScale(ScalePoint, values, NewRange(0, 300), ScaleOptions{})
	if diff := cmp.Diff([]string{"Mar", "Jan", "Feb"}, s.Categories); diff != "" {
		t.Errorf("appearance order mismatch (-want +got):\n%s", diff)
	}

	order := []string{"Jan", "Feb", "Mar"}
	s = BuildScale(ScalePoint, values, NewRange(0, 300), ScaleOptions{Order: order})
	if diff := cmp.Diff(order, s.Categories); diff != "" {
		t.Errorf("explicit order mismatch (-want +got):\n%s", diff)
	}
	if s.ScaleCategory("Jan") >= s.ScaleCategory("Feb") {
		t.Errorf("Jan should come before Feb")
	}
}

func TestTimeScale(t *testing.T) {
	var (
		fst    = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		lst    = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		values = []Value{Text("2024-03-01"), Time(lst), Time(fst)}
		s      = BuildScale(ScaleTime, values, NewRange(0, 600), ScaleOptions{})
	)
	if s.Kind != ScaleTime {
		t.Fatalf("want time scale, got %s", s.Kind)
	}
	if got := s.ScaleTime(fst); got != 0 {
		t.Errorf("first date: want 0, got %g", got)
	}
	if got := s.ScaleTime(lst); got != 600 {
		t.Errorf("last date: want 600, got %g", got)
	}
	ticks := s.TimeTicks(10)
	want := []time.Time{
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, ticks); diff != "" {
		t.Errorf("ticks mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeScaleFallback(t *testing.T) {
	values := []Value{Text("2024-01-01"), Text("later")}
	s := BuildScale(ScaleTime, values, NewRange(0, 100), ScaleOptions{})
	if s.Kind != ScalePoint {
		t.Errorf("unparsable dates: want point scale, got %s", s.Kind)
	}
}

func TestNumberTicks(t *testing.T) {
	s := LinearScale([]float64{0, 100}, NewRange(0, 100), ScaleOptions{Nice: true})
	want := []float64{0, 20, 40, 60, 80, 100}
	if diff := cmp.Diff(want, s.NumberTicks(5)); diff != "" {
		t.Errorf("ticks mismatch (-want +got):\n%s", diff)
	}
}
