package charts

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func monthly() []Record {
	return MakeRecords([]map[string]any{
		{"x": "Jan", "y": 10},
		{"x": "Feb", "y": 30},
		{"x": "Mar", "y": 20},
	})
}

func TestLineChart(t *testing.T) {
	frame := LineChart(Config{
		Data: monthly(),
		XKey: "x",
		YKey: "y",
	})
	if frame.Y.Min > 10 || frame.Y.Max < 30 {
		t.Fatalf("y domain [%g, %g] should cover [10, 30]", frame.Y.Min, frame.Y.Max)
	}
	if len(frame.Shapes) != 1 || frame.Shapes[0].Kind != ShapeLine {
		t.Fatalf("want a single line, got %d shapes", len(frame.Shapes))
	}
	line := frame.Shapes[0]
	if len(line.Points) != 3 {
		t.Fatalf("want 3 points, got %d", len(line.Points))
	}
	for i := 1; i < len(line.Points); i++ {
		if line.Points[i].X <= line.Points[i-1].X {
			t.Errorf("point %d not right of point %d", i, i-1)
		}
	}
	var months []string
	for _, r := range line.Records {
		months = append(months, r.Text("x"))
	}
	if diff := cmp.Diff([]string{"Jan", "Feb", "Mar"}, months); diff != "" {
		t.Errorf("input order mismatch (-want +got):\n%s", diff)
	}
	if !(line.Points[1].Y < line.Points[2].Y && line.Points[2].Y < line.Points[0].Y) {
		t.Errorf("higher values should be drawn higher: %v", line.Points)
	}
}

func TestMultiLineChart(t *testing.T) {
	data := MakeRecords([]map[string]any{
		{"day": 1, "cpu": 10, "mem": 80, "host": "a"},
		{"day": 2, "cpu": 40, "mem": 60, "host": "a"},
		{"day": 3, "cpu": 35, "mem": 70, "host": "b"},
	})
	frame := MultiLineChart(Config{
		Data:     data,
		XKey:     "day",
		ShowDots: true,
	})
	var series []string
	for _, s := range frame.Shapes {
		if s.Kind == ShapeLine {
			series = append(series, s.Series)
		}
	}
	if diff := cmp.Diff([]string{"cpu", "mem"}, series); diff != "" {
		t.Errorf("inferred series mismatch (-want +got):\n%s", diff)
	}
	if frame.X.Kind != ScaleLinear {
		t.Errorf("numeric x should use a linear scale, got %s", frame.X.Kind)
	}
	if frame.Y.Min > 10 || frame.Y.Max < 80 {
		t.Errorf("shared y domain [%g, %g] should cover every series", frame.Y.Min, frame.Y.Max)
	}
	if got := len(frame.Shapes); got != 2+6 {
		t.Errorf("want 2 lines and 6 dots, got %d shapes", got)
	}
}

func TestAreaChartStacked(t *testing.T) {
	data := MakeRecords([]map[string]any{
		{"x": "a", "p": 1, "q": 2},
		{"x": "b", "p": 3, "q": 1},
	})
	frame := AreaChart(Config{
		Data:    data,
		XKey:    "x",
		Series:  []SeriesConfig{{Key: "p"}, {Key: "q"}},
		Stacked: true,
	})
	if frame.Y.Min != 0 || frame.Y.Max < 4 {
		t.Fatalf("stacked domain [%g, %g] should be [0, >=4]", frame.Y.Min, frame.Y.Max)
	}
	var areas int
	for _, s := range frame.Shapes {
		if s.Kind == ShapeArea {
			areas++
			if s.Path == "" {
				t.Errorf("%s: empty area path", s.Series)
			}
		}
	}
	if areas != 2 {
		t.Errorf("want 2 areas, got %d", areas)
	}
}

func TestRenderIdempotent(t *testing.T) {
	cfg := Config{
		Data:       monthly(),
		XKey:       "x",
		YKey:       "y",
		ShowGrid:   true,
		ShowLegend: true,
		ShowDots:   true,
		Animate:    true,
	}
	for _, kind := range []Kind{KindLine, KindMultiLine, KindArea, KindBar, KindPie, KindHeatmap} {
		t.Run(string(kind), func(t *testing.T) {
			var (
				fst = Render(kind, cfg)
				snd = Render(kind, cfg)
				opt = cmp.AllowUnexported(Frame{}, Scale{}, Value{})
			)
			if diff := cmp.Diff(fst, snd, opt); diff != "" {
				t.Errorf("renders differ (-first +second):\n%s", diff)
			}
		})
	}
}

func TestEmptyData(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindMultiLine, KindArea, KindBar, KindPie, KindHeatmap} {
		t.Run(string(kind), func(t *testing.T) {
			var calls int
			cfg := Config{
				Data:    []Record{},
				XKey:    "x",
				YKey:    "y",
				OnHover: func(Record) { calls++ },
				OnClick: func(Record) { calls++ },
			}
			frame := Render(kind, cfg)
			if !frame.Empty() {
				t.Fatalf("want no shapes, got %d", len(frame.Shapes))
			}
			frame.Hover(NewPos(100, 100))
			frame.Click(NewPos(100, 100))
			frame.Leave()
			if calls != 0 {
				t.Errorf("callbacks invoked %d times", calls)
			}
		})
	}
}

func TestUnknownKind(t *testing.T) {
	frame := Render("radar", Config{Data: monthly(), XKey: "x", YKey: "y"})
	if !frame.Empty() {
		t.Fatalf("unknown kind should render nothing")
	}
	if len(frame.Warnings) != 1 {
		t.Fatalf("want one warning, got %v", frame.Warnings)
	}
	if _, err := ParseKind("radar"); err == nil {
		t.Errorf("ParseKind should reject radar")
	}
	if k, err := ParseKind("Multi-Line"); err != nil || k != KindMultiLine {
		t.Errorf("ParseKind(Multi-Line): got %q, %v", k, err)
	}
}

func TestNoSeries(t *testing.T) {
	frame := LineChart(Config{Data: monthly(), XKey: "x"})
	if !frame.Empty() {
		t.Fatalf("line chart without series should render nothing")
	}
	if diff := cmp.Diff([]Warning{{Message: "no series to plot"}}, frame.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestHoverThirdBar(t *testing.T) {
	var (
		data = MakeRecords([]map[string]any{
			{"cat": "A", "v": 5},
			{"cat": "B", "v": 10},
			{"cat": "C", "v": 15},
			{"cat": "D", "v": 20},
			{"cat": "E", "v": 25},
		})
		got   []Record
		frame = BarChart(Config{
			Data:    data,
			XKey:    "cat",
			YKey:    "v",
			OnHover: func(r Record) { got = append(got, r) },
		})
		bar     = frame.Shapes[2].Rect
		pointer = NewPos(frame.Margin.Left+bar.X+bar.W/2, frame.Margin.Top+bar.Y+bar.H/2)
	)
	hover := frame.Hover(pointer)
	if !hover.Active {
		t.Fatalf("pointer over the third bar should be active")
	}
	if c := hover.Datum.Text("cat"); c != "C" {
		t.Errorf("want C, got %s", c)
	}
	if len(got) != 1 || got[0].Text("cat") != "C" {
		t.Errorf("hover callback: want [C], got %v", got)
	}
	if viewport := (Rect{W: frame.Width, H: frame.Height}); !viewport.Contains(hover.Tooltip) {
		t.Errorf("tooltip at %v outside of the viewport", hover.Tooltip)
	}

	frame.Leave()
	if len(got) != 2 || got[1] != nil {
		t.Errorf("leave should report nil, got %v", got)
	}
}

func TestHoverLinePoints(t *testing.T) {
	var list []map[string]any
	for i := 0; i < 12; i++ {
		list = append(list, map[string]any{"t": i * 3, "v": math.Sin(float64(i))})
	}
	frame := LineChart(Config{
		Data: MakeRecords(list),
		XKey: "t",
		YKey: "v",
	})
	line := frame.Shapes[0]
	for k, p := range line.Points {
		hover := Resolve(frame.Shapes, NewPos(p.X, p.Y))
		if !hover.Active {
			t.Fatalf("point %d: no hover", k)
		}
		if got, _ := hover.Datum.Float("t"); got != float64(k*3) {
			t.Errorf("point %d: resolved to t=%g", k, got)
		}
	}
}

func TestTooltipLines(t *testing.T) {
	hover := HoverState{
		Active: true,
		Datum: MakeRecord(map[string]any{
			"sales":  1200,
			"region": "north",
		}),
	}
	var frame Frame
	want := []string{"region: north", "sales: 1.2k"}
	if diff := cmp.Diff(want, frame.Tooltip(hover)); diff != "" {
		t.Errorf("tooltip mismatch (-want +got):\n%s", diff)
	}
}

func TestLineChartOrder(t *testing.T) {
	frame := LineChart(Config{
		Data: MakeRecords([]map[string]any{
			{"day": "Wed", "v": 30},
			{"day": "Mon", "v": 10},
			{"day": "Tue", "v": 20},
		}),
		XKey:  "day",
		YKey:  "v",
		Order: []string{"Mon", "Tue", "Wed"},
	})
	line := frame.Shapes[0]
	if len(line.Points) != 3 {
		t.Fatalf("want 3 points, got %d", len(line.Points))
	}
	for i := 1; i < len(line.Points); i++ {
		if line.Points[i].X <= line.Points[i-1].X {
			t.Errorf("points should follow the axis order: %v", line.Points)
		}
	}
	for k, day := range []string{"Mon", "Tue", "Wed"} {
		var (
			p     = line.Points[k]
			hover = frame.Hover(NewPos(frame.Margin.Left+p.X, frame.Margin.Top+p.Y))
		)
		if !hover.Active {
			t.Fatalf("%s: no hover", day)
		}
		if got := hover.Datum.Text("day"); got != day {
			t.Errorf("pointer on %s resolved to %s", day, got)
		}
	}
}
