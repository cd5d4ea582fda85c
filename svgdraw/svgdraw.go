// Package svgdraw turns the frames built by the charts package into SVG
// documents.
package svgdraw

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"time"

	svg "github.com/ajstarks/svgo"
	charts "github.com/midbel/dashcharts"
)

type Options struct {
	Title string
	Style charts.Style
	// Hover draws the highlight and the tooltip of an active hover state.
	Hover *charts.HoverState
	// At draws the shapes as they are this long after the start of their
	// entrance animation. Zero draws the settled chart.
	At time.Duration
}

func DefaultOptions() Options {
	return Options{
		Style: charts.DefaultStyle(),
	}
}

// Write renders frame as a standalone SVG document.
func Write(w io.Writer, frame charts.Frame, opts Options) error {
	if opts.Style.Text.Size == 0 {
		opts.Style = charts.DefaultStyle()
	}
	var (
		bw = bufio.NewWriter(w)
		ew = errWriter{Writer: bw}
		d  = drawer{
			canvas: svg.New(&ew),
			frame:  frame,
			style:  opts.Style,
		}
	)
	d.draw(opts)
	if ew.err != nil {
		return fmt.Errorf("svg: %w", ew.err)
	}
	return bw.Flush()
}

type errWriter struct {
	io.Writer
	err error
}

func (w *errWriter) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.Writer.Write(b)
	w.err = err
	return n, err
}

type drawer struct {
	canvas *svg.SVG
	frame  charts.Frame
	style  charts.Style
}

func (d drawer) draw(opts Options) {
	var (
		width  = int(math.Ceil(d.frame.Width))
		height = int(math.Ceil(d.frame.Height))
		plot   = d.frame.Plot()
	)
	d.canvas.Start(width, height, `class="chart chart-`+string(d.frame.Kind)+`"`)
	if opts.Title != "" {
		d.canvas.Title(opts.Title)
	}
	d.canvas.Rect(0, 0, width, height, "fill:"+d.style.Background)

	d.canvas.Gtransform(translate(plot.X, plot.Y))
	d.drawGrid()
	d.drawShapes(d.shapes(opts.At))
	d.drawAxes()
	if opts.Hover != nil && opts.Hover.Active {
		d.drawShapes(charts.Highlight(*opts.Hover, charts.Rect{W: plot.W, H: plot.H}))
	}
	d.canvas.Gend()

	d.drawLegend()
	if opts.Hover != nil && opts.Hover.Active {
		d.drawTooltip(*opts.Hover)
	}
	d.canvas.End()
}

func (d drawer) shapes(at time.Duration) []charts.Shape {
	if at <= 0 {
		return d.frame.Shapes
	}
	var (
		tl     = d.frame.Timeline()
		origin = time.Unix(0, 0)
	)
	tl.Start(origin)
	return tl.Advance(origin.Add(at))
}

func (d drawer) drawGrid() {
	d.canvas.Gstyle(fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", d.style.Grid))
	for _, a := range d.frame.Axes {
		for _, g := range a.Grid {
			d.canvas.Path(linePath(g))
		}
	}
	d.canvas.Gend()
}

func (d drawer) drawShapes(list []charts.Shape) {
	for _, s := range list {
		var (
			data = attrs(s)
			path string
			css  string
		)
		switch s.Kind {
		case charts.ShapeLine:
			path = s.Path
			css = lineStyle(s)
		case charts.ShapeArea:
			path = s.Path
			css = fmt.Sprintf("fill:%s;fill-opacity:%s;stroke:none", s.Fill, number(s.Opacity))
		case charts.ShapeRect, charts.ShapeCell:
			path = charts.RectPath(s.Rect)
			css = fillStyle(s)
		case charts.ShapeArc:
			path = s.Path
			css = fillStyle(s)
		case charts.ShapeDot:
			path = charts.MarkerPath(s.Center, s.Radius, s.Marker)
			css = fillStyle(s)
		}
		if path == "" {
			continue
		}
		d.canvas.Path(path, data, css)
	}
}

func (d drawer) drawAxes() {
	d.canvas.Gstyle(fmt.Sprintf("font-family:%s;font-size:%spx;fill:%s", d.style.Font(), number(d.style.Text.Size), d.style.Text.Color))
	for _, a := range d.frame.Axes {
		stroke := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", d.style.Axis, number(d.style.Line.Width))
		if dash := d.style.Line.Style.Dash(); dash != "" {
			stroke += ";stroke-dasharray:" + dash
		}
		d.canvas.Path(linePath(a.Domain), stroke)
		for _, m := range a.Marks {
			d.canvas.Path(linePath(m), stroke)
		}
		switch a.Orientation {
		case charts.OrientBottom:
			d.drawBottomLabels(a)
		case charts.OrientLeft:
			d.drawLeftLabels(a)
		}
	}
	d.canvas.Gend()
}

func (d drawer) drawBottomLabels(a charts.Axis) {
	var (
		y    = a.Domain.From.Y + d.style.Text.Size*1.6
		size = d.style.Text.Size
	)
	for _, t := range a.Ticks {
		x := round(t.Pos)
		if a.Rotate != 0 {
			rotate := fmt.Sprintf(`transform="rotate(%s %d %d)"`, number(a.Rotate), x, round(y))
			d.canvas.Text(x, round(y), t.Label, rotate, "text-anchor:end")
			continue
		}
		d.canvas.Text(x, round(y), t.Label, "text-anchor:middle")
	}
	if a.Label == "" {
		return
	}
	var (
		mid = (a.Domain.From.X + a.Domain.To.X) / 2
		off = y + size*1.6
	)
	if a.Rotate != 0 {
		off += size * 1.6
	}
	d.canvas.Text(round(mid), round(off), a.Label, "text-anchor:middle;font-weight:bold")
}

func (d drawer) drawLeftLabels(a charts.Axis) {
	x := -d.style.Text.Size
	for _, t := range a.Ticks {
		d.canvas.Text(round(x), round(t.Pos), t.Label, "text-anchor:end;dominant-baseline:middle")
	}
	if a.Label == "" {
		return
	}
	var (
		mid = (a.Domain.From.Y + a.Domain.To.Y) / 2
		px  = round(x - d.style.Text.Size*3)
	)
	rotate := fmt.Sprintf(`transform="rotate(-90 %d %d)"`, px, round(mid))
	d.canvas.Text(px, round(mid), a.Label, rotate, "text-anchor:middle;font-weight:bold")
}

func (d drawer) drawLegend() {
	if len(d.frame.Legend) == 0 {
		return
	}
	d.canvas.Gstyle(fmt.Sprintf("font-family:%s;font-size:%spx;fill:%s", d.style.Font(), number(d.style.Text.Size), d.style.Text.Color))
	for _, it := range d.frame.Legend {
		d.canvas.Path(charts.RectPath(it.Swatch), "fill:"+it.Color)
		d.canvas.Text(round(it.Text.X), round(it.Text.Y), it.Label, "dominant-baseline:middle")
	}
	d.canvas.Gend()
}

func (d drawer) drawTooltip(hover charts.HoverState) {
	lines := d.frame.Tooltip(hover)
	if len(lines) == 0 {
		return
	}
	var (
		w, h = charts.TooltipSize(lines)
		pos  = hover.Tooltip
		box  = charts.Rect{X: pos.X, Y: pos.Y, W: w, H: h}
		line = d.style.Text.Size * 1.4
	)
	d.canvas.Gstyle(fmt.Sprintf("font-family:%s;font-size:%spx", d.style.Font(), number(d.style.Text.Size)))
	d.canvas.Path(charts.RectPath(box), `class="tooltip"`, fmt.Sprintf("fill:%s;fill-opacity:0.9", d.style.Tooltip.Fill))
	for i, str := range lines {
		y := pos.Y + 6 + line*float64(i) + line/2
		d.canvas.Text(round(pos.X+8), round(y), str, "dominant-baseline:middle;fill:"+d.style.Tooltip.Color)
	}
	d.canvas.Gend()
}

func lineStyle(s charts.Shape) string {
	css := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", s.Stroke, number(s.StrokeWidth))
	if s.Opacity > 0 && s.Opacity < 1 {
		css += ";stroke-opacity:" + number(s.Opacity)
	}
	switch {
	case s.Length > 0:
		offset := s.Length * (1 - s.Reveal)
		css += fmt.Sprintf(";stroke-dasharray:%s;stroke-dashoffset:%s", number(s.Length), number(offset))
	case s.Dash != "":
		css += ";stroke-dasharray:" + s.Dash
	}
	return css
}

func fillStyle(s charts.Shape) string {
	css := "fill:" + s.Fill
	if s.Opacity < 1 {
		css += ";fill-opacity:" + number(s.Opacity)
	}
	if s.Stroke != "" {
		width := s.StrokeWidth
		if width <= 0 {
			width = 1
		}
		css += fmt.Sprintf(";stroke:%s;stroke-width:%s", s.Stroke, number(width))
	}
	return css
}

// attrs returns the data attributes leading a drawn shape back to its datum.
func attrs(s charts.Shape) string {
	return fmt.Sprintf(`class="%s" data-series="%s" data-index="%d"`, s.Kind, html.EscapeString(s.Series), s.Index)
}

func linePath(l charts.Line) string {
	return charts.LinePath([]charts.Pos{l.From, l.To}, charts.CurveLinear)
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", number(x), number(y))
}

func number(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func round(f float64) int {
	return int(math.Round(f))
}
