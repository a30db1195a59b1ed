package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style styles.Style
	class string
}

// WithStyle sets the visual style (default [styles.Flat] with the default theme).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithClass sets a CSS class on the root element.
func WithClass(c string) SVGOption { return func(r *svgRenderer) { r.class = c } }

// RenderSVG draws l as an SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	theme := r.style.Theme()
	w, h := max(0, l.Width), max(0, l.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f"`, w, h, w, h)
	if r.class != "" {
		fmt.Fprintf(&buf, ` class="%s"`, styles.EscapeXML(r.class))
	}
	buf.WriteString(">\n")

	r.style.RenderDefs(&buf)
	if theme.Background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", theme.Background)
	}

	if !l.Empty() {
		fmt.Fprintf(&buf, `  <g class="chart" transform="translate(%.2f, %.2f)">`+"\n", l.Margins.Left, l.Margins.Top)
		renderContent(&buf, r.style, l)
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Flat{T: styles.DefaultTheme()}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = styles.Flat{T: styles.DefaultTheme()}
	}
	return r
}

func renderContent(buf *bytes.Buffer, s styles.Style, l layout.Layout) {
	s.RenderGrid(buf, buildGrid(l))
	for i, e := range l.Elements {
		s.RenderBar(buf, buildBar(i, e))
		if e.Connector != nil {
			s.RenderConnector(buf, styles.Connector{X1: e.Connector.X1, X2: e.Connector.X2, Y: e.Connector.Y})
		}
		s.RenderLabel(buf, styles.Label{Text: e.Label.Text, X: e.Label.X, Y: e.Label.Y})
	}
	s.RenderLeftAxis(buf, buildLeftAxis(l))
	s.RenderBottomAxis(buf, buildBottomAxis(l))
}

func buildGrid(l layout.Layout) styles.Grid {
	ys := make([]float64, len(l.YTicks))
	for i, t := range l.YTicks {
		ys[i] = t.Pos
	}
	return styles.Grid{Width: l.InnerWidth, Ys: ys}
}

func buildBar(i int, e layout.Element) styles.Bar {
	return styles.Bar{
		Index:    i,
		Category: e.Step.Category,
		Kind:     e.Step.Kind,
		X:        e.Bar.X, Y: e.Bar.Y,
		W: e.Bar.Width, H: e.Bar.Height,
	}
}

func buildLeftAxis(l layout.Layout) styles.LeftAxis {
	return styles.LeftAxis{Label: l.YLabel, Height: l.InnerHeight, Ticks: convertTicks(l.YTicks)}
}

func buildBottomAxis(l layout.Layout) styles.BottomAxis {
	return styles.BottomAxis{Y: l.InnerHeight, Width: l.InnerWidth, Ticks: convertTicks(l.XTicks)}
}

func convertTicks(ticks []layout.Tick) []styles.Tick {
	out := make([]styles.Tick, len(ticks))
	for i, t := range ticks {
		out[i] = styles.Tick{Label: t.Label, Pos: t.Pos}
	}
	return out
}
