package styles

import (
	"bytes"
	"fmt"
)

// Axis and guide geometry in chart units, shared by the SVG styles and the
// PNG sink.
const (
	TickLength      = 8  // bottom tick mark length
	TickLabelGap    = 4  // space between a tick mark and its label
	AxisLabelOffset = 40 // distance of the rotated value-axis label from the axis
	GridDash        = 5  // dash length of grid rows
	ConnectorDash   = 2  // dash length of connectors
)

// Flat draws filled bars with dashed guides.
type Flat struct {
	T Theme
}

func (s Flat) Name() string { return NameFlat }
func (s Flat) Theme() Theme { return s.T }

// RenderDefs writes nothing; the flat style needs no definitions.
func (s Flat) RenderDefs(buf *bytes.Buffer) {}

func (s Flat) RenderGrid(buf *bytes.Buffer, g Grid) {
	if len(g.Ys) == 0 {
		return
	}
	fmt.Fprintf(buf, `    <g class="grid-rows" stroke="%s" stroke-dasharray="%d">`+"\n", s.T.Grid, GridDash)
	for _, y := range g.Ys {
		fmt.Fprintf(buf, `      <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", y, g.Width, y)
	}
	buf.WriteString("    </g>\n")
}

func (s Flat) RenderBar(buf *bytes.Buffer, b Bar) {
	fmt.Fprintf(buf, `    <rect class="bar bar-%s" data-category="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		b.Kind, EscapeXML(b.Category), b.X, b.Y, b.W, b.H, s.T.BarColor(b.Kind))
}

func (s Flat) RenderConnector(buf *bytes.Buffer, c Connector) {
	fmt.Fprintf(buf, `    <line class="connector" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="%d"/>`+"\n",
		c.X1, c.Y, c.X2, c.Y, s.T.Connector, ConnectorDash)
}

func (s Flat) RenderLabel(buf *bytes.Buffer, l Label) {
	fmt.Fprintf(buf, `    <text class="value-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" fill="%s" %s>%s</text>`+"\n",
		l.X, l.Y, s.T.Axis, fontAttrs(s.T, s.T.LabelSize, s.T.LabelWeight), EscapeXML(l.Text))
}

// RenderLeftAxis writes tick labels and the rotated axis label. The axis
// line and tick marks are hidden; grid rows carry the guides.
func (s Flat) RenderLeftAxis(buf *bytes.Buffer, a LeftAxis) {
	buf.WriteString(`    <g class="axis axis-left">` + "\n")
	for _, t := range a.Ticks {
		fmt.Fprintf(buf, `      <text x="%d" y="%.2f" text-anchor="end" dominant-baseline="middle" fill="%s" %s>%s</text>`+"\n",
			-(TickLength + TickLabelGap), t.Pos, s.T.Axis, fontAttrs(s.T, s.T.TickSize, 0), EscapeXML(t.Label))
	}
	if a.Label != "" {
		fmt.Fprintf(buf, `      <text class="axis-label" transform="rotate(-90)" x="%.2f" y="%d" text-anchor="middle" fill="%s" %s>%s</text>`+"\n",
			-a.Height/2, -AxisLabelOffset, s.T.Axis, fontAttrs(s.T, s.T.AxisLabelSize, 0), EscapeXML(a.Label))
	}
	buf.WriteString("    </g>\n")
}

// RenderBottomAxis writes the axis line, a tick mark per category and the
// category labels below it.
func (s Flat) RenderBottomAxis(buf *bytes.Buffer, a BottomAxis) {
	fmt.Fprintf(buf, `    <g class="axis axis-bottom" transform="translate(0, %.2f)">`+"\n", a.Y)
	fmt.Fprintf(buf, `      <line x1="0" y1="0" x2="%.2f" y2="0" stroke="%s"/>`+"\n", a.Width, s.T.Axis)
	for _, t := range a.Ticks {
		fmt.Fprintf(buf, `      <line x1="%.2f" y1="0" x2="%.2f" y2="%d" stroke="%s"/>`+"\n", t.Pos, t.Pos, TickLength, s.T.Axis)
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" fill="%s" %s>%s</text>`+"\n",
			t.Pos, TickLength+TickLabelGap+s.T.TickSize/2, s.T.Axis, fontAttrs(s.T, s.T.TickSize, s.T.TickWeight), EscapeXML(t.Label))
	}
	buf.WriteString("    </g>\n")
}

var _ Style = Flat{}
