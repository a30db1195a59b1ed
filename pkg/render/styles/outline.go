package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// OutlineStroke is the border width of outlined bars.
const OutlineStroke = 2

// Outline draws white bars with a border in the step color. Totals are
// hatched so they stay distinct in grayscale.
type Outline struct {
	Flat
}

func (s Outline) Name() string { return NameOutline }

func (s Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="hatch-total" width="6" height="6" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">`+"\n")
	fmt.Fprintf(buf, `      <line x1="0" y1="0" x2="0" y2="6" stroke="%s" stroke-width="1.5"/>`+"\n", s.T.Total)
	buf.WriteString("    </pattern>\n")
	buf.WriteString("  </defs>\n")
}

func (s Outline) RenderBar(buf *bytes.Buffer, b Bar) {
	fill := "white"
	if b.Kind == waterfall.Total {
		fill = "url(#hatch-total)"
	}
	// Inset by half the stroke so the border stays inside the band.
	half := OutlineStroke / 2.0
	w, h := max(0, b.W-OutlineStroke), max(0, b.H-OutlineStroke)
	fmt.Fprintf(buf, `    <rect class="bar bar-%s" data-category="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		b.Kind, EscapeXML(b.Category), b.X+half, b.Y+half, w, h, fill, s.T.BarColor(b.Kind), OutlineStroke)
}

var _ Style = Outline{}
