package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Style defines the visual appearance of a waterfall chart.
// All coordinates are relative to the inner chart area.
type Style interface {
	// Name returns the identifier used by ByName.
	Name() string
	// Theme returns the colors and typography the style draws with.
	Theme() Theme
	// RenderDefs writes SVG <defs> content (patterns, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderGrid writes the horizontal grid rows.
	RenderGrid(buf *bytes.Buffer, g Grid)
	// RenderBar writes a step's rectangle.
	RenderBar(buf *bytes.Buffer, b Bar)
	// RenderConnector writes the line linking a bar to the next.
	RenderConnector(buf *bytes.Buffer, c Connector)
	// RenderLabel writes a step's value label.
	RenderLabel(buf *bytes.Buffer, l Label)
	// RenderLeftAxis writes the value axis.
	RenderLeftAxis(buf *bytes.Buffer, a LeftAxis)
	// RenderBottomAxis writes the category axis.
	RenderBottomAxis(buf *bytes.Buffer, a BottomAxis)
}

// Bar contains the data needed to draw one step.
type Bar struct {
	Index      int
	Category   string
	Kind       waterfall.Kind
	X, Y, W, H float64
}

// Connector is a horizontal line at Y from X1 to X2.
type Connector struct {
	X1, X2, Y float64
}

// Label is a value caption centered at X, Y.
type Label struct {
	Text string
	X, Y float64
}

// Grid is a set of horizontal rows spanning Width.
type Grid struct {
	Width float64
	Ys    []float64
}

// Tick is an axis caption at Pos along the axis.
type Tick struct {
	Label string
	Pos   float64
}

// LeftAxis is the value axis along x = 0.
type LeftAxis struct {
	Label  string
	Height float64
	Ticks  []Tick
}

// BottomAxis is the category axis along y = Y.
type BottomAxis struct {
	Y     float64
	Width float64
	Ticks []Tick
}

// Style names.
const (
	NameFlat    = "flat"
	NameOutline = "outline"
)

// DefaultName is the style used when none is requested.
const DefaultName = NameFlat

var registry = map[string]func(Theme) Style{
	NameFlat:    func(t Theme) Style { return Flat{T: t} },
	NameOutline: func(t Theme) Style { return Outline{Flat{T: t}} },
}

// ByName returns the named style drawing with theme.
// An empty name selects [DefaultName].
func ByName(name string, theme Theme) (Style, error) {
	if name == "" {
		name = DefaultName
	}
	mk, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(theme), nil
}

// Names returns the available style names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func fontAttrs(t Theme, size float64, weight int) string {
	s := fmt.Sprintf(`font-family="%s" font-size="%g"`, EscapeXML(t.FontFamily), size)
	if weight > 0 {
		s += fmt.Sprintf(` font-weight="%d"`, weight)
	}
	return s
}
