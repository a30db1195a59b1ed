package layout

import (
	"strconv"

	"github.com/matzehuels/waterfall/pkg/scale"
)

// Default layout policy values.
const (
	DefaultPadding        = scale.DefaultPadding
	DefaultConnectorInset = 2.0
	DefaultLabelOffset    = 10.0
	DefaultTickCount      = scale.DefaultTickCount
	DefaultWidth          = 800.0
	DefaultHeight         = 600.0
)

// DefaultMargins reserves room for the axes around the drawing area.
var DefaultMargins = Margins{Top: 40, Right: 40, Bottom: 60, Left: 60}

// Margins is the space between the viewport edge and the drawing area.
type Margins struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Option configures [Build].
type Option func(*config)

type config struct {
	margins        Margins
	padding        float64
	nice           bool
	tickCount      int
	connectorInset float64
	labelOffset    float64
	yLabel         string
	format         func(float64) string
}

func defaultConfig() config {
	return config{
		margins:        DefaultMargins,
		padding:        DefaultPadding,
		nice:           true,
		tickCount:      DefaultTickCount,
		connectorInset: DefaultConnectorInset,
		labelOffset:    DefaultLabelOffset,
		format:         FormatValue,
	}
}

// WithMargins overrides [DefaultMargins].
func WithMargins(m Margins) Option {
	return func(c *config) { c.margins = m }
}

// WithPadding sets the band padding as a fraction of the band step.
func WithPadding(p float64) Option {
	return func(c *config) { c.padding = p }
}

// WithNice controls whether the value domain is rounded outward to tick values.
func WithNice(nice bool) Option {
	return func(c *config) { c.nice = nice }
}

// WithTickCount bounds the number of value axis ticks.
func WithTickCount(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tickCount = n
		}
	}
}

// WithConnectorInset sets the gap between a connector and the bars it links.
func WithConnectorInset(px float64) Option {
	return func(c *config) { c.connectorInset = px }
}

// WithLabelOffset sets the distance between a bar's end and its value label.
func WithLabelOffset(px float64) Option {
	return func(c *config) { c.labelOffset = px }
}

// WithYLabel sets the value axis caption.
func WithYLabel(label string) Option {
	return func(c *config) { c.yLabel = label }
}

// WithValueFormat sets how step values and value ticks are printed.
func WithValueFormat(f func(float64) string) Option {
	return func(c *config) {
		if f != nil {
			c.format = f
		}
	}
}

// FormatValue prints v in its shortest round-trip form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
