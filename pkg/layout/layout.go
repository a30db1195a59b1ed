package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/waterfall/pkg/scale"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Layout is the complete geometry of one waterfall chart.
type Layout struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Margins     Margins `json:"margins"`
	InnerWidth  float64 `json:"inner_width"`
	InnerHeight float64 `json:"inner_height"`

	// Domain is the value range of the vertical scale after rounding.
	Domain    [2]float64 `json:"domain"`
	Bandwidth float64    `json:"bandwidth"`
	Step      float64    `json:"step"`

	Elements []Element `json:"elements"`
	XTicks   []Tick    `json:"x_ticks"`
	YTicks   []Tick    `json:"y_ticks"`
	YLabel   string    `json:"y_label,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (l Layout) Empty() bool { return len(l.Elements) == 0 }

// Element is the geometry derived from a single step.
type Element struct {
	Step      waterfall.Step `json:"step"`
	Bar       Bar            `json:"bar"`
	Connector *Connector     `json:"connector,omitempty"`
	Label     Label          `json:"label"`
}

// Bar is the rectangle of a step.
type Bar struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the bar's right edge.
func (b Bar) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bar's lower edge.
func (b Bar) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center of the bar.
func (b Bar) CenterX() float64 { return b.X + b.Width/2 }

// Connector is the horizontal segment linking a bar to the next one.
type Connector struct {
	X1 float64 `json:"x1"`
	X2 float64 `json:"x2"`
	Y  float64 `json:"y"`
}

// Label is the value text drawn next to a bar's end.
type Label struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Tick is an axis tick: its caption and its pixel position along the axis.
type Tick struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
}

// Build computes the layout of steps in a width x height viewport.
func Build(steps []waterfall.Step, width, height float64, opts ...Option) Layout {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := Layout{
		Width:       width,
		Height:      height,
		Margins:     cfg.margins,
		InnerWidth:  width - cfg.margins.Left - cfg.margins.Right,
		InnerHeight: height - cfg.margins.Top - cfg.margins.Bottom,
		YLabel:      cfg.yLabel,
	}
	if !(l.InnerWidth > 0) || !(l.InnerHeight > 0) {
		return l
	}

	min, max, ok := scale.Extent(waterfall.Bounds(steps))
	if !ok || !finite(min) || !finite(max) {
		return l
	}

	x := scale.NewBand(waterfall.Categories(steps), 0, l.InnerWidth, scale.WithBandPadding(cfg.padding))
	y := scale.NewLinear(min, max, l.InnerHeight, 0)
	if cfg.nice {
		y.Nice(cfg.tickCount)
	}

	l.Domain[0], l.Domain[1] = y.Domain()
	l.Bandwidth = x.Bandwidth()
	l.Step = x.Step()
	l.Elements = buildElements(steps, x, y, cfg)
	l.XTicks = buildXTicks(x)
	l.YTicks = buildYTicks(y, cfg)
	return l
}

func buildElements(steps []waterfall.Step, x *scale.Band, y *scale.Linear, cfg config) []Element {
	elements := make([]Element, 0, len(steps))
	bw := x.Bandwidth()

	for i, s := range steps {
		left, ok := x.Position(s.Category)
		if !ok {
			continue
		}
		top := y.Map(math.Max(s.Start, s.End))
		bar := Bar{
			X:      left,
			Y:      top,
			Width:  bw,
			Height: math.Abs(y.Map(s.Start) - y.Map(s.End)),
		}

		e := Element{
			Step:  s,
			Bar:   bar,
			Label: buildLabel(s, bar, y, cfg),
		}
		if i < len(steps)-1 {
			e.Connector = buildConnector(s, bar, x.Step(), cfg.connectorInset)
		}
		elements = append(elements, e)
	}
	return elements
}

// buildConnector places the segment on the edge of the bar where the next
// step starts: the top when the total increased, the bottom otherwise.
func buildConnector(s waterfall.Step, bar Bar, step, inset float64) *Connector {
	y := bar.Y
	if s.End < s.Start {
		y = bar.Bottom()
	}
	return &Connector{
		X1: bar.Right() + inset,
		X2: bar.X + step - inset,
		Y:  y,
	}
}

func buildLabel(s waterfall.Step, bar Bar, y *scale.Linear, cfg config) Label {
	offset := -cfg.labelOffset
	if s.Value < 0 {
		offset = cfg.labelOffset
	}
	return Label{
		Text: cfg.format(s.Value),
		X:    bar.CenterX(),
		Y:    y.Map(s.End) + offset,
	}
}

func buildXTicks(x *scale.Band) []Tick {
	domain := x.Domain()
	ticks := make([]Tick, 0, len(domain))
	for _, c := range domain {
		pos, _ := x.Center(c)
		ticks = append(ticks, Tick{Label: c, Pos: pos})
	}
	return ticks
}

func buildYTicks(y *scale.Linear, cfg config) []Tick {
	values := y.Ticks(cfg.tickCount)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		v = roundTick(v)
		ticks = append(ticks, Tick{Label: cfg.format(v), Value: v, Pos: y.Map(v)})
	}
	return ticks
}

// roundTick drops floating point noise from computed tick values
// (0.30000000000000004 becomes 0.3).
func roundTick(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
