package sink

import (
	"encoding/json"

	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/styles"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style styles.Style
}

// WithJSONStyle records the style name and resolves bar colors from its theme.
func WithJSONStyle(s styles.Style) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Margins     layout.Margins `json:"margins"`
	InnerWidth  float64        `json:"inner_width"`
	InnerHeight float64        `json:"inner_height"`
	Domain      [2]float64     `json:"domain"`
	Bandwidth   float64        `json:"bandwidth"`
	Step        float64        `json:"step"`
	Style       string         `json:"style,omitempty"`
	YLabel      string         `json:"y_label,omitempty"`
	Bars        []jsonBar      `json:"bars"`
	XTicks      []layout.Tick  `json:"x_ticks"`
	YTicks      []layout.Tick  `json:"y_ticks"`
}

type jsonBar struct {
	Category  string            `json:"category"`
	Kind      waterfall.Kind    `json:"kind"`
	Value     float64           `json:"value"`
	Start     float64           `json:"start"`
	End       float64           `json:"end"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Color     string            `json:"color"`
	Connector *layout.Connector `json:"connector,omitempty"`
	Label     layout.Label      `json:"label"`
}

// RenderJSON exports the layout geometry as a pretty-printed JSON document.
// Bars, XTicks and YTicks are always arrays, empty for an empty layout.
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify l and is safe to call concurrently.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{style: styles.Flat{T: styles.DefaultTheme()}}
	for _, opt := range opts {
		opt(&r)
	}
	theme := r.style.Theme()

	out := jsonOutput{
		Width:       l.Width,
		Height:      l.Height,
		Margins:     l.Margins,
		InnerWidth:  l.InnerWidth,
		InnerHeight: l.InnerHeight,
		Domain:      l.Domain,
		Bandwidth:   l.Bandwidth,
		Step:        l.Step,
		Style:       r.style.Name(),
		YLabel:      l.YLabel,
		Bars:        make([]jsonBar, 0, len(l.Elements)),
		XTicks:      nonNilTicks(l.XTicks),
		YTicks:      nonNilTicks(l.YTicks),
	}
	for _, e := range l.Elements {
		out.Bars = append(out.Bars, jsonBar{
			Category:  e.Step.Category,
			Kind:      e.Step.Kind,
			Value:     e.Step.Value,
			Start:     e.Step.Start,
			End:       e.Step.End,
			X:         e.Bar.X,
			Y:         e.Bar.Y,
			Width:     e.Bar.Width,
			Height:    e.Bar.Height,
			Color:     theme.BarColor(e.Step.Kind),
			Connector: e.Connector,
			Label:     e.Label,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func nonNilTicks(t []layout.Tick) []layout.Tick {
	if t == nil {
		return []layout.Tick{}
	}
	return t
}
