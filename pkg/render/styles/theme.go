package styles

import (
	"regexp"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Theme holds the colors and typography of a chart.
type Theme struct {
	Positive   string `json:"positive" toml:"positive"`
	Negative   string `json:"negative" toml:"negative"`
	Total      string `json:"total" toml:"total"`
	Connector  string `json:"connector" toml:"connector"`
	Axis       string `json:"axis" toml:"axis"`
	Grid       string `json:"grid" toml:"grid"`
	Background string `json:"background,omitempty" toml:"background"`

	FontFamily    string  `json:"font_family" toml:"font_family"`
	LabelSize     float64 `json:"label_size" toml:"label_size"`
	LabelWeight   int     `json:"label_weight" toml:"label_weight"`
	AxisLabelSize float64 `json:"axis_label_size" toml:"axis_label_size"`
	TickSize      float64 `json:"tick_size" toml:"tick_size"`
	TickWeight    int     `json:"tick_weight" toml:"tick_weight"`
}

// DefaultTheme returns the standard palette: green increases, red decreases,
// slate totals and grey guides. Background is empty (transparent).
func DefaultTheme() Theme {
	return Theme{
		Positive:      "#49b86f",
		Negative:      "#c92e5b",
		Total:         "#434857",
		Connector:     "#888d94",
		Axis:          "#888d94",
		Grid:          "#eaf0f6",
		FontFamily:    "sans-serif",
		LabelSize:     13,
		LabelWeight:   700,
		AxisLabelSize: 16,
		TickSize:      13,
		TickWeight:    600,
	}
}

// BarColor returns the fill color for a step kind.
func (t Theme) BarColor(k waterfall.Kind) string {
	switch k {
	case waterfall.Positive:
		return t.Positive
	case waterfall.Total:
		return t.Total
	default:
		return t.Negative
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks that every color is a #rgb or #rrggbb hex string and that
// font sizes are positive. Background may be empty.
func (t Theme) Validate() error {
	colors := []struct{ name, value string }{
		{"positive", t.Positive},
		{"negative", t.Negative},
		{"total", t.Total},
		{"connector", t.Connector},
		{"axis", t.Axis},
		{"grid", t.Grid},
	}
	if t.Background != "" {
		colors = append(colors, struct{ name, value string }{"background", t.Background})
	}
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			return errors.New(errors.ErrCodeInvalidStyle, "theme %s: invalid color %q", c.name, c.value)
		}
	}
	if t.LabelSize <= 0 || t.AxisLabelSize <= 0 || t.TickSize <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "theme font sizes must be positive")
	}
	return nil
}
