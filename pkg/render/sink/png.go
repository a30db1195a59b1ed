package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/waterfall/pkg/fonts"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// DefaultPNGScale renders PNGs at 2x resolution.
const DefaultPNGScale = 2.0

// pngBackground fills the image when the theme has no background,
// since raster viewers show transparency inconsistently.
const pngBackground = "#ffffff"

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	theme   styles.Theme
	outline bool
	scale   float64
	font    *truetype.Font
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGStyle draws with the theme and bar treatment of s.
func WithPNGStyle(s styles.Style) PNGOption {
	return func(r *pngRenderer) {
		r.theme = s.Theme()
		r.outline = s.Name() == styles.NameOutline
	}
}

// WithFont overrides the bundled font.
func WithFont(f *truetype.Font) PNGOption {
	return func(r *pngRenderer) { r.font = f }
}

// RenderPNG rasterizes the layout with go-chart's PNG renderer.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{theme: styles.DefaultTheme(), scale: DefaultPNGScale}
	for _, opt := range opts {
		opt(&r)
	}
	if r.font == nil {
		f, err := fonts.Default()
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		r.font = f
	}

	w := max(1, int(math.Ceil(l.Width*r.scale)))
	h := max(1, int(math.Ceil(l.Height*r.scale)))
	rend, err := chart.PNG(w, h)
	if err != nil {
		return nil, fmt.Errorf("create png renderer: %w", err)
	}
	// Font sizes are given in pixels; 72 DPI makes one point one pixel.
	rend.SetDPI(72 * r.scale)

	c := &canvas{r: rend, font: r.font, scale: r.scale, ox: l.Margins.Left, oy: l.Margins.Top}
	bg := r.theme.Background
	if bg == "" {
		bg = pngBackground
	}
	c.fillRect(-l.Margins.Left, -l.Margins.Top, float64(w)/r.scale, float64(h)/r.scale, bg)

	if !l.Empty() {
		r.draw(c, l)
	}

	var buf bytes.Buffer
	if err := rend.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) draw(c *canvas, l layout.Layout) {
	t := r.theme

	for _, tick := range l.YTicks {
		c.line(0, tick.Pos, l.InnerWidth, tick.Pos, t.Grid, 1, []float64{styles.GridDash, styles.GridDash})
	}

	for _, e := range l.Elements {
		fill := t.BarColor(e.Step.Kind)
		if r.outline {
			half := styles.OutlineStroke / 2.0
			c.strokeRect(e.Bar.X+half, e.Bar.Y+half,
				max(0, e.Bar.Width-styles.OutlineStroke), max(0, e.Bar.Height-styles.OutlineStroke),
				"#ffffff", fill, styles.OutlineStroke)
		} else {
			c.fillRect(e.Bar.X, e.Bar.Y, e.Bar.Width, e.Bar.Height, fill)
		}
		if cn := e.Connector; cn != nil {
			c.line(cn.X1, cn.Y, cn.X2, cn.Y, t.Connector, 1, []float64{styles.ConnectorDash, styles.ConnectorDash})
		}
		c.text(e.Label.Text, e.Label.X, e.Label.Y, t.Axis, t.LabelSize, anchorMiddle)
	}

	// Left axis: tick labels and rotated label, no line.
	for _, tick := range l.YTicks {
		c.text(tick.Label, -(styles.TickLength + styles.TickLabelGap), tick.Pos, t.Axis, t.TickSize, anchorEnd)
	}
	if l.YLabel != "" {
		c.verticalText(l.YLabel, -styles.AxisLabelOffset, l.InnerHeight/2, t.Axis, t.AxisLabelSize)
	}

	// Bottom axis: line, tick marks and category labels.
	c.line(0, l.InnerHeight, l.InnerWidth, l.InnerHeight, t.Axis, 1, nil)
	for _, tick := range l.XTicks {
		c.line(tick.Pos, l.InnerHeight, tick.Pos, l.InnerHeight+styles.TickLength, t.Axis, 1, nil)
		c.text(tick.Label, tick.Pos, l.InnerHeight+styles.TickLength+styles.TickLabelGap+t.TickSize/2, t.Axis, t.TickSize, anchorMiddle)
	}
}

type anchor int

const (
	anchorMiddle anchor = iota
	anchorEnd
)

// canvas maps chart coordinates (relative to the inner area) to scaled
// pixel coordinates on a go-chart renderer.
type canvas struct {
	r      chart.Renderer
	font   *truetype.Font
	scale  float64
	ox, oy float64
}

func (c *canvas) px(x, y float64) (int, int) {
	return int(math.Round((c.ox + x) * c.scale)), int(math.Round((c.oy + y) * c.scale))
}

func (c *canvas) rectPath(x, y, w, h float64) {
	x0, y0 := c.px(x, y)
	x1, y1 := c.px(x+w, y+h)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y0)
	c.r.LineTo(x1, y1)
	c.r.LineTo(x0, y1)
	c.r.Close()
}

func (c *canvas) fillRect(x, y, w, h float64, fill string) {
	c.r.ResetStyle()
	c.r.SetFillColor(parseHex(fill))
	c.rectPath(x, y, w, h)
	c.r.Fill()
}

func (c *canvas) strokeRect(x, y, w, h float64, fill, stroke string, width float64) {
	c.r.ResetStyle()
	c.r.SetFillColor(parseHex(fill))
	c.r.SetStrokeColor(parseHex(stroke))
	c.r.SetStrokeWidth(width * c.scale)
	c.rectPath(x, y, w, h)
	c.r.FillStroke()
}

func (c *canvas) line(x1, y1, x2, y2 float64, stroke string, width float64, dash []float64) {
	c.r.ResetStyle()
	c.r.SetStrokeColor(parseHex(stroke))
	c.r.SetStrokeWidth(width * c.scale)
	if len(dash) > 0 {
		scaled := make([]float64, len(dash))
		for i, d := range dash {
			scaled[i] = d * c.scale
		}
		c.r.SetStrokeDashArray(scaled)
	}
	px1, py1 := c.px(x1, y1)
	px2, py2 := c.px(x2, y2)
	c.r.MoveTo(px1, py1)
	c.r.LineTo(px2, py2)
	c.r.Stroke()
}

func (c *canvas) setFont(fill string, size float64) {
	c.r.ResetStyle()
	c.r.SetFont(c.font)
	c.r.SetFontColor(parseHex(fill))
	c.r.SetFontSize(size)
}

// text draws s vertically centered on y, horizontally anchored at x.
func (c *canvas) text(s string, x, y float64, fill string, size float64, a anchor) {
	if s == "" {
		return
	}
	c.setFont(fill, size)
	px, py := c.px(x, y)
	box := c.r.MeasureText(s)
	switch a {
	case anchorMiddle:
		px -= box.Width() / 2
	case anchorEnd:
		px -= box.Width()
	}
	c.r.Text(s, px, py+box.Height()/2)
}

// verticalText draws s rotated a quarter turn counterclockwise, centered on y.
func (c *canvas) verticalText(s string, x, y float64, fill string, size float64) {
	c.setFont(fill, size)
	px, py := c.px(x, y)
	box := c.r.MeasureText(s)
	c.r.SetTextRotation(-math.Pi / 2)
	c.r.Text(s, px, py+box.Width()/2)
	c.r.ClearTextRotation()
}

// parseHex parses #rgb and #rrggbb; drawing.ColorFromHex expects six digits
// without the leading hash.
func parseHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return drawing.ColorFromHex(hex)
}
