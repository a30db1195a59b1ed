package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render"
	"github.com/matzehuels/waterfall/pkg/render/styles"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

type point struct {
	month string
	value float64
}

func sampleLayout() layout.Layout {
	data := []point{{"Jan", 23}, {"Feb", -14}}
	steps := waterfall.Calculate(data,
		func(p point) string { return p.month },
		func(p point) float64 { return p.value })
	return layout.Build(steps, 800, 600, layout.WithYLabel("Earnings"))
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(sampleLayout()))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.0 600.0" width="800" height="600">`) {
		t.Errorf("unexpected root element: %s", out[:min(len(out), 120)])
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document should end with </svg>")
	}

	counts := map[string]int{
		`<g class="chart" transform="translate(60.00, 40.00)">`: 1,
		`class="bar `:               3,
		`class="bar bar-positive"`:  1,
		`class="bar bar-negative"`:  1,
		`class="bar bar-total"`:     1,
		`class="connector"`:         2,
		`class="value-label"`:       3,
		`class="grid-rows"`:         1,
		`class="axis axis-left"`:    1,
		`class="axis axis-bottom"`:  1,
		`>Earnings</text>`:          1,
		`>Total</text>`:             1,
	}
	for want, n := range counts {
		if got := strings.Count(out, want); got != n {
			t.Errorf("count(%q) = %d, want %d", want, got, n)
		}
	}
}

func TestRenderSVGOrder(t *testing.T) {
	out := string(RenderSVG(sampleLayout()))
	grid := strings.Index(out, `class="grid-rows"`)
	bar := strings.Index(out, `class="bar `)
	axis := strings.Index(out, `class="axis axis-left"`)
	if !(grid < bar && bar < axis) {
		t.Errorf("draw order should be grid, bars, axes: %d %d %d", grid, bar, axis)
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	steps := waterfall.Calculate([]point{{"Jan", 1}},
		func(p point) string { return p.month },
		func(p point) float64 { return p.value })

	tests := []struct {
		name          string
		width, height float64
	}{
		{"zero viewport", 0, 0},
		{"margins exceed viewport", 90, 90},
		{"negative viewport", -100, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderSVG(layout.Build(steps, tt.width, tt.height)))
			if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
				t.Errorf("not a valid svg document: %s", out)
			}
			if strings.Contains(out, `class="chart"`) {
				t.Error("empty layout should have no chart group")
			}
			if strings.Contains(out, `width="-`) {
				t.Error("negative dimensions should be clamped")
			}
		})
	}
}

func TestRenderSVGOptions(t *testing.T) {
	theme := styles.DefaultTheme()
	theme.Background = "#101010"
	out := string(RenderSVG(sampleLayout(),
		WithStyle(styles.Outline{Flat: styles.Flat{T: theme}}),
		WithClass("report"),
	))

	for _, want := range []string{`class="report"`, `fill="#101010"`, `id="hatch-total"`, `fill="white"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// A nil style falls back to the default.
	out = string(RenderSVG(sampleLayout(), WithStyle(nil)))
	if !strings.Contains(out, `fill="#49b86f"`) {
		t.Error("nil style should fall back to flat")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleLayout())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var out struct {
		Width  float64 `json:"width"`
		Style  string  `json:"style"`
		YLabel string  `json:"y_label"`
		Bars   []struct {
			Category  string          `json:"category"`
			Kind      string          `json:"kind"`
			End       float64         `json:"end"`
			Color     string          `json:"color"`
			Connector json.RawMessage `json:"connector"`
		} `json:"bars"`
		XTicks []layout.Tick `json:"x_ticks"`
		YTicks []layout.Tick `json:"y_ticks"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if out.Width != 800 || out.Style != styles.NameFlat || out.YLabel != "Earnings" {
		t.Errorf("header = %+v", out)
	}
	if len(out.Bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(out.Bars))
	}
	wantKinds := []string{"positive", "negative", "total"}
	wantColors := []string{"#49b86f", "#c92e5b", "#434857"}
	for i, b := range out.Bars {
		if b.Kind != wantKinds[i] || b.Color != wantColors[i] {
			t.Errorf("bar %d = %s/%s, want %s/%s", i, b.Kind, b.Color, wantKinds[i], wantColors[i])
		}
	}
	if out.Bars[1].End != 9 {
		t.Errorf("Feb end = %v, want 9", out.Bars[1].End)
	}
	if out.Bars[2].Connector != nil {
		t.Error("last bar should have no connector")
	}
	if len(out.XTicks) != 3 || out.XTicks[2].Label != "Total" {
		t.Errorf("x ticks = %+v", out.XTicks)
	}
	if len(out.YTicks) == 0 {
		t.Error("expected y ticks")
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(layout.Build(nil, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"bars": []`, `"x_ticks": []`, `"y_ticks": []`} {
		if !strings.Contains(s, want) {
			t.Errorf("empty layout JSON missing %s:\n%s", want, s)
		}
	}
}

func TestRenderJSONStyle(t *testing.T) {
	theme := styles.DefaultTheme()
	theme.Positive = "#00ff00"
	data, err := RenderJSON(sampleLayout(), WithJSONStyle(styles.Outline{Flat: styles.Flat{T: theme}}))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"style": "outline"`) || !strings.Contains(s, `"color": "#00ff00"`) {
		t.Errorf("style and theme not applied:\n%s", s)
	}
}

func TestRenderPNG(t *testing.T) {
	l := sampleLayout()
	data, err := RenderPNG(l, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("size = %dx%d, want 800x600", b.Dx(), b.Dy())
	}

	// Sample the middle of each bar.
	want := []color.RGBA{
		{0x49, 0xb8, 0x6f, 0xff},
		{0xc9, 0x2e, 0x5b, 0xff},
		{0x43, 0x48, 0x57, 0xff},
	}
	for i, e := range l.Elements {
		x := int(l.Margins.Left + e.Bar.CenterX())
		y := int(l.Margins.Top + e.Bar.Y + e.Bar.Height/2)
		if got := rgbaAt(img, x, y); !near(got, want[i]) {
			t.Errorf("bar %d pixel = %v, want %v", i, got, want[i])
		}
	}

	// Corners are background.
	if got := rgbaAt(img, 1, 1); !near(got, color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(sampleLayout())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1600 || cfg.Height != 1200 {
		t.Errorf("default scale size = %dx%d, want 1600x1200", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	data, err := RenderPNG(layout.Build(nil, 0, 0))
	if err != nil {
		t.Fatalf("RenderPNG(empty) error = %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("empty layout should still produce a PNG: %v", err)
	}
}

func TestRenderPNGOutline(t *testing.T) {
	l := sampleLayout()
	data, err := RenderPNG(l, WithScale(1), WithPNGStyle(styles.Outline{Flat: styles.Flat{T: styles.DefaultTheme()}}))
	if err != nil {
		t.Fatal(err)
	}
	img, _ := png.Decode(bytes.NewReader(data))
	e := l.Elements[0]
	x := int(l.Margins.Left + e.Bar.CenterX())
	y := int(l.Margins.Top + e.Bar.Y + e.Bar.Height/2)
	if got := rgbaAt(img, x, y); !near(got, color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("outlined bar interior = %v, want white", got)
	}
}

func TestRenderPNGBottomTickMarks(t *testing.T) {
	const scale = 4
	l := sampleLayout()
	data, err := RenderPNG(l, WithScale(scale))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	axis := color.RGBA{0x88, 0x8d, 0x94, 0xff}
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	axisY := l.Margins.Top + l.InnerHeight
	for _, tick := range l.XTicks {
		x := int(math.Round(scale * (l.Margins.Left + tick.Pos)))
		if got := rgbaAt(img, x, int(scale*(axisY+styles.TickLength/2))); !near(got, axis) {
			t.Errorf("%s: tick mark pixel = %v, want axis color", tick.Label, got)
		}
		if got := rgbaAt(img, x, int(scale*(axisY+styles.TickLength+1.5))); !near(got, white) {
			t.Errorf("%s: pixel below the tick mark = %v, want the label gap", tick.Label, got)
		}
	}
}

func TestParseHex(t *testing.T) {
	if c := color3("#0f0"); c != (color.RGBA{0, 0xff, 0, 0xff}) {
		t.Errorf("short hex = %v", c)
	}
	if c := color3("#49b86f"); c != (color.RGBA{0x49, 0xb8, 0x6f, 0xff}) {
		t.Errorf("long hex = %v", c)
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.HasPDFSupport() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(context.Background(), sampleLayout())
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func color3(hex string) color.RGBA {
	c := parseHex(hex)
	return color.RGBA{c.R, c.G, c.B, c.A}
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) float64 { return math.Abs(float64(x) - float64(y)) }
	return d(a.R, b.R) <= 2 && d(a.G, b.G) <= 2 && d(a.B, b.B) <= 2 && d(a.A, b.A) <= 2
}
