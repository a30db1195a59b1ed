package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/dataset"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Label: "Earnings",
		X:     "month",
		Y:     "earnings",
		Data: []dataset.Record{
			{"month": "Jan", "earnings": 23.0},
			{"month": "Feb", "earnings": -14.0},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"flat", false},
		{"outline", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if *opts.Margins != layout.DefaultMargins {
		t.Errorf("margins = %+v", *opts.Margins)
	}
	if *opts.Padding != layout.DefaultPadding {
		t.Errorf("padding = %v", *opts.Padding)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("style = %q", opts.Style)
	}
	if opts.Theme == nil || opts.Logger == nil {
		t.Error("theme and logger should be set")
	}
	if opts.Scale != DefaultScale {
		t.Errorf("scale = %v", opts.Scale)
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults: %v", err)
	}
}

func TestZeroPaddingKept(t *testing.T) {
	zero := 0.0
	opts := Options{Padding: &zero}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	if *opts.Padding != 0 {
		t.Errorf("padding = %v, want 0", *opts.Padding)
	}
}

func TestOptionsValidation(t *testing.T) {
	one := 1.0
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"nan width", Options{Width: math.NaN()}, errors.ErrCodeInvalidDimensions},
		{"huge height", Options{Height: 1e6}, errors.ErrCodeInvalidDimensions},
		{"padding one", Options{Padding: &one}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "neon"}, errors.ErrCodeInvalidStyle},
		{"bad field", Options{X: "a\x00b"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNegativeDimensionsRenderEmpty(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sampleDataset(), Options{Width: -10, Height: 300})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Layout.Empty() {
		t.Errorf("expected empty layout, got %d elements", len(res.Layout.Elements))
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("empty layout should still render an svg document")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	res, err := r.Execute(context.Background(), sampleDataset(), Options{Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []waterfall.Step{
		{Category: "Jan", Value: 23, Start: 0, End: 23, Kind: waterfall.Positive},
		{Category: "Feb", Value: -14, Start: 23, End: 9, Kind: waterfall.Negative},
		{Category: "Total", Value: 9, Start: 0, End: 9, Kind: waterfall.Total},
	}
	if len(res.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(res.Steps), len(want))
	}
	for i := range want {
		if res.Steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, res.Steps[i], want[i])
		}
	}

	if res.Layout.YLabel != "Earnings" {
		t.Errorf("y label = %q, want dataset label", res.Layout.YLabel)
	}
	if len(res.Layout.Elements) != 3 {
		t.Errorf("got %d elements, want 3", len(res.Layout.Elements))
	}
	if res.Stats.PointCount != 2 || res.Stats.ElementCount != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.StepsHash == "" {
		t.Error("steps hash should be set")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact is not valid JSON")
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run cache info = %+v, want all misses", res.CacheInfo)
	}
}

func TestExecuteCacheHits(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(), nil, nil)

	first, err := r.Execute(ctx, sampleDataset(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, sampleDataset(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if second.CacheInfo != (CacheInfo{StepsHit: true, LayoutHit: true, RenderHit: true}) {
		t.Errorf("second run cache info = %+v, want all hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if first.StepsHash != second.StepsHash {
		t.Error("steps hash differs between runs")
	}
}

func TestExecuteRecomputesOnChange(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(), nil, nil)

	if _, err := r.Execute(ctx, sampleDataset(), Options{}); err != nil {
		t.Fatal(err)
	}

	// Viewport change: steps reused, layout and render recomputed.
	res, err := r.Execute(ctx, sampleDataset(), Options{Width: 400})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo != (CacheInfo{StepsHit: true}) {
		t.Errorf("viewport change cache info = %+v", res.CacheInfo)
	}

	// Style change: only render recomputed.
	res, err = r.Execute(ctx, sampleDataset(), Options{Width: 400, Style: "outline"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo != (CacheInfo{StepsHit: true, LayoutHit: true}) {
		t.Errorf("style change cache info = %+v", res.CacheInfo)
	}

	// Data change: everything recomputed.
	ds := sampleDataset()
	ds.Data[0]["earnings"] = 30.0
	res, err = r.Execute(ctx, ds, Options{Width: 400, Style: "outline"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("data change cache info = %+v", res.CacheInfo)
	}
	if got := res.Steps[len(res.Steps)-1].End; got != 16 {
		t.Errorf("total = %v, want 16", got)
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	r := NewRunner(c, nil, nil)

	if _, err := r.Execute(ctx, sampleDataset(), Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, sampleDataset(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("refresh cache info = %+v, want all misses", res.CacheInfo)
	}
	if c.Len() != 3 {
		t.Errorf("cache has %d entries, want 3", c.Len())
	}
}

func TestRenderPartialCacheHit(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	steps, err := r.ComputeSteps(ctx, sampleDataset(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	l, err := r.ComputeLayout(ctx, steps, "", Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Render(ctx, l, Options{Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, Options{Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("render should miss when any format is missing")
	}
	if len(artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(artifacts))
	}
}

func TestComputeStepsFieldOverride(t *testing.T) {
	ds := &dataset.Dataset{Data: []dataset.Record{
		{"q": "Q1", "delta": 5.0},
		{"q": "Q2", "delta": 7.0},
	}}
	r := NewRunner(nil, nil, nil)
	steps, err := r.ComputeSteps(context.Background(), ds, Options{X: "q", Y: "delta"})
	if err != nil {
		t.Fatalf("ComputeSteps: %v", err)
	}
	if len(steps) != 3 || steps[2].End != 12 {
		t.Errorf("steps = %+v", steps)
	}
	if ds.X != "" || ds.Y != "" {
		t.Error("overrides must not mutate the caller's dataset")
	}
}

func TestComputeStepsErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.ComputeSteps(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil dataset: err = %v", err)
	}

	ds := sampleDataset()
	ds.Data[1]["earnings"] = "lots"
	if _, err := r.ComputeSteps(ctx, ds, Options{}); !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("non-numeric value: err = %v", err)
	}
}

func TestComputeLayoutRejectsNonFiniteSteps(t *testing.T) {
	mem := cache.NewMemoryCache()
	r := NewRunner(mem, nil, nil)
	ctx := context.Background()

	steps := []waterfall.Step{
		{Category: "a", Value: 1e308, Start: 0, End: 1e308, Kind: waterfall.Positive},
		{Category: "b", Value: 1e308, Start: 1e308, End: math.Inf(1), Kind: waterfall.Positive},
		{Category: waterfall.TotalCategory, Value: math.Inf(1), End: math.Inf(1), Kind: waterfall.Total},
	}
	_, err := r.ComputeLayout(ctx, steps, "", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Fatalf("err = %v, want INVALID_DATA", err)
	}
	if n, _ := mem.Clear(ctx); n != 0 {
		t.Errorf("cached %d entries for unhashable steps", n)
	}
}

func TestEmptyDataset(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), &dataset.Dataset{}, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Steps) != 1 || !res.Steps[0].IsTotal() || res.Steps[0].End != 0 {
		t.Errorf("steps = %+v, want a single zero Total", res.Steps)
	}
}

func TestRenderFormats(t *testing.T) {
	l := layout.Build([]waterfall.Step{
		{Category: "A", Value: 4, Start: 0, End: 4, Kind: waterfall.Positive},
		{Category: "Total", Value: 4, Start: 0, End: 4, Kind: waterfall.Total},
	}, 200, 150)

	artifacts, err := Render(context.Background(), l, Options{Formats: []string{FormatSVG, FormatPNG, FormatJSON}, Scale: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact missing signature")
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte(`class="bar bar-total"`)) {
		t.Error("svg artifact missing total bar")
	}
	var doc map[string]any
	if err := json.Unmarshal(artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc["style"] != DefaultStyle {
		t.Errorf("json style = %v", doc["style"])
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	png := opts.ArtifactKeyOpts(FormatPNG)
	if svg.Scale != 0 {
		t.Error("scale should only key png artifacts")
	}
	if png.Scale != DefaultScale {
		t.Errorf("png scale = %v", png.Scale)
	}
	if svg.Theme == "" || svg.Theme != png.Theme {
		t.Error("theme hash should be set and shared across formats")
	}

	other := opts
	dark := *opts.Theme
	dark.Positive = "#00ff00"
	other.Theme = &dark
	if other.ArtifactKeyOpts(FormatSVG).Theme == svg.Theme {
		t.Error("theme change should change the key")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnStepsStart(context.Context, int) { h.record("steps") }
func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.record("layout")
}
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render")
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func TestExecuteHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	ph := &recordingHooks{}
	ch := &countingCacheHooks{}
	observability.SetPipelineHooks(ph)
	observability.SetCacheHooks(ch)

	r := NewRunner(cache.NewMemoryCache(), nil, nil)
	for range 2 {
		if _, err := r.Execute(context.Background(), sampleDataset(), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"steps", "layout", "render", "steps", "layout", "render"}
	if len(ph.events) != len(want) {
		t.Fatalf("events = %v, want %v", ph.events, want)
	}
	for i := range want {
		if ph.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, ph.events[i], want[i])
		}
	}
	if ch.misses != 3 || ch.hits != 3 {
		t.Errorf("cache hooks hits=%d misses=%d, want 3/3", ch.hits, ch.misses)
	}
}
