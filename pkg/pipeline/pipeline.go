// Package pipeline provides the dataset → steps → layout → render pipeline.
//
// The CLI and the HTTP server both go through this package so that option
// defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Steps: Validate a [dataset.Dataset] and compute its running totals
//  2. Layout: Fit the steps into a viewport with band and linear scales
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage is memoized by a hash of its inputs, so re-running with the
// same data and options reuses prior results while any change recomputes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	ds, _ := dataset.Import("examples/earnings.json")
//	result, err := runner.Execute(ctx, ds, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/sink"
	"github.com/matzehuels/waterfall/pkg/render/styles"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.DefaultName

	// DefaultScale is the default PNG scale factor.
	DefaultScale = sink.DefaultPNGScale
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Dataset overrides; empty keeps the dataset's own values.
	Label string `json:"label,omitempty"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`

	// Layout options
	Width     float64         `json:"width,omitempty"`
	Height    float64         `json:"height,omitempty"`
	Margins   *layout.Margins `json:"margins,omitempty"`
	Padding   *float64        `json:"padding,omitempty"`
	SkipNice  bool            `json:"skip_nice,omitempty"` // Keep the raw data extent (default: false = round)
	TickCount int             `json:"tick_count,omitempty"`

	// Render options
	Formats []string      `json:"formats,omitempty"`
	Style   string        `json:"style,omitempty"`
	Theme   *styles.Theme `json:"theme,omitempty"`
	Scale   float64       `json:"scale,omitempty"` // PNG scale factor

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Font   *truetype.Font `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Steps are the running totals, Total last.
	Steps []waterfall.Step

	// StepsHash is the content hash of the steps.
	StepsHash string

	// Layout is the chart geometry.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PointCount   int
	ElementCount int
	StepsTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	StepsHit  bool // Whether steps came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !slices.Contains(styles.Names(), style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(styles.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSteps(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSteps checks the field name overrides.
func (o *Options) ValidateForSteps() error {
	if o.X != "" {
		if err := errors.ValidateFieldName(o.X); err != nil {
			return err
		}
	}
	if o.Y != "" {
		if err := errors.ValidateFieldName(o.Y); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margins == nil {
		m := layout.DefaultMargins
		o.Margins = &m
	}
	if o.Padding == nil {
		p := layout.DefaultPadding
		o.Padding = &p
	}
	if o.TickCount <= 0 {
		o.TickCount = layout.DefaultTickCount
	}
	o.setLoggerDefault()
}

// ValidateForLayout validates and sets defaults for layout computation.
// Negative dimensions are accepted and produce an empty chart.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	return errors.ValidatePadding(*o.Padding)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	o.Style = strings.ToLower(o.Style)
	if o.Theme == nil {
		t := styles.DefaultTheme()
		o.Theme = &t
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLoggerDefault()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return o.Theme.Validate()
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions converts the options into [layout.Build] options.
// The y-axis label is the dataset label unless overridden.
func (o Options) LayoutOptions(label string) []layout.Option {
	if o.Label != "" {
		label = o.Label
	}
	opts := []layout.Option{
		layout.WithNice(!o.SkipNice),
		layout.WithTickCount(o.TickCount),
		layout.WithYLabel(label),
	}
	if o.Margins != nil {
		opts = append(opts, layout.WithMargins(*o.Margins))
	}
	if o.Padding != nil {
		opts = append(opts, layout.WithPadding(*o.Padding))
	}
	return opts
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o Options) LayoutKeyOpts(label string) cache.LayoutKeyOpts {
	if o.Label != "" {
		label = o.Label
	}
	k := cache.LayoutKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		Nice:      !o.SkipNice,
		TickCount: o.TickCount,
		YLabel:    label,
	}
	if o.Margins != nil {
		k.Margins = [4]float64{o.Margins.Top, o.Margins.Right, o.Margins.Bottom, o.Margins.Left}
	}
	if o.Padding != nil {
		k.Padding = *o.Padding
	}
	return k
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Style: o.Style}
	if o.Theme != nil {
		if h, err := cache.HashJSON(o.Theme); err == nil {
			k.Theme = h
		}
	}
	if format == FormatPNG {
		k.Scale = o.Scale
		if o.Font != nil {
			k.Font = o.Font.Name(truetype.NameIDFontFullName)
		}
	}
	return k
}

// String summarizes the options for log output.
func (o Options) String() string {
	return fmt.Sprintf("%gx%g style=%s formats=%s", o.Width, o.Height, o.Style, strings.Join(o.Formats, ","))
}
