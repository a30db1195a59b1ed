// Package fonts provides the TrueType fonts used for raster output.
//
// SVG output names a CSS font family and lets the viewer resolve it. PNG
// output is rasterized in-process and needs an actual font: by default the
// Roboto face bundled with go-chart, or any TTF file loaded with [Load].
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
)

// FontFamily is the CSS font-family written into SVG output.
const FontFamily = "sans-serif"

// FallbackFontFamily lists common sans-serif faces for viewers without a default.
const FallbackFontFamily = `Roboto, 'Helvetica Neue', Arial, sans-serif`

// Cache for the default font (parsed once on first access).
var (
	defaultFont     *truetype.Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// Default returns the bundled Roboto font.
// The result is cached after first computation.
func Default() (*truetype.Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = chart.GetDefaultFont()
	})
	return defaultFont, defaultFontErr
}

// Load parses the TrueType font file at path.
func Load(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}
