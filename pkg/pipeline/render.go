package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/sink"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	style, err := styles.ByName(opts.Style, *opts.Theme)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, l, style, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l layout.Layout, style styles.Style, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, sink.WithStyle(style)), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{sink.WithPNGStyle(style), sink.WithScale(opts.Scale)}
		if opts.Font != nil {
			pngOpts = append(pngOpts, sink.WithFont(opts.Font))
		}
		return sink.RenderPNG(l, pngOpts...)
	case FormatPDF:
		return sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(sink.WithStyle(style)))
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONStyle(style))
	default:
		return nil, ValidateFormat(format)
	}
}
