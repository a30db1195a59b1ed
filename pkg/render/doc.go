// Package render converts rendered waterfall charts between output formats.
//
// # Overview
//
// Chart geometry is drawn by the [sink] subpackage; visual styles live in
// [styles]. This package holds the format conversion shared by the sinks.
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool
// (from librsvg):
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//
// PNG output does not need rsvg-convert; [sink.RenderPNG] rasterizes the
// layout directly.
//
// [sink]: github.com/matzehuels/waterfall/pkg/render/sink
// [styles]: github.com/matzehuels/waterfall/pkg/render/styles
// [sink.RenderPNG]: github.com/matzehuels/waterfall/pkg/render/sink#RenderPNG
package render
