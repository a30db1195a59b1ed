// Package sink provides output format renderers for waterfall layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format.
// This package provides renderers for:
//
//   - SVG: Scalable vector graphics drawn by a [styles.Style]
//   - PNG: Raster output drawn in-process with go-chart
//   - PDF: Print-ready output (requires rsvg-convert)
//   - JSON: Geometry export for tests and external renderers
//
// # SVG Output
//
// [RenderSVG] writes an <svg> root sized to the layout viewport with one
// group translated by the left and top margins. Inside it, in order: dashed
// grid rows, then per step its bar, its dashed connector and its value label,
// then the left and bottom axes. An empty layout yields a valid <svg> with no
// chart group.
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Outline{Flat: styles.Flat{T: theme}}))
//
// # PNG Output
//
// [RenderPNG] draws the same primitives with go-chart's raster renderer. It
// needs no external tools. [WithScale] controls the pixel density.
//
// # JSON Output
//
// [RenderJSON] exports the geometry with each bar's resolved color:
//
//	{
//	  "width": 800, "height": 600,
//	  "bars": [{"category": "Jan", "kind": "positive", "x": 43.75, ...}],
//	  "y_ticks": [{"label": "0", "value": 0, "pos": 500}, ...]
//	}
package sink
