// Package layout computes screen geometry for waterfall charts.
//
// # Overview
//
// [Build] turns a list of [waterfall.Step] values and a viewport size into a
// declarative [Layout]: one [Element] per step (bar, optional connector and
// value label) plus axis ticks. Nothing is drawn here; sinks in
// render/sink consume the layout.
//
// # Coordinates
//
// All element coordinates are relative to the inner drawing area, whose
// origin sits at (Margins.Left, Margins.Top) of the viewport. The y axis
// points down: larger values map to smaller y.
//
// # Scales
//
// The horizontal axis is a band scale over the step categories with 20%
// padding. The vertical axis is a linear scale over every step's start and
// end value, rounded outward to nice tick values unless [WithNice] disables
// it.
//
// # Degenerate Input
//
// A viewport whose inner width or height is not positive, or an empty step
// list, produces a layout with no elements. Build never fails.
//
//	l := layout.Build(steps, 800, 600,
//	    layout.WithYLabel("Earnings"),
//	)
package layout
