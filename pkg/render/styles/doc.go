// Package styles defines how waterfall chart primitives are drawn as SVG.
//
// A [Style] receives one primitive at a time (grid, bar, connector, label,
// axes) already positioned in chart coordinates and writes the matching SVG
// elements. Colors and font sizes come from a [Theme].
//
// Two styles are provided:
//
//   - [Flat]: filled bars in the positive, negative and total colors
//   - [Outline]: white bars with a colored border, for print
//
// Use [ByName] to select a style from user input.
package styles
