// Package scale maps data values to pixel coordinates.
//
// Two scales are provided:
//
//   - [Band] partitions a continuous range into equal-width bands, one per
//     category, separated by inner padding and inset by outer padding.
//   - [Linear] maps a numeric domain onto a pixel range. The range may be
//     inverted (r0 > r1), which is how chart y axes map larger values to
//     smaller pixel coordinates.
//
// Linear scales delegate domain normalization, "nice" rounding and tick
// generation to github.com/aclements/go-moremath/scale.
package scale
