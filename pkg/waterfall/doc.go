// Package waterfall computes the steps of a waterfall chart.
//
// # Overview
//
// A waterfall chart shows how a sequence of signed contributions accumulates
// to a final total. Each contribution becomes a [Step]: the interval between
// the running total before and after it. A synthesized Total step is always
// appended, spanning from zero to the final sum.
//
// # Calculating Steps
//
// [Calculate] is generic over the data point type. Callers supply two
// accessors, one returning the category key and one returning the value:
//
//	type month struct {
//	    Name     string
//	    Earnings float64
//	}
//
//	steps := waterfall.Calculate(data,
//	    func(m month) string { return m.Name },
//	    func(m month) float64 { return m.Earnings },
//	)
//
// Category keys may be any string or numeric kind (see [Key]); they are
// normalized to their canonical text so they can be used as band scale keys.
//
// # Coloring
//
// Every step carries a [Kind]. Contributions strictly greater than zero are
// [Positive]; zero and negative contributions are [Negative]. The Total step
// is always [Total], regardless of its sign.
//
// Calculate never fails and has no side effects: calling it twice with the
// same input yields equal steps.
package waterfall
