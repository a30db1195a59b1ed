package scale

import (
	"math"

	mmscale "github.com/aclements/go-moremath/scale"
)

// DefaultTickCount is the default target number of ticks.
const DefaultTickCount = 10

// Linear maps the numeric domain [min, max] onto the pixel range [r0, r1].
// Mapping is go-moremath's; nice rounding and ticks use 1, 2 and 5 steps.
type Linear struct {
	lin    mmscale.Linear
	r0, r1 float64
}

// NewLinear creates a linear scale. r0 may exceed r1 for an inverted axis.
func NewLinear(min, max, r0, r1 float64) *Linear {
	if min > max {
		min, max = max, min
	}
	return &Linear{
		lin: mmscale.Linear{Min: min, Max: max},
		r0:  r0,
		r1:  r1,
	}
}

// Map returns the pixel coordinate of v. A degenerate domain maps every
// value to the middle of the range.
func (l *Linear) Map(v float64) float64 {
	if l.Degenerate() {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + l.lin.Map(v)*(l.r1-l.r0)
}

// Domain returns the current domain bounds.
func (l *Linear) Domain() (min, max float64) { return l.lin.Min, l.lin.Max }

// Range returns the pixel range.
func (l *Linear) Range() (r0, r1 float64) { return l.r0, l.r1 }

// Degenerate reports whether the domain is a single value.
func (l *Linear) Degenerate() bool { return l.lin.Min == l.lin.Max }

// Nice extends the domain outward to multiples of the tick step chosen for
// roughly count ticks, repeating until the step settles. Degenerate and
// non-finite domains are left unchanged.
func (l *Linear) Nice(count int) {
	if l.Degenerate() || !finite(l.lin.Min) || !finite(l.lin.Max) {
		return
	}
	n := tickTarget(count)
	start, stop := l.lin.Min, l.lin.Max
	var prev float64
	for range 10 {
		step := tickIncrement(start, stop, n)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return
		}
		prev = step
	}
	if finite(start) && finite(stop) {
		l.lin.Min, l.lin.Max = start, stop
	}
}

// Ticks returns about count round values inside the domain, ascending.
// count is a target, not a limit.
func (l *Linear) Ticks(count int) []float64 {
	if l.Degenerate() {
		return []float64{l.lin.Min}
	}
	if !finite(l.lin.Min) || !finite(l.lin.Max) {
		return nil
	}
	i1, i2, inc := tickSpec(l.lin.Min, l.lin.Max, tickTarget(count))
	if !(i2 >= i1) || inc == 0 || !finite(inc) {
		return nil
	}
	ticks := make([]float64, 0, int(i2-i1)+1)
	for i := i1; i <= i2; i++ {
		if inc < 0 {
			ticks = append(ticks, i/-inc)
		} else {
			ticks = append(ticks, i*inc)
		}
	}
	return ticks
}

func tickTarget(count int) float64 {
	if count <= 0 {
		count = DefaultTickCount
	}
	return float64(count)
}

// Thresholds between step factors 1, 2, 5 and 10, at the geometric means.
var (
	tickE10 = math.Sqrt(50)
	tickE5  = math.Sqrt(10)
	tickE2  = math.Sqrt(2)
)

// tickSpec picks a step of 1, 2 or 5 times a power of ten close to
// (stop-start)/count and returns the first and last multiples i1, i2 of it
// inside [start, stop]. For steps below one, inc is the negated reciprocal
// of the step so tick values are computed by division without drift.
func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / count
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= tickE10:
		factor = 10
	case e >= tickE5:
		factor = 5
	case e >= tickE2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1, i2 = math.Round(start*inc), math.Round(stop*inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1, i2 = math.Round(start/inc), math.Round(stop/inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// tickIncrement returns the step tickSpec picks, in its signed encoding.
func tickIncrement(start, stop, count float64) float64 {
	_, _, inc := tickSpec(start, stop, count)
	return inc
}

// Extent returns the minimum and maximum of values. ok is false when
// values is empty.
func Extent(values []float64) (min, max float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max, true
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
