package scale

import "math"

// DefaultPadding is the fraction of the band step reserved for gaps.
const DefaultPadding = 0.2

// Band maps an ordered set of categories to equal-width bands.
//
// With n categories, inner padding pi and outer padding po, the band step is
// (r1 - r0) / (n - pi + 2*po) and each band is step * (1 - pi) wide. Leftover
// space is distributed according to the alignment (0.5 centers the bands).
type Band struct {
	domain []string
	index  map[string]int

	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64

	start     float64
	step      float64
	bandwidth float64
}

// BandOption configures a [Band] scale.
type BandOption func(*Band)

// WithBandPadding sets both inner and outer padding to p.
func WithBandPadding(p float64) BandOption {
	return func(b *Band) {
		b.paddingInner = clampUnit(p)
		b.paddingOuter = math.Max(0, p)
	}
}

// WithPaddingInner sets the gap between adjacent bands as a fraction of the step.
func WithPaddingInner(p float64) BandOption {
	return func(b *Band) { b.paddingInner = clampUnit(p) }
}

// WithPaddingOuter sets the space before the first and after the last band
// as a fraction of the step.
func WithPaddingOuter(p float64) BandOption {
	return func(b *Band) { b.paddingOuter = math.Max(0, p) }
}

// WithAlign sets how leftover space is distributed; 0 is left, 1 is right.
func WithAlign(a float64) BandOption {
	return func(b *Band) { b.align = clampUnit(a) }
}

// NewBand creates a band scale over domain mapped onto [r0, r1].
// Duplicate categories collapse onto the band of their first occurrence.
func NewBand(domain []string, r0, r1 float64, opts ...BandOption) *Band {
	b := &Band{
		index: make(map[string]int, len(domain)),
		r0:    r0,
		r1:    r1,
		align: 0.5,
	}
	for _, d := range domain {
		if _, ok := b.index[d]; ok {
			continue
		}
		b.index[d] = len(b.domain)
		b.domain = append(b.domain, d)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rescale()
	return b
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	start, stop := b.r0, b.r1
	if stop < start {
		start, stop = stop, start
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+2*b.paddingOuter)
	b.start = start + (stop-start-b.step*(n-b.paddingInner))*b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
}

// Position returns the start of the band for category, and whether the
// category is part of the domain.
func (b *Band) Position(category string) (float64, bool) {
	i, ok := b.index[category]
	if !ok {
		return 0, false
	}
	if b.r1 < b.r0 {
		i = len(b.domain) - 1 - i
	}
	return b.start + b.step*float64(i), true
}

// Center returns the midpoint of the band for category.
func (b *Band) Center(category string) (float64, bool) {
	x, ok := b.Position(category)
	return x + b.bandwidth/2, ok
}

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Domain returns the unique categories in band order.
func (b *Band) Domain() []string { return append([]string(nil), b.domain...) }

// Len returns the number of bands.
func (b *Band) Len() int { return len(b.domain) }

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
