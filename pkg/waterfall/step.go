package waterfall

import (
	"fmt"
	"reflect"
	"strconv"
)

// TotalCategory is the category of the synthesized Total step.
const TotalCategory = "Total"

// Kind classifies a step for coloring.
type Kind int

const (
	// Negative marks a contribution less than or equal to zero.
	Negative Kind = iota
	// Positive marks a contribution strictly greater than zero.
	Positive
	// Total marks the synthesized final step.
	Total
)

var kindNames = map[Kind]string{
	Negative: "negative",
	Positive: "positive",
	Total:    "total",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}

// KindOf returns the kind of a non-total contribution.
// Zero is treated as negative.
func KindOf(value float64) Kind {
	if value > 0 {
		return Positive
	}
	return Negative
}

// Step is one bar of the chart: the running-total interval [Start, End]
// plus the signed contribution that produced it.
type Step struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Kind     Kind    `json:"kind"`
}

// IsTotal reports whether s is the synthesized Total step.
func (s Step) IsTotal() bool { return s.Kind == Total }

// Increasing reports whether the running total does not decrease across s.
func (s Step) Increasing() bool { return s.End >= s.Start }

// Key is the set of types a category accessor may return.
type Key interface {
	~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Calculate turns data into waterfall steps, in input order, followed by a
// Total step. x extracts each point's category and y its signed value; both
// must be total over data.
func Calculate[T any, K Key](data []T, x func(T) K, y func(T) float64) []Step {
	steps := make([]Step, 0, len(data)+1)

	var total float64
	for _, d := range data {
		value := y(d)
		start := total
		total += value
		steps = append(steps, Step{
			Category: FormatKey(x(d)),
			Value:    value,
			Start:    start,
			End:      total,
			Kind:     KindOf(value),
		})
	}

	return append(steps, Step{
		Category: TotalCategory,
		Value:    total,
		Start:    0,
		End:      total,
		Kind:     Total,
	})
}

// FormatKey returns the canonical text of a category key. Floats use the
// shortest representation that round-trips ("23", "1.5").
func FormatKey[K Key](k K) string {
	v := reflect.ValueOf(k)
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	default:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	}
}

// Sum returns the value of the Total step, or 0 if steps has none.
func Sum(steps []Step) float64 {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].IsTotal() {
			return steps[i].Value
		}
	}
	return 0
}

// Categories returns the category of every step in order.
func Categories(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Category
	}
	return out
}

// Bounds returns every step's Start and End value, in step order.
func Bounds(steps []Step) []float64 {
	out := make([]float64, 0, 2*len(steps))
	for _, s := range steps {
		out = append(out, s.Start, s.End)
	}
	return out
}
