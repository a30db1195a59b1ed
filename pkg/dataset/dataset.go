package dataset

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Default field names used when a dataset does not name its own.
const (
	DefaultX = "category"
	DefaultY = "value"
)

// MaxPoints bounds the number of records in one dataset.
const MaxPoints = 10000

// Record is one data point as decoded from a file or request body.
type Record map[string]any

// Dataset is a list of records plus the names of the category and value fields.
type Dataset struct {
	Label string   `json:"label,omitempty" toml:"label"`
	X     string   `json:"x,omitempty" toml:"x"`
	Y     string   `json:"y,omitempty" toml:"y"`
	Data  []Record `json:"data" toml:"data"`
}

// SetDefaults fills empty field names with [DefaultX] and [DefaultY].
func (d *Dataset) SetDefaults() {
	if d.X == "" {
		d.X = DefaultX
	}
	if d.Y == "" {
		d.Y = DefaultY
	}
}

// Validate checks the field names, every record, and that the running
// total stays finite.
// Errors carry the INVALID_INPUT or INVALID_DATA code.
func (d *Dataset) Validate() error {
	if err := errors.ValidateFieldName(d.X); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "x field")
	}
	if err := errors.ValidateFieldName(d.Y); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "y field")
	}
	if len(d.Data) > MaxPoints {
		return errors.New(errors.ErrCodeInvalidData, "too many points: %d (max %d)", len(d.Data), MaxPoints)
	}
	var total float64
	for i, r := range d.Data {
		if r == nil {
			return errors.New(errors.ErrCodeInvalidData, "point %d: not an object", i)
		}
		raw, ok := r[d.X]
		if !ok {
			return errors.New(errors.ErrCodeInvalidData, "point %d: missing field %q", i, d.X)
		}
		if _, ok := category(raw); !ok {
			return errors.New(errors.ErrCodeInvalidData, "point %d: field %q must be a string or number, got %T", i, d.X, raw)
		}
		raw, ok = r[d.Y]
		if !ok {
			return errors.New(errors.ErrCodeInvalidData, "point %d: missing field %q", i, d.Y)
		}
		v, ok := number(raw)
		if !ok {
			return errors.New(errors.ErrCodeInvalidData, "point %d: field %q must be a number, got %T", i, d.Y, raw)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidData, "point %d: field %q must be finite", i, d.Y)
		}
		if total += v; math.IsInf(total, 0) {
			return errors.New(errors.ErrCodeInvalidData, "point %d: running total overflows", i)
		}
	}
	return nil
}

// Category returns the record's category text. Invalid records yield "".
func (d *Dataset) Category(r Record) string {
	s, _ := category(r[d.X])
	return s
}

// Value returns the record's value. Invalid records yield 0.
func (d *Dataset) Value(r Record) float64 {
	v, _ := number(r[d.Y])
	return v
}

// Steps validates the dataset and computes its waterfall steps.
func (d *Dataset) Steps() ([]waterfall.Step, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return waterfall.Calculate(d.Data, d.Category, d.Value), nil
}

func category(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return waterfall.FormatKey(i), true
		}
		if f, err := x.Float64(); err == nil {
			return waterfall.FormatKey(f), true
		}
		return "", false
	case float64:
		return waterfall.FormatKey(x), true
	case float32:
		return waterfall.FormatKey(x), true
	case int:
		return waterfall.FormatKey(x), true
	case int64:
		return waterfall.FormatKey(x), true
	case int32:
		return waterfall.FormatKey(x), true
	case uint:
		return waterfall.FormatKey(x), true
	case uint64:
		return waterfall.FormatKey(x), true
	}
	return "", false
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		return f, err == nil
	}
	return 0, false
}
