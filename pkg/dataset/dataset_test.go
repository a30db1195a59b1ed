package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

func TestSetDefaults(t *testing.T) {
	ds := Dataset{}
	ds.SetDefaults()
	if ds.X != DefaultX || ds.Y != DefaultY {
		t.Errorf("defaults = %q/%q, want %q/%q", ds.X, ds.Y, DefaultX, DefaultY)
	}

	ds = Dataset{X: "month", Y: "earnings"}
	ds.SetDefaults()
	if ds.X != "month" || ds.Y != "earnings" {
		t.Errorf("SetDefaults overwrote explicit fields: %q/%q", ds.X, ds.Y)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    []Record
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", []Record{{"m": "Jan", "v": 23.0}}, false},
		{"int value", []Record{{"m": "Jan", "v": int64(4)}}, false},
		{"json number", []Record{{"m": json.Number("7"), "v": json.Number("-1.5")}}, false},
		{"numeric category", []Record{{"m": 2024.0, "v": 1.0}}, false},
		{"nil record", []Record{nil}, true},
		{"missing category", []Record{{"v": 1.0}}, true},
		{"missing value", []Record{{"m": "Jan"}}, true},
		{"string value", []Record{{"m": "Jan", "v": "23"}}, true},
		{"bool category", []Record{{"m": true, "v": 1.0}}, true},
		{"nan value", []Record{{"m": "Jan", "v": math.NaN()}}, true},
		{"inf value", []Record{{"m": "Jan", "v": math.Inf(-1)}}, true},
		{"running total overflows", []Record{{"m": "a", "v": 1e308}, {"m": "b", "v": 1e308}}, true},
		{"running total underflows", []Record{{"m": "a", "v": -1e308}, {"m": "b", "v": -1e308}}, true},
		{"large values cancel", []Record{{"m": "a", "v": 1e308}, {"m": "b", "v": -1e308}, {"m": "c", "v": 1e308}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Dataset{X: "m", Y: "v", Data: tt.data}
			err := ds.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidData) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidData)
			}
		})
	}
}

func TestValidateFieldNames(t *testing.T) {
	ds := Dataset{X: "", Y: "v"}
	if err := ds.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty x field: got %v, want INVALID_INPUT", err)
	}
}

func TestValidateTooManyPoints(t *testing.T) {
	data := make([]Record, MaxPoints+1)
	for i := range data {
		data[i] = Record{"c": "a", "v": 1.0}
	}
	ds := Dataset{X: "c", Y: "v", Data: data}
	if err := ds.Validate(); !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("got %v, want INVALID_DATA", err)
	}
}

func TestCategory(t *testing.T) {
	ds := Dataset{X: "c"}
	tests := []struct {
		in   any
		want string
	}{
		{"Jan", "Jan"},
		{23.0, "23"},
		{1.5, "1.5"},
		{int64(7), "7"},
		{json.Number("12"), "12"},
		{json.Number("1.50"), "1.5"},
		{true, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := ds.Category(Record{"c": tt.in}); got != tt.want {
			t.Errorf("Category(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValue(t *testing.T) {
	ds := Dataset{Y: "v"}
	tests := []struct {
		in   any
		want float64
	}{
		{23.0, 23},
		{-14, -14},
		{int64(5), 5},
		{float32(0.5), 0.5},
		{json.Number("-2.25"), -2.25},
		{"12", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := ds.Value(Record{"v": tt.in}); got != tt.want {
			t.Errorf("Value(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSteps(t *testing.T) {
	ds := Dataset{X: "month", Y: "earnings", Data: []Record{
		{"month": "Jan", "earnings": 23.0},
		{"month": "Feb", "earnings": -14.0},
	}}
	steps, err := ds.Steps()
	if err != nil {
		t.Fatalf("Steps: %v", err)
	}

	want := []waterfall.Step{
		{Category: "Jan", Value: 23, Start: 0, End: 23, Kind: waterfall.Positive},
		{Category: "Feb", Value: -14, Start: 23, End: 9, Kind: waterfall.Negative},
		{Category: "Total", Value: 9, Start: 0, End: 9, Kind: waterfall.Total},
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, steps[i], want[i])
		}
	}
}

func TestStepsInvalid(t *testing.T) {
	ds := Dataset{X: "month", Y: "earnings", Data: []Record{{"month": "Jan"}}}
	if _, err := ds.Steps(); err == nil {
		t.Error("Steps should reject invalid records")
	}
}

func TestStepsEmpty(t *testing.T) {
	ds := Dataset{X: "c", Y: "v"}
	steps, err := ds.Steps()
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 1 || steps[0] != (waterfall.Step{Category: "Total", Kind: waterfall.Total}) {
		t.Errorf("empty dataset steps = %+v", steps)
	}
}
