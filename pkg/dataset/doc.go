// Package dataset reads waterfall input data from JSON and TOML files.
//
// # Format
//
// A dataset names the record fields that hold each point's category and
// value, plus an optional label used for the value axis:
//
//	{
//	  "label": "Earnings",
//	  "x": "month",
//	  "y": "earnings",
//	  "data": [
//	    {"month": "Jan", "earnings": 23},
//	    {"month": "Feb", "earnings": 18}
//	  ]
//	}
//
// A bare JSON array of records is also accepted; its fields default to
// [DefaultX] and [DefaultY]. The TOML form uses the same keys with a
// [[data]] array of tables.
//
// # Validation
//
// [Dataset.Validate] checks every record before any computation runs: the
// category field must hold a string or number, and the value field must hold
// a finite number. After validation the [Dataset.Category] and
// [Dataset.Value] accessors are total, so they can be handed directly to
// waterfall.Calculate.
package dataset
