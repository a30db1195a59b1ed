// Package pkg provides the core libraries for Waterfall running-total charts.
//
// # Overview
//
// Waterfall turns a series of signed contributions into a chart: one
// floating bar per contribution, starting where the previous one ended,
// plus a final bar for the total. The pkg directory is organized into
// four main areas:
//
//  1. [waterfall] and [dataset] - Domain logic (steps, records, accessors)
//  2. [scale] and [layout] - Geometry (band and linear scales, chart layout)
//  3. [render] - Visualization (styles, SVG/PNG/PDF/JSON sinks)
//  4. [pipeline] - Orchestration (steps → layout → render, with caching)
//
// Supporting packages: [cache] stores intermediate results in memory, on
// disk, in Redis or in MongoDB; [config] loads TOML settings; [errors]
// carries machine-readable codes; [observability] exposes hooks.
//
// # Architecture
//
// The typical data flow through Waterfall:
//
//	JSON/TOML dataset
//	         ↓
//	    [dataset] package (records + x/y accessors)
//	         ↓
//	    [waterfall] package (running totals + Total step)
//	         ↓
//	    [layout] package (bars, connectors, labels, axes)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON output)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/waterfall/pkg/dataset"
//	    "github.com/matzehuels/waterfall/pkg/pipeline"
//	)
//
//	ds, _ := dataset.Import("earnings.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(context.Background(), ds, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// [waterfall]: github.com/matzehuels/waterfall/pkg/waterfall
// [dataset]: github.com/matzehuels/waterfall/pkg/dataset
// [scale]: github.com/matzehuels/waterfall/pkg/scale
// [layout]: github.com/matzehuels/waterfall/pkg/layout
// [render]: github.com/matzehuels/waterfall/pkg/render
// [render/sink]: github.com/matzehuels/waterfall/pkg/render/sink
// [pipeline]: github.com/matzehuels/waterfall/pkg/pipeline
// [cache]: github.com/matzehuels/waterfall/pkg/cache
// [config]: github.com/matzehuels/waterfall/pkg/config
// [errors]: github.com/matzehuels/waterfall/pkg/errors
// [observability]: github.com/matzehuels/waterfall/pkg/observability
package pkg
