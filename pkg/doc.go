// Package pkg provides the libraries behind plotcraft, a builder for
// validated plotly figures.
//
// # Overview
//
// plotcraft turns a table of columns plus a handful of chart options into a
// plotly figure document, and checks every attribute of that document
// against a typed catalogue before anything is written. The pkg directory is
// organized into four areas:
//
//  1. [schema] - The attribute catalogue: one validator per attribute path
//  2. [express], [figure], [frame] - Chart constructors and figure assembly
//  3. [cache], [observability] - Infrastructure (caching, hooks, metrics)
//  4. [pipeline], [render], [server] - Orchestration and output
//
// # Architecture
//
// The typical data flow:
//
//	chart spec (TOML/YAML/JSON) + CSV/JSON data
//	         ↓
//	    [pipeline] package (load spec and frame)
//	         ↓
//	    [express] package (chart name → figure request)
//	         ↓
//	    [figure] package (assemble traces and layout)
//	         ↓
//	    [schema] package (validate every attribute)
//	         ↓
//	    [render] package (JSON or standalone HTML)
//
// # Quick Start
//
// Build a bar chart directly:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/plotcraft/pkg/express"
//	    "github.com/matzehuels/plotcraft/pkg/figure"
//	    "github.com/matzehuels/plotcraft/pkg/frame"
//	    "github.com/matzehuels/plotcraft/pkg/schema"
//	)
//
//	tbl, _ := frame.ImportFile("population.csv")
//	chart, _ := express.Lookup("bar")
//	req, _ := chart.Request(tbl, map[string]any{"x": "continent", "y": "pop"})
//
//	asm := &figure.Assembler{Registry: schema.Default()}
//	fig, err := asm.Build(context.Background(), req)
//	if err != nil {
//	    // errors.Violations lists every rejected attribute
//	}
//	data, _ := fig.JSON()
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{SpecPath: "population.toml"})
//
// [schema]: github.com/matzehuels/plotcraft/pkg/schema
// [express]: github.com/matzehuels/plotcraft/pkg/express
// [figure]: github.com/matzehuels/plotcraft/pkg/figure
// [frame]: github.com/matzehuels/plotcraft/pkg/frame
// [cache]: github.com/matzehuels/plotcraft/pkg/cache
// [observability]: github.com/matzehuels/plotcraft/pkg/observability
// [pipeline]: github.com/matzehuels/plotcraft/pkg/pipeline
// [render]: github.com/matzehuels/plotcraft/pkg/render
// [server]: github.com/matzehuels/plotcraft/pkg/server
package pkg
