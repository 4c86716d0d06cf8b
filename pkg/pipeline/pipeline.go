// Package pipeline provides the spec → figure → artifact pipeline used by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a chart spec file and its data (or take them from Options)
//  2. Build: Decode the chart options, assemble the figure and validate
//     every attribute against the schema catalogue
//  3. Render: Write the figure in the requested formats (JSON, HTML)
//
// Built figures and rendered artifacts are cached by content hash, so
// re-running an unchanged spec skips both the build and the render.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SpecPath: "population.toml",
//	    Formats:  []string{"html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// Run individual stages:
//
//	spec, err := pipeline.LoadSpec("population.toml")
//	fig, hit, err := runner.BuildWithCacheInfo(ctx, req, opts)
//	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, fig, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/errors"
	"github.com/matzehuels/plotcraft/pkg/express"
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/frame"
	"github.com/matzehuels/plotcraft/pkg/render"
)

// DefaultFormat is rendered when neither the options nor the spec name one.
const DefaultFormat = render.FormatHTML

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options. SpecPath is read when Spec is nil.
	SpecPath string `json:"spec_path,omitempty"`
	Spec     *Spec  `json:"spec,omitempty"`

	// Frame replaces the spec's data when set.
	Frame frame.Source `json:"-"`

	// Build options
	Strict  bool `json:"strict,omitempty"`
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Title     string   `json:"title,omitempty"`
	PlotlyURL string   `json:"plotly_url,omitempty"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Spec    *Spec
	Request figure.Request

	// Figure is the built, validated figure.
	Figure *figure.Figure

	// FigureHash is the content hash of the figure JSON.
	FigureHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Notices lists deprecations hit by the run.
	Notices []express.Deprecation

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Traces     int
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FigureHit bool // Whether the figure came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Spec == nil && o.SpecPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "spec or spec path is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRender normalizes the formats. Spec formats apply when the
// options name none.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 && o.Spec != nil {
		o.Formats = o.Spec.Formats
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	formats, err := render.Formats(o.Formats, render.Figure)
	if err != nil {
		return err
	}
	o.Formats = formats
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// FigureKeyOpts returns cache key options for the build stage.
func (o *Options) FigureKeyOpts() cache.FigureKeyOpts {
	return cache.FigureKeyOpts{Strict: o.Strict}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == render.FormatHTML {
		opts.Title = o.Title
		opts.PlotlyURL = o.PlotlyURL
	}
	return opts
}
