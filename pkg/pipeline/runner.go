package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/observability"
	"github.com/matzehuels/plotcraft/pkg/render"
	"github.com/matzehuels/plotcraft/pkg/render/schemagraph"
	"github.com/matzehuels/plotcraft/pkg/schema"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, builder and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Builder assembles figures. Nil means a figure.Assembler over
	// Registry, created per run so Options.Strict applies.
	Builder figure.Builder

	// Registry validates assembled figures and backs SchemaGraph.
	// Nil means schema.Default().
	Registry *schema.Registry
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	loadStart := time.Now()
	spec, err := r.loadSpec(opts)
	chartName := ""
	if spec != nil {
		chartName = spec.Chart
	}
	observability.Pipeline().OnSpecLoad(ctx, chartName, time.Since(loadStart), err)
	if err != nil {
		return nil, err
	}
	opts.Spec = spec
	opts.Strict = opts.Strict || spec.Strict
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Spec: spec}

	// Stage 1: Load
	req, chart, err := Request(spec, opts.Frame)
	if err != nil {
		return nil, err
	}
	if d, ok := chart.Notice(); ok {
		result.Notices = append(result.Notices, d)
	}
	result.Request = req
	result.Stats.LoadTime = time.Since(loadStart)
	if req.Args.Frame != nil {
		result.Stats.Rows = req.Args.Frame.Len()
	}

	r.Logger.Debug("loaded spec",
		"chart", chart.Name,
		"rows", result.Stats.Rows,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	fig, figHit, err := r.BuildWithCacheInfo(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	result.Figure = fig
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Traces = len(fig.Data)
	result.CacheInfo.FigureHit = figHit
	if result.FigureHash, err = fig.Hash(); err != nil {
		return nil, fmt.Errorf("hash figure: %w", err)
	}

	r.Logger.Info("built figure",
		"chart", chart.Name,
		"traces", result.Stats.Traces,
		"cached", figHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, fig, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) loadSpec(opts Options) (*Spec, error) {
	if opts.Spec != nil {
		return opts.Spec, nil
	}
	if opts.SpecPath == "" {
		return nil, fmt.Errorf("invalid options: spec or spec path is required")
	}
	return LoadSpec(opts.SpecPath)
}

// BuildWithCacheInfo assembles the figure for req with caching and returns
// cache hit info. The figure is keyed by the request and its frame data.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, req figure.Request, opts Options) (*figure.Figure, bool, error) {
	r.applyLogger(&opts)

	reqHash, err := RequestHash(req)
	if err != nil {
		return nil, false, fmt.Errorf("hash request: %w", err)
	}
	cacheKey := r.Keyer.FigureKey(reqHash, opts.FigureKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if fig, err := decodeFigure(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "figure")
				return fig, true, nil
			}
			// Undecodable entries fall through and are overwritten.
		}
		observability.Cache().OnCacheMiss(ctx, "figure")
	}

	fig, err := r.builder(opts).Build(ctx, req)
	if err != nil {
		return nil, false, err
	}

	if data, err := fig.JSON(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.FigureTTL); err != nil {
			r.Logger.Warn("cache figure", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "figure", len(data))
		}
	}
	return fig, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, req figure.Request, opts Options) (*figure.Figure, error) {
	fig, _, err := r.BuildWithCacheInfo(ctx, req, opts)
	return fig, err
}

// RenderWithCacheInfo writes fig in every format of opts with caching and
// returns cache hit info. The hit is true only when every format came from
// the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, fig *figure.Figure, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, hit, err := r.render(ctx, fig, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, fig *figure.Figure, opts Options) (map[string][]byte, bool, error) {
	figHash, err := fig.Hash()
	if err != nil {
		return nil, false, fmt.Errorf("hash figure: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(figHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(fig, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(figHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, fig *figure.Figure, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, fig, opts)
	return artifacts, err
}

// SchemaGraph draws the validators under root as DOT or SVG. SVG output
// is cached; DOT is cheap to regenerate.
func (r *Runner) SchemaGraph(ctx context.Context, root, format string, detailed bool) ([]byte, error) {
	formats, err := render.Formats([]string{format}, render.Schema)
	if err != nil {
		return nil, err
	}
	format = formats[0]

	dot, err := schemagraph.ToDOT(r.registry(), root, schemagraph.Options{Detailed: detailed})
	if err != nil {
		return nil, err
	}
	if format == render.FormatDOT {
		return []byte(dot), nil
	}

	cacheKey := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: format})
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "schema")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "schema")

	svg, err := schemagraph.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, cacheKey, svg, cache.ArtifactTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "schema", len(svg))
	}
	return svg, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) builder(opts Options) figure.Builder {
	if r.Builder != nil {
		return r.Builder
	}
	return &figure.Assembler{Registry: r.registry(), Strict: opts.Strict, Logger: opts.Logger}
}

func (r *Runner) registry() *schema.Registry {
	if r.Registry != nil {
		return r.Registry
	}
	return schema.Default()
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
