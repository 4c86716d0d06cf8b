// Package metrics implements the observability hooks on Prometheus.
//
// A Collector registers its metrics with one registry and satisfies every
// hook interface, so a process wires it in one call:
//
//	m := metrics.New(nil)
//	m.Install()
//	r.Handle("/metrics", m.Handler())
//
// Metrics (namespace "plotcraft"):
//   - builds_total, build_duration_seconds: figure assembly by chart and status
//   - violations_total: rejected attribute values by top-level attribute
//   - deprecations_total: calls to deprecated chart constructors
//   - spec_loads_total, renders_total, render_duration_seconds
//   - cache_hits_total, cache_misses_total, cache_written_bytes_total
//   - http_requests_total, http_request_duration_seconds
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/plotcraft/pkg/observability"
)

const namespace = "plotcraft"

// Collector records hook events as Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	builds        *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	violations    *prometheus.CounterVec
	deprecations  *prometheus.CounterVec

	specLoads      *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	cacheWritten *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ observability.BuildHooks      = (*Collector)(nil)
	_ observability.ValidationHooks = (*Collector)(nil)
	_ observability.PipelineHooks   = (*Collector)(nil)
	_ observability.CacheHooks      = (*Collector)(nil)
	_ observability.HTTPHooks       = (*Collector)(nil)
)

// Figure builds are in-process and fast; renders and requests include I/O.
var (
	buildBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}
	ioBuckets    = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

// New creates a collector registered with registry. A nil registry gets a
// fresh one.
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: name, Help: help,
		}, labels)
	}
	histogram := func(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: name, Help: help, Buckets: buckets,
		}, labels)
	}

	c := &Collector{
		registry:      registry,
		builds:        counter("builds_total", "Figures assembled", "chart", "status"),
		buildDuration: histogram("build_duration_seconds", "Figure assembly time", buildBuckets, "chart"),
		violations:    counter("violations_total", "Attribute values rejected by validators", "attribute"),
		deprecations:  counter("deprecations_total", "Calls to deprecated chart constructors", "function"),

		specLoads:      counter("spec_loads_total", "Chart spec files loaded", "chart", "status"),
		renders:        counter("renders_total", "Pipeline render stages run", "status"),
		renderDuration: histogram("render_duration_seconds", "Pipeline render stage time", ioBuckets),

		cacheHits:    counter("cache_hits_total", "Cache hits", "kind"),
		cacheMisses:  counter("cache_misses_total", "Cache misses", "kind"),
		cacheWritten: counter("cache_written_bytes_total", "Bytes written to the cache", "kind"),

		httpRequests: counter("http_requests_total", "HTTP requests served", "method", "route", "code"),
		httpDuration: histogram("http_request_duration_seconds", "HTTP request latency", ioBuckets, "method", "route"),
	}
	registry.MustRegister(
		c.builds, c.buildDuration, c.violations, c.deprecations,
		c.specLoads, c.renders, c.renderDuration,
		c.cacheHits, c.cacheMisses, c.cacheWritten,
		c.httpRequests, c.httpDuration,
	)
	return c
}

// Install registers c for every hook kind.
func (c *Collector) Install() {
	observability.SetBuildHooks(c)
	observability.SetValidationHooks(c)
	observability.SetPipelineHooks(c)
	observability.SetCacheHooks(c)
	observability.SetHTTPHooks(c)
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (c *Collector) OnBuildStart(context.Context, string) {}

func (c *Collector) OnBuildComplete(_ context.Context, chart string, _ int, d time.Duration, err error) {
	c.builds.WithLabelValues(chart, status(err)).Inc()
	c.buildDuration.WithLabelValues(chart).Observe(d.Seconds())
}

// OnViolation counts by top-level attribute ("bar.marker" for
// "bar.marker.line.width") to bound label cardinality.
func (c *Collector) OnViolation(_ context.Context, path string) {
	c.violations.WithLabelValues(attributeLabel(path)).Inc()
}

func attributeLabel(path string) string {
	parts := strings.SplitN(path, ".", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ".")
}

func (c *Collector) OnDeprecation(_ context.Context, function string) {
	c.deprecations.WithLabelValues(function).Inc()
}

func (c *Collector) OnSpecLoad(_ context.Context, chart string, _ time.Duration, err error) {
	c.specLoads.WithLabelValues(chart, status(err)).Inc()
}

func (c *Collector) OnRenderStart(context.Context, []string) {}

func (c *Collector) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	c.renders.WithLabelValues(status(err)).Inc()
	c.renderDuration.WithLabelValues().Observe(d.Seconds())
}

func (c *Collector) OnCacheHit(_ context.Context, kind string) {
	c.cacheHits.WithLabelValues(kind).Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, kind string) {
	c.cacheMisses.WithLabelValues(kind).Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, kind string, size int) {
	c.cacheWritten.WithLabelValues(kind).Add(float64(size))
}

func (c *Collector) OnRequest(context.Context, string, string) {}

func (c *Collector) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
