// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through hook interfaces without
// depending on a concrete metrics backend. The process that owns the
// backend registers implementations at startup; until then every hook is a
// no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New(prometheus.DefaultRegisterer)
//	    observability.SetBuildHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnBuildStart(ctx, "scatter")
//	// ... assemble figure ...
//	observability.Build().OnBuildComplete(ctx, "scatter", 1, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from figure assembly.
type BuildHooks interface {
	OnBuildStart(ctx context.Context, chart string)
	OnBuildComplete(ctx context.Context, chart string, traces int, duration time.Duration, err error)
}

// =============================================================================
// Validation Hooks
// =============================================================================

// ValidationHooks receives attribute validation events.
type ValidationHooks interface {
	// OnViolation records one rejected attribute value.
	OnViolation(ctx context.Context, path string)

	// OnDeprecation records the use of a deprecated chart constructor.
	OnDeprecation(ctx context.Context, function string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the spec-to-artifact pipeline.
type PipelineHooks interface {
	OnSpecLoad(ctx context.Context, chart string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request for a route pattern.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response written for a route pattern.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string)                               {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}

// NoopValidationHooks is a no-op implementation of ValidationHooks.
type NoopValidationHooks struct{}

func (NoopValidationHooks) OnViolation(context.Context, string)   {}
func (NoopValidationHooks) OnDeprecation(context.Context, string) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSpecLoad(context.Context, string, time.Duration, error)         {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	buildHooks      BuildHooks      = NoopBuildHooks{}
	validationHooks ValidationHooks = NoopValidationHooks{}
	pipelineHooks   PipelineHooks   = NoopPipelineHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any figure is built.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetValidationHooks registers custom validation hooks.
func SetValidationHooks(h ValidationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		validationHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Validation returns the registered validation hooks.
func Validation() ValidationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return validationHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	validationHooks = NoopValidationHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
