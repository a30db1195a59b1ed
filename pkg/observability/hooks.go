// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup. Set* replaces the hooks of one
// category; [Install] adds a value for every category it implements, so a
// logger and a [Stats] counter can observe the same events:
//
//	stats := &observability.Stats{}
//	observability.Install(observability.NewLogHooks(logger))
//	observability.Install(stats)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStepsStart(ctx, len(points))
//	// ... compute steps ...
//	observability.Pipeline().OnStepsComplete(ctx, len(steps), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the chart pipeline.
type PipelineHooks interface {
	// Step calculation events
	OnStepsStart(ctx context.Context, points int)
	OnStepsComplete(ctx context.Context, steps int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, steps int)
	OnLayoutComplete(ctx context.Context, elements int, duration time.Duration, err error)

	// Render events
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

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStepsStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnStepsComplete(context.Context, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
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
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var registry = struct {
	sync.RWMutex
	pipeline []PipelineHooks
	cache    []CacheHooks
	http     []HTTPHooks
}{}

// SetPipelineHooks replaces all registered pipeline hooks with h.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.pipeline = []PipelineHooks{h}
}

// SetCacheHooks replaces all registered cache hooks with h.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.cache = []CacheHooks{h}
}

// SetHTTPHooks replaces all registered HTTP hooks with h.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.http = []HTTPHooks{h}
}

// Install adds h alongside the hooks already registered, once for every hook
// interface it implements. It reports whether h implemented any of them.
//
//	observability.Install(observability.NewLogHooks(logger))
//	observability.Install(stats)
func Install(h any) bool {
	registry.Lock()
	defer registry.Unlock()
	installed := false
	if p, ok := h.(PipelineHooks); ok {
		registry.pipeline = append(registry.pipeline, p)
		installed = true
	}
	if c, ok := h.(CacheHooks); ok {
		registry.cache = append(registry.cache, c)
		installed = true
	}
	if x, ok := h.(HTTPHooks); ok {
		registry.http = append(registry.http, x)
		installed = true
	}
	return installed
}

// Pipeline returns the registered pipeline hooks.
// Several registrations are combined into one fan-out value.
func Pipeline() PipelineHooks {
	registry.RLock()
	defer registry.RUnlock()
	switch len(registry.pipeline) {
	case 0:
		return NoopPipelineHooks{}
	case 1:
		return registry.pipeline[0]
	}
	return pipelineFanout(registry.pipeline)
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	switch len(registry.cache) {
	case 0:
		return NoopCacheHooks{}
	case 1:
		return registry.cache[0]
	}
	return cacheFanout(registry.cache)
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	registry.RLock()
	defer registry.RUnlock()
	switch len(registry.http) {
	case 0:
		return NoopHTTPHooks{}
	case 1:
		return registry.http[0]
	}
	return httpFanout(registry.http)
}

// Reset removes every registered hook.
// This is primarily useful for testing.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.pipeline = nil
	registry.cache = nil
	registry.http = nil
}

// =============================================================================
// Fan-out
// =============================================================================

// Registration only appends or replaces, so fan-out values already handed
// out never change.

type pipelineFanout []PipelineHooks

func (f pipelineFanout) OnStepsStart(ctx context.Context, points int) {
	for _, h := range f {
		h.OnStepsStart(ctx, points)
	}
}

func (f pipelineFanout) OnStepsComplete(ctx context.Context, steps int, d time.Duration, err error) {
	for _, h := range f {
		h.OnStepsComplete(ctx, steps, d, err)
	}
}

func (f pipelineFanout) OnLayoutStart(ctx context.Context, steps int) {
	for _, h := range f {
		h.OnLayoutStart(ctx, steps)
	}
}

func (f pipelineFanout) OnLayoutComplete(ctx context.Context, elements int, d time.Duration, err error) {
	for _, h := range f {
		h.OnLayoutComplete(ctx, elements, d, err)
	}
}

func (f pipelineFanout) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range f {
		h.OnRenderStart(ctx, formats)
	}
}

func (f pipelineFanout) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range f {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

type cacheFanout []CacheHooks

func (f cacheFanout) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheHit(ctx, keyType)
	}
}

func (f cacheFanout) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (f cacheFanout) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range f {
		h.OnCacheSet(ctx, keyType, size)
	}
}

type httpFanout []HTTPHooks

func (f httpFanout) OnRequest(ctx context.Context, method, path string) {
	for _, h := range f {
		h.OnRequest(ctx, method, path)
	}
}

func (f httpFanout) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	for _, h := range f {
		h.OnResponse(ctx, method, path, status, d)
	}
}

func (f httpFanout) OnError(ctx context.Context, method, path string, err error) {
	for _, h := range f {
		h.OnError(ctx, method, path, err)
	}
}
