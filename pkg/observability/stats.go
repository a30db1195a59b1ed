package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Stats counts pipeline, cache and HTTP events in process. It is safe for
// concurrent use; the zero value is ready.
type Stats struct {
	NoopPipelineHooks

	renders     atomic.Int64
	renderFails atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheWrites atomic.Int64
	cacheBytes  atomic.Int64
	requests    atomic.Int64
	serverErrs  atomic.Int64
}

// StatsSnapshot is a point-in-time copy of [Stats].
type StatsSnapshot struct {
	Renders      int64 `json:"renders"`
	RenderErrors int64 `json:"render_errors"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CacheWrites  int64 `json:"cache_writes"`
	CacheBytes   int64 `json:"cache_bytes"`
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

// HitRate returns the fraction of cache lookups that hit, or 0 before any.
func (s StatsSnapshot) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Renders:      s.renders.Load(),
		RenderErrors: s.renderFails.Load(),
		CacheHits:    s.cacheHits.Load(),
		CacheMisses:  s.cacheMisses.Load(),
		CacheWrites:  s.cacheWrites.Load(),
		CacheBytes:   s.cacheBytes.Load(),
		Requests:     s.requests.Load(),
		ServerErrors: s.serverErrs.Load(),
	}
}

func (s *Stats) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err != nil {
		s.renderFails.Add(1)
		return
	}
	s.renders.Add(1)
}

func (s *Stats) OnCacheHit(context.Context, string)  { s.cacheHits.Add(1) }
func (s *Stats) OnCacheMiss(context.Context, string) { s.cacheMisses.Add(1) }

func (s *Stats) OnCacheSet(_ context.Context, _ string, size int) {
	s.cacheWrites.Add(1)
	s.cacheBytes.Add(int64(size))
}

func (s *Stats) OnRequest(context.Context, string, string) { s.requests.Add(1) }

// OnResponse counts 5xx responses; client errors are the caller's problem.
func (s *Stats) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		s.serverErrs.Add(1)
	}
}

func (s *Stats) OnError(context.Context, string, string, error) {}

var (
	_ PipelineHooks = (*Stats)(nil)
	_ CacheHooks    = (*Stats)(nil)
	_ HTTPHooks     = (*Stats)(nil)
)
