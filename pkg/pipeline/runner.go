package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/dataset"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Cache key types reported to observability hooks.
const (
	keyTypeSteps    = "steps"
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete steps → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Steps
	stepsStart := time.Now()
	steps, stepsHit, err := r.ComputeStepsWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("steps: %w", err)
	}
	result.Steps = steps
	if result.StepsHash, err = hashSteps(steps); err != nil {
		return nil, err
	}
	result.Stats.PointCount = len(ds.Data)
	result.Stats.StepsTime = time.Since(stepsStart)
	result.CacheInfo.StepsHit = stepsHit

	r.Logger.Info("computed steps",
		"points", len(ds.Data),
		"steps", len(steps),
		"duration", result.Stats.StepsTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, steps, ds.Label, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.ElementCount = len(l.Elements)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"elements", len(l.Elements),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeStepsWithCacheInfo validates the dataset and computes its steps with
// caching. Field overrides in opts are applied to a copy of ds.
func (r *Runner) ComputeStepsWithCacheInfo(ctx context.Context, ds *dataset.Dataset, opts Options) (steps []waterfall.Step, hit bool, err error) {
	if ds == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if err := opts.ValidateForSteps(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	work := *ds
	if opts.X != "" {
		work.X = opts.X
	}
	if opts.Y != "" {
		work.Y = opts.Y
	}
	work.SetDefaults()

	hooks := observability.Pipeline()
	hooks.OnStepsStart(ctx, len(work.Data))
	start := time.Now()
	defer func() { hooks.OnStepsComplete(ctx, len(steps), time.Since(start), err) }()

	// Compute cache key
	dataHash, err := cache.HashJSON(work.Data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidData, err, "dataset is not serializable")
	}
	cacheKey := r.Keyer.StepsKey(dataHash, cache.StepsKeyOpts{X: work.X, Y: work.Y})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var cached []waterfall.Step
		if r.lookup(ctx, keyTypeSteps, cacheKey, &cached) {
			return cached, true, nil
		}
	}

	steps, err = work.Steps()
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, keyTypeSteps, cacheKey, steps, cache.TTLSteps)
	return steps, false, nil
}

// ComputeSteps is a convenience wrapper that calls ComputeStepsWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeSteps(ctx context.Context, ds *dataset.Dataset, opts Options) ([]waterfall.Step, error) {
	steps, _, err := r.ComputeStepsWithCacheInfo(ctx, ds, opts)
	return steps, err
}

// ComputeLayoutWithCacheInfo lays out steps with caching and returns cache hit info.
// label becomes the y-axis caption unless opts.Label overrides it.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, steps []waterfall.Step, label string, opts Options) (l layout.Layout, hit bool, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(steps))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, len(l.Elements), time.Since(start), err) }()

	stepsHash, err := hashSteps(steps)
	if err != nil {
		return layout.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(stepsHash, opts.LayoutKeyOpts(label))

	if !opts.Refresh {
		var cached layout.Layout
		if r.lookup(ctx, keyTypeLayout, cacheKey, &cached) {
			return cached, true, nil
		}
	}

	l = layout.Build(steps, opts.Width, opts.Height, opts.LayoutOptions(label)...)
	if l.Empty() {
		opts.Logger.Debug("empty layout", "width", opts.Width, "height", opts.Height, "steps", len(steps))
	}

	r.store(ctx, keyTypeLayout, cacheKey, l, cache.TTLLayout)
	return l, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, steps []waterfall.Step, label string, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, steps, label, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit is reported only when every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	// Compute cache key from layout data
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, ok := r.get(ctx, keyTypeArtifact, key)
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	artifacts, err = Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// get reads a raw entry. Cache errors are logged and treated as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// lookup reads and decodes a JSON entry. Undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	data, ok := r.get(ctx, keyType, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "type", keyType, "error", err)
		return false
	}
	return true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.set(ctx, keyType, key, data, ttl)
}

// hashSteps returns the content hash of steps. Steps holding NaN or an
// infinity cannot be encoded and are rejected as INVALID_DATA.
func hashSteps(steps []waterfall.Step) (string, error) {
	h, err := cache.HashJSON(steps)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidData, err, "steps are not serializable")
	}
	return h, nil
}
