package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dockgrid/dockgrid/pkg/cache"
	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/layout"
	"github.com/dockgrid/dockgrid/pkg/manifest"
	"github.com/dockgrid/dockgrid/pkg/observability"
	"github.com/dockgrid/dockgrid/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Execute runs the complete load → compute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	def, reg, meta, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Definition = def
	result.Registry = reg
	result.Meta = meta
	result.ManifestHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.PaneCount = len(reg)
	result.Stats.DetachedCount = len(opts.Detached)

	r.Logger.Info("loaded manifest",
		"source", opts.Source(),
		"panes", len(reg),
		"grid", fmt.Sprintf("%dx%d", def.Rows(), def.Cols()),
		"duration", result.Stats.LoadTime)

	// Stage 2: Compute
	computeStart := time.Now()
	snap, computeHit, err := r.ComputeWithCacheInfo(ctx, def, reg, meta, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Snapshot = snap
	result.Placements = snap.Placements()
	result.Stats.ComputeTime = time.Since(computeStart)
	result.CacheInfo.ComputeHit = computeHit

	r.Logger.Info("computed layout",
		"panes", len(snap.Panes),
		"detached", len(snap.Detached),
		"duration", result.Stats.ComputeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, def, reg, snap, opts)
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

// Load parses the manifest from the configured source and returns the
// definition, registry, metadata, and the manifest content hash.
func (r *Runner) Load(ctx context.Context, opts Options) (*grid.Definition, grid.Registry, manifest.Meta, string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, manifest.Meta{}, "", err
	}
	r.applyLogger(&opts)

	source := opts.Source()
	observability.Pipeline().OnLoadStart(ctx, source)
	start := time.Now()

	data := []byte(opts.Manifest)
	if opts.ManifestPath != "" {
		var err error
		data, err = os.ReadFile(opts.ManifestPath)
		if err != nil {
			observability.Pipeline().OnLoadComplete(ctx, source, 0, time.Since(start), err)
			return nil, nil, manifest.Meta{}, "", fmt.Errorf("read manifest: %w", err)
		}
	}

	def, reg, meta, err := manifest.Parse(data)
	observability.Pipeline().OnLoadComplete(ctx, source, len(reg), time.Since(start), err)
	if err != nil {
		return nil, nil, manifest.Meta{}, "", err
	}

	return def, reg, meta, cache.Hash(data), nil
}

// ComputeWithCacheInfo resolves pane placements with caching and returns cache hit info.
// The cached value is the serialized snapshot, keyed by manifest hash and detached set.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, def *grid.Definition, reg grid.Registry, meta manifest.Meta, manifestHash string, opts Options) (snapshot.Snapshot, bool, error) {
	opts.SetComputeDefaults()
	r.applyLogger(&opts)

	observability.Pipeline().OnComputeStart(ctx, len(reg), len(opts.Detached))
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(manifestHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			snap, err := snapshot.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				observability.Pipeline().OnComputeComplete(ctx, time.Since(start), nil)
				return snap, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Compute
	engine, err := layout.New(def, reg)
	if err != nil {
		observability.Pipeline().OnComputeComplete(ctx, time.Since(start), err)
		return snapshot.Snapshot{}, false, err
	}
	for _, pane := range opts.Detached {
		if err := engine.Detach(pane); err != nil {
			observability.Pipeline().OnComputeComplete(ctx, time.Since(start), err)
			return snapshot.Snapshot{}, false, fmt.Errorf("detach %s: %w", pane, err)
		}
	}
	snap := snapshot.Capture(engine, meta.Name, manifestHash)

	// Cache the result
	if data, err := snapshot.Marshal(snap); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	observability.Pipeline().OnComputeComplete(ctx, time.Since(start), nil)
	return snap, false, nil // Cache miss
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, def *grid.Definition, reg grid.Registry, meta manifest.Meta, manifestHash string, opts Options) (snapshot.Snapshot, error) {
	snap, _, err := r.ComputeWithCacheInfo(ctx, def, reg, meta, manifestHash, opts)
	return snap, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, def *grid.Definition, reg grid.Registry, snap snapshot.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from snapshot data
	snapData, err := snapshot.Marshal(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	layoutHash := cache.Hash(snapData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	} else {
		allCached = false
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := renderFormats(def, reg, snap, snapData, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, def *grid.Definition, reg grid.Registry, snap snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, def, reg, snap, opts)
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
