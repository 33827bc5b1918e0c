// Package cache provides caching for computed layouts and rendered artifacts.
//
// The package defines a backend-agnostic [Cache] interface with three
// implementations:
//   - FileCache: hash-sharded JSON files for CLI usage
//   - RedisCache: shared cache for the preview server
//   - NullCache: caching disabled
//
// Cache keys are produced by a [Keyer] so that every consumer (CLI, server,
// pipeline) derives identical keys for identical inputs. Keys hash the
// manifest content together with the options that affect the result, so a
// changed manifest or a different detached set never collides with a stale
// entry.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cache entry kinds.
const (
	// TTLLayout is how long computed placement maps are cached.
	TTLLayout = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (SVG, DOT, text) are cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is the interface for cache backends.
//
// Get returns the cached data and whether the key was present. A miss is
// not an error; errors indicate backend failures (I/O, network).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the options that affect a computed placement map.
type LayoutKeyOpts struct {
	Detached []string // detached panes, sorted by the caller
}

// ArtifactKeyOpts are the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string
	CellSize int
	Gap      int
	Labels   bool
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey generates a key for a computed placement map.
	LayoutKey(manifestHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed placement map.
func (k *DefaultKeyer) LayoutKey(manifestHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", manifestHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
