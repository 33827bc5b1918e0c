// Package pipeline provides the core layout pipeline for Dockgrid.
//
// This package implements the complete load → compute → render pipeline that
// can be used by CLI, API, and demo components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a grid manifest from a file or inline TOML
//  2. Compute: Resolve pane placements for the requested detached set
//  3. Render: Generate output in various formats (JSON, SVG, text, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ManifestPath: "layout.toml",
//	    Detached:     []string{"sidebar"},
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	def, reg, meta, hash, err := runner.Load(ctx, opts)
//
//	// Compute with an existing definition
//	snap, err := runner.Compute(ctx, def, reg, meta, hash, opts)
//
//	// Render with an existing snapshot
//	artifacts, err := runner.Render(ctx, def, reg, snap, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dockgrid/dockgrid/pkg/cache"
	apperrors "github.com/dockgrid/dockgrid/pkg/errors"
	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/manifest"
	"github.com/dockgrid/dockgrid/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Demo
// =============================================================================

const (
	// DefaultCellSize is the default cell edge length in pixels for SVG output.
	DefaultCellSize = 80

	// DefaultGap is the default gap between panes in pixels for SVG output.
	DefaultGap = 6
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatTxt  = "txt"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatTxt:  true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	ManifestPath string `json:"manifest_path,omitempty"`
	Manifest     string `json:"manifest,omitempty"` // Inline TOML manifest content
	Refresh      bool   `json:"refresh,omitempty"`

	// Compute options
	Detached []string `json:"detached,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	CellSize int      `json:"cell_size,omitempty"`
	Gap      int      `json:"gap,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Definition is the parsed grid definition.
	Definition *grid.Definition

	// Registry holds the pane specs keyed by pane name.
	Registry grid.Registry

	// Meta holds manifest metadata.
	Meta manifest.Meta

	// ManifestHash is the content hash of the manifest.
	ManifestHash string

	// Placements maps each attached pane to its resolved span.
	Placements map[string]grid.Rect

	// Snapshot is the serializable layout state.
	Snapshot snapshot.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PaneCount     int
	DetachedCount int
	LoadTime      time.Duration
	ComputeTime   time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the computed layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, svg, txt, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetComputeDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for manifest loading.
func (o *Options) ValidateForLoad() error {
	if o.ManifestPath == "" && o.Manifest == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "manifest_path or manifest is required")
	}
	if o.ManifestPath != "" && o.Manifest != "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "manifest_path and manifest are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetComputeDefaults normalizes the detached set for computation.
// The set is sorted and deduplicated so equivalent requests share cache keys.
func (o *Options) SetComputeDefaults() {
	if len(o.Detached) > 0 {
		slices.Sort(o.Detached)
		o.Detached = slices.Compact(o.Detached)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetComputeDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Detached: o.Detached,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		CellSize: o.CellSize,
		Gap:      o.Gap,
		Labels:   !o.NoLabels,
	}
}

// Source returns a human-readable description of the manifest source for logs.
func (o *Options) Source() string {
	if o.ManifestPath != "" {
		return o.ManifestPath
	}
	return "<inline>"
}
