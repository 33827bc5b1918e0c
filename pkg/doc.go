// Package pkg provides the core libraries for Dockgrid pane layout
// computation.
//
// # Overview
//
// Dockgrid computes dockable pane layouts: panes are declared on a cell
// grid, expand from their seed rectangles into empty space, and when a
// pane is detached its neighbors claim the vacancy according to per-pane
// policies. The pkg directory is organized into four main areas:
//
//  1. [grid] and [layout] - Domain logic (grid model, span computation,
//     vacancy resolution, attachment state machine)
//  2. [manifest] and [snapshot] - Serialization (TOML manifests in,
//     JSON snapshots out)
//  3. [render] - Output renderers (SVG, terminal, claim graphs)
//  4. [pipeline] - Orchestration (load → compute → render) with caching
//
// # Architecture
//
// The typical data flow through Dockgrid:
//
//	TOML manifest
//	         ↓
//	    [manifest] package (parse grid + pane policies)
//	         ↓
//	    [layout] package (base spans + vacancy resolution)
//	         ↓
//	    [render] package (SVG / terminal / claim graph)
//	         ↓
//	    SVG/text/JSON/DOT output
//
// # Quick Start
//
// Load a manifest, detach a pane, and render the result:
//
//	import (
//	    "github.com/dockgrid/dockgrid/pkg/layout"
//	    "github.com/dockgrid/dockgrid/pkg/manifest"
//	    "github.com/dockgrid/dockgrid/pkg/render/svg"
//	)
//
//	// 1. Parse the manifest
//	def, reg, _, _ := manifest.Load("layout.toml")
//
//	// 2. Build the engine and detach a pane
//	engine, _ := layout.New(def, reg)
//	_ = engine.Detach("sidebar")
//
//	// 3. Render the current placements
//	img := svg.Render(def, engine.Placements())
//
// # Main Packages
//
// ## Core Domain Logic
//
// [grid] - The grid model: definitions parsed from cell matrices, seed
// rectangles, pane policies (expansion flags, claim limits, priority).
//
// [layout] - Span computation and the attachment engine. Base spans
// expand panes into originally-empty cells; vacancy resolution lets
// neighbors claim the space of detached panes.
//
// ## Serialization
//
// [manifest] - TOML manifest parsing and canonical re-encoding.
//
// [snapshot] - The serialized form of a computed layout, used by the CLI
// output, the HTTP API, and session storage.
//
// ## Visualization
//
// [render/svg] - Scalable vector output.
//
// [render/term] - Box-drawing output for terminals, built on lipgloss.
//
// [render/claim] - Claim graphs rendered through Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Complete layout pipeline (load → compute → render) used by
// CLI and HTTP server. Ensures consistent behavior across entry points.
//
// [cache] - Cache interface with file, Redis, and null implementations,
// plus content-addressed key derivation.
//
// [session] - Per-client layout state for the HTTP server. Memory, file,
// and MongoDB backends.
//
// [errors] - Structured error codes shared by CLI and API surfaces.
//
// [observability] - Hook interfaces for instrumenting engine transitions,
// pipeline stages, and cache traffic.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [grid]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/grid
// [layout]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/layout
// [manifest]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/manifest
// [snapshot]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/snapshot
// [render]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/render/svg
// [render/term]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/render/term
// [render/claim]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/render/claim
// [pipeline]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/cache
// [session]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/session
// [errors]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/dockgrid/dockgrid/pkg/observability
package pkg
