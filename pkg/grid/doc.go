// Package grid defines the static shape of a pane layout: a rectangular
// grid of named cells plus the per-pane expansion policy.
//
// # Overview
//
// A layout starts as a 2-D array of optional pane identifiers, the seed
// grid. Each pane occupies one or more cells that must form a single
// rectangle. How a pane may grow beyond its seed, and whether it may claim
// space vacated by detached neighbors, is declared separately in a
// [Registry] of [Spec] values. The dynamic behavior built on top of these
// types lives in the layout package; this package is purely descriptive
// and immutable after construction.
//
// # Basic Usage
//
// Build a definition with [New] and pair it with a registry:
//
//	def, err := grid.New([][]string{
//	    {"left", "main", "right"},
//	    {"left", "",     "right"},
//	})
//	reg := grid.Registry{
//	    "main": {ExpandVertical: true, FillDetached: true, Priority: 10},
//	}
//
// Empty strings mark cells that hold no pane. Panes missing from the
// registry behave as static panes (the zero [Spec]).
//
// # Validation
//
// [New] rejects empty and ragged grids and any pane whose seed cells do
// not form a filled rectangle. [Registry.Validate] rejects specs that
// name panes absent from the grid and negative expansion limits. All of
// these are configuration errors: construction fails and no engine is
// created from the invalid input.
//
// # Concurrency
//
// Definition values are immutable and safe to share. Registry is a plain
// map; callers that mutate one after handing it to an engine get no
// synchronization from this package.
package grid
