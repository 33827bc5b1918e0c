// Package layout computes pane placements for a grid definition and keeps
// them current as panes detach and reattach.
//
// # Overview
//
// The engine runs a two-phase pipeline on every state transition:
//
//  1. [BaseSpans] grows each pane from its seed rectangle into
//     originally-empty cells, per its expansion flags. This phase ignores
//     detachment entirely, so base rectangles never shift when neighbors
//     come and go.
//  2. [ResolveVacancies] removes detached panes from the map and offers
//     each vacated seed rectangle to adjacent FillDetached panes, in a
//     fixed greedy order, subject to per-direction limits.
//
// The result is a map from pane identifier to [grid.Rect] covering
// attached panes only. Placements are value data: the map is rebuilt in
// full on every transition and handed out as a copy.
//
// # Usage
//
// Stateful, via [Engine]:
//
//	eng, err := layout.New(def, reg)
//	eng.Detach("main")
//	placements := eng.Placements()
//
// Or one-shot, via [Compute]:
//
//	placements, err := layout.Compute(def, reg, []string{"main"})
//
// # Guarantees
//
// For any sequence of transitions: placements stay inside the grid, no
// two attached panes overlap, detach followed by attach restores the
// previous map exactly, and repeated transitions to the same state are
// no-ops. A vacancy no candidate can cover stays blank; that is a valid
// outcome, not an error.
//
// # Concurrency
//
// Engines are single-threaded with no internal locking. Embeddings that
// share one across goroutines must wrap every call in the same mutex.
package layout
