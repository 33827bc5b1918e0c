package layout

import (
	"errors"
	"fmt"
	"maps"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

var (
	// ErrNilDefinition is returned by [New] and [Compute] when no grid
	// definition is supplied.
	ErrNilDefinition = errors.New("grid definition must not be nil")

	// ErrUnknownPane is returned by [Engine.Attach], [Engine.Detach], and
	// [Engine.State] when the pane identifier does not exist in the grid.
	// The call is rejected and no state changes.
	ErrUnknownPane = errors.New("pane does not exist in the layout")
)

// State is a pane's attachment state.
type State int

const (
	// Attached panes occupy a rectangle in the placement map.
	Attached State = iota
	// Detached panes live on a separate surface and vacate their seed
	// rectangle for neighbors to claim.
	Detached
)

// String returns "attached" or "detached".
func (s State) String() string {
	if s == Detached {
		return "detached"
	}
	return "attached"
}

// Engine tracks each pane's attachment state and keeps the placement map
// current. Every successful transition recomputes placements synchronously
// before returning, so callers always observe a consistent map; the map is
// rebuilt from the immutable base spans each time, never patched in place.
//
// An Engine is single-threaded and performs no I/O. It holds no internal
// locks: embeddings that call it from several goroutines must serialize
// access with one mutex around the whole instance.
type Engine struct {
	def      *grid.Definition
	reg      grid.Registry
	base     map[string]grid.Rect
	current  map[string]grid.Rect
	detached map[string]bool
}

// New validates the registry against the definition, computes the initial
// placement (all panes attached), and returns a ready engine. Validation
// failures are configuration errors and no engine is created.
func New(def *grid.Definition, reg grid.Registry) (*Engine, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}
	if err := reg.Validate(def); err != nil {
		return nil, err
	}
	e := &Engine{
		def:      def,
		reg:      maps.Clone(reg),
		detached: make(map[string]bool),
	}
	e.base = BaseSpans(def, e.reg)
	e.current = maps.Clone(e.base)
	return e, nil
}

// Detach transitions the pane to Detached and recomputes placements.
// Detaching an already-detached pane is a no-op that leaves the placement
// map untouched. Unknown panes are rejected with [ErrUnknownPane].
func (e *Engine) Detach(pane string) error {
	if !e.def.Has(pane) {
		return fmt.Errorf("%w: %q", ErrUnknownPane, pane)
	}
	if e.detached[pane] {
		return nil
	}
	e.detached[pane] = true
	e.recompute()
	return nil
}

// Attach transitions the pane back to Attached and recomputes placements.
// Attaching an already-attached pane is a no-op. Unknown panes are
// rejected with [ErrUnknownPane].
func (e *Engine) Attach(pane string) error {
	if !e.def.Has(pane) {
		return fmt.Errorf("%w: %q", ErrUnknownPane, pane)
	}
	if !e.detached[pane] {
		return nil
	}
	delete(e.detached, pane)
	e.recompute()
	return nil
}

// State returns the pane's current attachment state.
func (e *Engine) State(pane string) (State, error) {
	if !e.def.Has(pane) {
		return Attached, fmt.Errorf("%w: %q", ErrUnknownPane, pane)
	}
	if e.detached[pane] {
		return Detached, nil
	}
	return Attached, nil
}

// Placements returns a copy of the current placement map. Only attached
// panes have entries; a detached pane's surface is the render layer's
// concern.
func (e *Engine) Placements() map[string]grid.Rect {
	return maps.Clone(e.current)
}

// Detached returns the currently detached panes in row-major seed order.
func (e *Engine) Detached() []string {
	out := make([]string, 0, len(e.detached))
	for _, pane := range e.def.Panes() {
		if e.detached[pane] {
			out = append(out, pane)
		}
	}
	return out
}

// Definition returns the immutable grid definition the engine was built
// from.
func (e *Engine) Definition() *grid.Definition { return e.def }

// Registry returns a copy of the engine's pane specs.
func (e *Engine) Registry() grid.Registry { return maps.Clone(e.reg) }

func (e *Engine) recompute() {
	e.current = ResolveVacancies(e.def, e.reg, e.base, e.Detached())
}

// Compute is the stateless companion to [Engine]: it runs the full
// base-span and vacancy-resolution pipeline once for a given detached set
// and returns the placement map. Unknown detached panes are rejected with
// [ErrUnknownPane].
func Compute(def *grid.Definition, reg grid.Registry, detached []string) (map[string]grid.Rect, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}
	if err := reg.Validate(def); err != nil {
		return nil, err
	}
	for _, pane := range detached {
		if !def.Has(pane) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPane, pane)
		}
	}
	return ResolveVacancies(def, reg, BaseSpans(def, reg), detached), nil
}
