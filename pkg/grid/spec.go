package grid

import "fmt"

// Direction identifies one side of a rectangle. The constant order is the
// resolution precedence used when several panes compete for the same
// vacancy: left, then up, then right, then down.
type Direction int

const (
	Left Direction = iota
	Up
	Right
	Down
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Limits caps how many cells a pane may gain in each direction while
// filling detached-space vacancies. A limit of zero makes the pane
// ineligible in that direction. Limits never constrain base expansion,
// which stops only at occupied cells or the grid boundary.
type Limits struct {
	Up    int
	Down  int
	Left  int
	Right int
}

// In returns the limit for growth toward the given direction.
func (l Limits) In(d Direction) int {
	switch d {
	case Left:
		return l.Left
	case Up:
		return l.Up
	case Right:
		return l.Right
	case Down:
		return l.Down
	}
	return 0
}

// Spec is the declarative expansion policy for one pane.
//
// The zero value is the default policy: a static pane that keeps its seed
// rectangle, never grows, and never claims detached space. [Registry.Spec]
// returns it for panes with no explicit entry.
type Spec struct {
	// ExpandVertical lets the pane grow downward into cells that were
	// empty in the original grid.
	ExpandVertical bool

	// ExpandHorizontal lets the pane grow rightward into cells that were
	// empty in the original grid. When combined with ExpandVertical, rows
	// are maximized first, then columns over the fixed row range.
	ExpandHorizontal bool

	// FillDetached makes the pane a candidate for claiming space vacated
	// by a detached neighbor, subject to Limits and Priority.
	FillDetached bool

	// Limits caps detached-space growth per direction, in cells.
	Limits Limits

	// Priority ranks competing fill candidates; higher wins. Ties fall
	// back to row-major seed order.
	Priority int
}

// Registry maps pane identifiers to their specs. Panes present in the
// grid but absent from the registry use the zero [Spec]; entries for
// panes absent from the grid are configuration errors.
type Registry map[string]Spec

// Spec returns the pane's spec, or the zero default when the pane has no
// explicit entry. The lookup is total for every pane in the grid.
func (reg Registry) Spec(pane string) Spec {
	return reg[pane]
}

// Validate checks the registry against a grid definition: every entry
// must name a pane in the grid ([ErrUnknownPane]) and carry non-negative
// limits ([ErrNegativeLimit]).
func (reg Registry) Validate(def *Definition) error {
	for pane, spec := range reg {
		if !def.Has(pane) {
			return fmt.Errorf("%w: spec for %q", ErrUnknownPane, pane)
		}
		l := spec.Limits
		if l.Up < 0 || l.Down < 0 || l.Left < 0 || l.Right < 0 {
			return fmt.Errorf("%w: pane %q", ErrNegativeLimit, pane)
		}
	}
	return nil
}
