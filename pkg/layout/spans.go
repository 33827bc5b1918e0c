package layout

import (
	"github.com/dockgrid/dockgrid/pkg/grid"
)

// BaseSpans computes every pane's base rectangle: the seed rectangle grown
// by the pane's ExpandVertical/ExpandHorizontal flags, before any
// detached-space resolution.
//
// # Algorithm
//
// Panes are processed in row-major first-appearance order. Each starts at
// its seed rectangle. With ExpandVertical set, the row span extends
// downward one row at a time while every cell of the candidate row across
// the pane's current column range is available; with ExpandHorizontal set,
// the column span then extends rightward the same way over the now-fixed
// row range. Rows are always maximized before columns.
//
// # Availability
//
// A cell is available only if it was empty in the original grid and has
// not been claimed by an earlier pane in this pass. The second condition
// keeps placements disjoint when a downward expander and a rightward
// expander could reach the same empty cell; the scan order makes the
// winner deterministic.
//
// # Detachment
//
// This phase is blind to detachment: detached panes get a base rectangle
// like any other and block expansion exactly as if attached. Dropping them
// from the final map and redistributing their seed space is the resolver's
// job (see [ResolveVacancies]), which keeps every pane's base rectangle
// stable across attach/detach cycles.
//
// The result has one entry per pane in the grid. Expansion limits are not
// consulted here; they only constrain vacancy fills.
func BaseSpans(def *grid.Definition, reg grid.Registry) map[string]grid.Rect {
	occ := newOccupancy(def)
	spans := make(map[string]grid.Rect, def.PaneCount())

	for _, pane := range def.Panes() {
		r, _ := def.Seed(pane)
		spec := reg.Spec(pane)

		if spec.ExpandVertical {
			for r.Bottom() < def.Rows() && occ.rowFree(r.Bottom(), r.Col, r.Right()) {
				r.RowSpan++
			}
		}
		if spec.ExpandHorizontal {
			for r.Right() < def.Cols() && occ.colFree(r.Right(), r.Row, r.Bottom()) {
				r.ColSpan++
			}
		}

		occ.claim(r)
		spans[pane] = r
	}
	return spans
}

// occupancy tracks cells claimed during one span-calculation pass, layered
// over the cells that were occupied in the original grid.
type occupancy struct {
	def  *grid.Definition
	used []bool // row-major claim flags for this pass
	cols int
}

func newOccupancy(def *grid.Definition) *occupancy {
	return &occupancy{
		def:  def,
		used: make([]bool, def.Rows()*def.Cols()),
		cols: def.Cols(),
	}
}

func (o *occupancy) free(row, col int) bool {
	return o.def.EmptyAt(row, col) && !o.used[row*o.cols+col]
}

// rowFree reports whether every cell of row in columns [c0, c1) is free.
func (o *occupancy) rowFree(row, c0, c1 int) bool {
	for c := c0; c < c1; c++ {
		if !o.free(row, c) {
			return false
		}
	}
	return true
}

// colFree reports whether every cell of col in rows [r0, r1) is free.
func (o *occupancy) colFree(col, r0, r1 int) bool {
	for r := r0; r < r1; r++ {
		if !o.free(r, col) {
			return false
		}
	}
	return true
}

func (o *occupancy) claim(r grid.Rect) {
	for row := r.Row; row < r.Bottom(); row++ {
		for col := r.Col; col < r.Right(); col++ {
			o.used[row*o.cols+col] = true
		}
	}
}
