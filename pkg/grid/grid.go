package grid

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyGrid is returned by [New] when the layout has no rows or a
	// row has no columns. A layout must contain at least one cell.
	ErrEmptyGrid = errors.New("grid must have at least one row and one column")

	// ErrRaggedGrid is returned by [New] when rows differ in length.
	// Grids are strictly rectangular: every row has the same column count.
	ErrRaggedGrid = errors.New("grid rows must all have the same length")

	// ErrSeedNotRectangular is returned by [New] when a pane's seed cells
	// do not form a single filled rectangle. A pane may span multiple cells
	// initially, but the cells must be contiguous and rectangular.
	ErrSeedNotRectangular = errors.New("pane seed cells must form a single rectangle")

	// ErrUnknownPane is returned by [Registry.Validate] when a spec refers
	// to a pane identifier that does not appear anywhere in the grid.
	ErrUnknownPane = errors.New("pane does not appear in the grid")

	// ErrNegativeLimit is returned by [Registry.Validate] when a spec
	// carries a negative expansion limit. Limits are cell counts and must
	// be zero or positive.
	ErrNegativeLimit = errors.New("expansion limits must not be negative")
)

// Empty is the cell value for an originally-empty grid position.
const Empty = ""

// Definition is the immutable shape of a layout: a rectangular 2-D array
// of optional pane identifiers. An empty string marks a cell that holds no
// pane. A pane may be seeded across several cells as long as they form a
// single rectangle (validated by [New]).
//
// Definitions are value-copied on construction and expose no mutators, so
// an engine and its callers can share one instance freely.
type Definition struct {
	cells [][]string
	rows  int
	cols  int

	seeds map[string]Rect
	panes []string // row-major first-appearance order
}

// New validates rows and builds a Definition from them.
//
// Validation enforces, in order:
//   - at least one row and one column ([ErrEmptyGrid])
//   - every row has the same length ([ErrRaggedGrid])
//   - every pane's seed cells form one filled rectangle ([ErrSeedNotRectangular])
//
// All failures are configuration errors: no Definition is returned.
func New(rows [][]string) (*Definition, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedGrid, i, len(row), cols)
		}
	}

	d := &Definition{
		cells: make([][]string, len(rows)),
		rows:  len(rows),
		cols:  cols,
		seeds: make(map[string]Rect),
	}
	for i, row := range rows {
		d.cells[i] = slices.Clone(row)
	}

	// Bounding box and cell count per pane, scanning row-major so the
	// pane order matches first appearance.
	counts := make(map[string]int)
	for r, row := range d.cells {
		for c, pane := range row {
			if pane == Empty {
				continue
			}
			seed, seen := d.seeds[pane]
			if !seen {
				d.panes = append(d.panes, pane)
				d.seeds[pane] = Rect{Row: r, Col: c, RowSpan: 1, ColSpan: 1}
				counts[pane] = 1
				continue
			}
			seed.RowSpan = max(seed.RowSpan, r-seed.Row+1)
			if c < seed.Col {
				seed.ColSpan += seed.Col - c
				seed.Col = c
			} else if c >= seed.Right() {
				seed.ColSpan = c - seed.Col + 1
			}
			d.seeds[pane] = seed
			counts[pane]++
		}
	}

	// Cell count equal to bounding-box area means the box is exactly
	// filled: no holes, no stray cells outside the box.
	for _, pane := range d.panes {
		if counts[pane] != d.seeds[pane].Area() {
			return nil, fmt.Errorf("%w: pane %q covers %d cells but bounds %s", ErrSeedNotRectangular, pane, counts[pane], d.seeds[pane])
		}
	}
	return d, nil
}

// Rows returns the number of grid rows.
func (d *Definition) Rows() int { return d.rows }

// Cols returns the number of grid columns.
func (d *Definition) Cols() int { return d.cols }

// Cell returns the pane identifier at (row, col), or [Empty] for an
// originally-empty cell or an out-of-bounds position.
func (d *Definition) Cell(row, col int) string {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return Empty
	}
	return d.cells[row][col]
}

// EmptyAt reports whether the cell at (row, col) held no pane in the
// original grid. Out-of-bounds positions are not empty: expansion must
// stop at the grid boundary.
func (d *Definition) EmptyAt(row, col int) bool {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return false
	}
	return d.cells[row][col] == Empty
}

// Has reports whether the pane appears in the grid.
func (d *Definition) Has(pane string) bool {
	_, ok := d.seeds[pane]
	return ok
}

// Seed returns the pane's seed rectangle and whether the pane exists.
func (d *Definition) Seed(pane string) (Rect, bool) {
	r, ok := d.seeds[pane]
	return r, ok
}

// Panes returns all pane identifiers in row-major first-appearance order.
// The returned slice is a copy.
func (d *Definition) Panes() []string {
	return slices.Clone(d.panes)
}

// PaneCount returns the number of distinct panes in the grid.
func (d *Definition) PaneCount() int { return len(d.panes) }
