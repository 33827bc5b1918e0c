package grid

import "fmt"

// Rect is a rectangular region of grid cells, expressed as a top-left
// corner plus spans. Row and column indices are zero-based; RowSpan and
// ColSpan count cells, so the region covers rows [Row, Row+RowSpan) and
// columns [Col, Col+ColSpan).
//
// Rect is the placement unit of the whole engine: seed regions, computed
// placements, and vacancies are all Rects. The zero value is an empty
// rectangle at the origin.
type Rect struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int
}

// Right returns the exclusive right column bound (Col + ColSpan).
func (r Rect) Right() int { return r.Col + r.ColSpan }

// Bottom returns the exclusive bottom row bound (Row + RowSpan).
func (r Rect) Bottom() int { return r.Row + r.RowSpan }

// Area returns the number of cells covered by the rectangle.
func (r Rect) Area() int { return r.RowSpan * r.ColSpan }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.RowSpan <= 0 || r.ColSpan <= 0 }

// Contains reports whether the cell at (row, col) lies inside the rectangle.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Row && row < r.Bottom() && col >= r.Col && col < r.Right()
}

// Overlaps reports whether the two rectangles share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Row < o.Bottom() && o.Row < r.Bottom() && r.Col < o.Right() && o.Col < r.Right()
}

// In reports whether the rectangle lies entirely within a grid of the
// given dimensions.
func (r Rect) In(rows, cols int) bool {
	return r.Row >= 0 && r.Col >= 0 && r.Bottom() <= rows && r.Right() <= cols
}

// String formats the rectangle as "(row,col rowSpanxcolSpan)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.Row, r.Col, r.RowSpan, r.ColSpan)
}
