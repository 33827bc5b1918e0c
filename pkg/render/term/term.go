// Package term renders a placement map as a bordered terminal grid.
//
// The renderer is a pure function of the grid definition, the placement
// map, and the options: no engine state, no I/O. Output is monochrome so
// the boxes can be composited cell-by-cell; callers that want color apply
// it to whole lines afterwards.
package term

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

const (
	defaultCellWidth  = 14
	defaultCellHeight = 4
)

// Option configures the terminal renderer.
type Option func(*renderer)

// WithCellSize sets the size of one grid cell in terminal columns and
// lines. Values below the border minimum (3) are clamped.
func WithCellSize(width, height int) Option {
	return func(r *renderer) {
		r.cellW = max(3, width)
		r.cellH = max(3, height)
	}
}

// WithoutLabels renders boxes without pane names.
func WithoutLabels() Option {
	return func(r *renderer) { r.labels = false }
}

// WithBorder overrides the box border style.
func WithBorder(b lipgloss.Border) Option {
	return func(r *renderer) { r.border = b }
}

type renderer struct {
	cellW  int
	cellH  int
	labels bool
	border lipgloss.Border
}

// Render draws every placed pane as a bordered box on a character canvas
// sized to the grid. Cells covered by no pane (originally empty, or vacated
// and unclaimed) stay blank, which is exactly how uncovered vacancies are
// surfaced to the user.
func Render(def *grid.Definition, placements map[string]grid.Rect, opts ...Option) string {
	r := renderer{
		cellW:  defaultCellWidth,
		cellH:  defaultCellHeight,
		labels: true,
		border: lipgloss.RoundedBorder(),
	}
	for _, opt := range opts {
		opt(&r)
	}

	canvas := newCanvas(def.Rows()*r.cellH, def.Cols()*r.cellW)

	// Stable draw order keeps output deterministic for golden tests.
	panes := make([]string, 0, len(placements))
	for pane := range placements {
		panes = append(panes, pane)
	}
	sort.Strings(panes)

	boxStyle := lipgloss.NewStyle().
		Border(r.border).
		Align(lipgloss.Center, lipgloss.Center)

	for _, pane := range panes {
		rect := placements[pane]
		w := rect.ColSpan * r.cellW
		h := rect.RowSpan * r.cellH

		label := ""
		if r.labels {
			label = truncate(pane, w-2)
		}
		box := boxStyle.Width(w - 2).Height(h - 2).Render(label)
		canvas.draw(rect.Row*r.cellH, rect.Col*r.cellW, box)
	}

	return canvas.String()
}

// truncate shortens a label to fit the inner box width.
func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 2 {
		return s[:width]
	}
	return s[:width-2] + ".."
}

// canvas is a rune grid that boxes are drawn onto. Boxes never overlap
// (the engine guarantees disjoint placements), so drawing is last-writer
// only at blank cells' expense.
type canvas struct {
	cells [][]rune
}

func newCanvas(rows, cols int) *canvas {
	c := &canvas{cells: make([][]rune, rows)}
	for i := range c.cells {
		line := make([]rune, cols)
		for j := range line {
			line[j] = ' '
		}
		c.cells[i] = line
	}
	return c
}

// draw copies a multi-line block onto the canvas at (row, col), clipping
// at the canvas boundary.
func (c *canvas) draw(row, col int, block string) {
	for i, line := range strings.Split(block, "\n") {
		y := row + i
		if y < 0 || y >= len(c.cells) {
			continue
		}
		for j, ch := range []rune(line) {
			x := col + j
			if x < 0 || x >= len(c.cells[y]) {
				continue
			}
			c.cells[y][x] = ch
		}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, line := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(string(line), " "))
	}
	return b.String()
}
