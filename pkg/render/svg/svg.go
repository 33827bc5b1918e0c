// Package svg renders a placement map as a standalone SVG document.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

const (
	defaultCellSize = 80
	defaultGap      = 6

	fontSizeMin = 10.0
	fontSizeMax = 22.0
)

// Default palette, cycled over panes in draw order.
var defaultPalette = []string{
	"#4e79a7", "#f28e2b", "#59a14f", "#e15759",
	"#76b7b2", "#edc948", "#b07aa1", "#9c755f",
}

// Option configures the SVG renderer.
type Option func(*svgRenderer)

// WithCellSize sets the pixel size of one grid cell.
func WithCellSize(px int) Option {
	return func(r *svgRenderer) { r.cell = max(8, px) }
}

// WithGap sets the pixel gap between pane rectangles.
func WithGap(px int) Option {
	return func(r *svgRenderer) { r.gap = max(0, px) }
}

// WithPalette overrides the fill colors, cycled in draw order.
func WithPalette(colors []string) Option {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithoutLabels omits pane name labels.
func WithoutLabels() Option {
	return func(r *svgRenderer) { r.labels = false }
}

type svgRenderer struct {
	cell    int
	gap     int
	palette []string
	labels  bool
}

// Render draws every placed pane as a rounded rectangle. Unclaimed cells
// are simply background. Panes are drawn in sorted name order so output is
// byte-identical across runs for identical inputs.
func Render(def *grid.Definition, placements map[string]grid.Rect, opts ...Option) []byte {
	r := newSVGRenderer(opts...)

	width := def.Cols() * r.cell
	height := def.Rows() * r.cell

	panes := make([]string, 0, len(placements))
	for pane := range placements {
		panes = append(panes, pane)
	}
	sort.Strings(panes)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#f4f4f2"/>`+"\n", width, height)

	for i, pane := range panes {
		rect := placements[pane]
		x := rect.Col*r.cell + r.gap/2
		y := rect.Row*r.cell + r.gap/2
		w := rect.ColSpan*r.cell - r.gap
		h := rect.RowSpan*r.cell - r.gap
		fill := r.palette[i%len(r.palette)]

		fmt.Fprintf(&buf, `  <rect id="pane-%s" x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="#2b2b2b" stroke-width="1.5"/>`+"\n",
			escape(pane), x, y, w, h, fill)

		if r.labels {
			size := fontSize(w, len(pane))
			fmt.Fprintf(&buf, `  <text x="%d" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.1f" fill="#ffffff">%s</text>`+"\n",
				x+w/2, float64(y)+float64(h)/2, size, escape(pane))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...Option) svgRenderer {
	r := svgRenderer{
		cell:    defaultCellSize,
		gap:     defaultGap,
		palette: defaultPalette,
		labels:  true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// fontSize fits a label to the rectangle width, clamped to a readable range.
func fontSize(width, textLen int) float64 {
	n := max(1, textLen)
	byWidth := float64(width) * 0.85 / (float64(n) * 0.55)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
