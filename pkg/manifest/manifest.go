// Package manifest loads grid layout manifests from TOML.
//
// A manifest declares the grid shape and the per-pane expansion policy:
//
//	name = "three pane"
//
//	grid = [
//	    ["left", "main", "right"],
//	    ["left", "",     "right"],
//	]
//
//	[panes.main]
//	expand_vertical = true
//	fill_detached   = true
//	priority        = 10
//	limit_left      = 1
//	limit_right     = 1
//
// Empty cells are written as "" or ".". Panes without a [panes.X] table get
// the default policy: no expansion, no fill, priority 0. Unknown keys are
// rejected so typos ("expand_vertcal") fail loudly instead of silently
// producing a static pane.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

// Sentinel errors for manifest loading.
var (
	// ErrUnknownKey is returned when the TOML contains keys the manifest
	// format does not define.
	ErrUnknownKey = errors.New("unknown manifest key")

	// ErrNoGrid is returned when the manifest has no grid table.
	ErrNoGrid = errors.New("manifest must declare a grid")
)

// emptyCellAlias is accepted in manifests as a more visible spelling of an
// empty cell.
const emptyCellAlias = "."

// Meta carries manifest fields that do not affect layout computation.
type Meta struct {
	Name string `toml:"name"`
}

// file is the raw TOML shape of a manifest.
type file struct {
	Name  string              `toml:"name"`
	Grid  [][]string          `toml:"grid"`
	Panes map[string]paneSpec `toml:"panes"`
}

// paneSpec is the TOML shape of one pane policy.
type paneSpec struct {
	ExpandVertical   bool `toml:"expand_vertical,omitempty"`
	ExpandHorizontal bool `toml:"expand_horizontal,omitempty"`
	FillDetached     bool `toml:"fill_detached,omitempty"`
	Priority         int  `toml:"priority,omitempty"`
	LimitUp          int  `toml:"limit_up,omitempty"`
	LimitDown        int  `toml:"limit_down,omitempty"`
	LimitLeft        int  `toml:"limit_left,omitempty"`
	LimitRight       int  `toml:"limit_right,omitempty"`
}

// Parse decodes a manifest from TOML bytes and validates it.
//
// All grid-shape and registry validation happens in [grid.New] and
// [grid.Registry.Validate]; Parse adds the format-level checks (unknown
// keys, missing grid) on top. Every failure is a configuration error.
func Parse(data []byte) (*grid.Definition, grid.Registry, Meta, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, nil, Meta{}, fmt.Errorf("decode manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, nil, Meta{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	if len(f.Grid) == 0 {
		return nil, nil, Meta{}, ErrNoGrid
	}

	def, err := grid.New(normalizeCells(f.Grid))
	if err != nil {
		return nil, nil, Meta{}, err
	}

	reg := make(grid.Registry, len(f.Panes))
	for pane, p := range f.Panes {
		reg[pane] = grid.Spec{
			ExpandVertical:   p.ExpandVertical,
			ExpandHorizontal: p.ExpandHorizontal,
			FillDetached:     p.FillDetached,
			Priority:         p.Priority,
			Limits: grid.Limits{
				Up:    p.LimitUp,
				Down:  p.LimitDown,
				Left:  p.LimitLeft,
				Right: p.LimitRight,
			},
		}
	}
	if err := reg.Validate(def); err != nil {
		return nil, nil, Meta{}, err
	}

	return def, reg, Meta{Name: f.Name}, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*grid.Definition, grid.Registry, Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, Meta{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	def, reg, meta, err := Parse(data)
	if err != nil {
		return nil, nil, Meta{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, reg, meta, nil
}

// normalizeCells maps the "." empty-cell alias to the canonical empty
// string and trims stray whitespace around pane names.
func normalizeCells(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == emptyCellAlias {
				cell = grid.Empty
			}
			out[i][j] = cell
		}
	}
	return out
}

// Canonical re-encodes a parsed manifest as normalized TOML: empty cells as
// "", pane tables sorted by name, zero-valued spec fields omitted. Used by
// "dockgrid validate --write" to clean up hand-written manifests.
func Canonical(def *grid.Definition, reg grid.Registry, meta Meta) ([]byte, error) {
	var buf bytes.Buffer

	if meta.Name != "" {
		fmt.Fprintf(&buf, "name = %q\n\n", meta.Name)
	}

	buf.WriteString("grid = [\n")
	for r := 0; r < def.Rows(); r++ {
		cells := make([]string, def.Cols())
		for c := 0; c < def.Cols(); c++ {
			cells[c] = fmt.Sprintf("%q", def.Cell(r, c))
		}
		fmt.Fprintf(&buf, "    [%s],\n", strings.Join(cells, ", "))
	}
	buf.WriteString("]\n")

	panes := slices.Sorted(maps.Keys(reg))
	for _, pane := range panes {
		spec := reg[pane]
		fmt.Fprintf(&buf, "\n[panes.%s]\n", pane)
		if err := toml.NewEncoder(&buf).Encode(paneSpec{
			ExpandVertical:   spec.ExpandVertical,
			ExpandHorizontal: spec.ExpandHorizontal,
			FillDetached:     spec.FillDetached,
			Priority:         spec.Priority,
			LimitUp:          spec.Limits.Up,
			LimitDown:        spec.Limits.Down,
			LimitLeft:        spec.Limits.Left,
			LimitRight:       spec.Limits.Right,
		}); err != nil {
			return nil, fmt.Errorf("encode pane %s: %w", pane, err)
		}
	}

	return buf.Bytes(), nil
}
