package layout

import (
	"testing"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

func mustGrid(t *testing.T, rows [][]string) *grid.Definition {
	t.Helper()
	def, err := grid.New(rows)
	if err != nil {
		t.Fatalf("grid.New() error = %v", err)
	}
	return def
}

func TestBaseSpans_NoExpansion(t *testing.T) {
	def := mustGrid(t, [][]string{
		{"a", "b"},
		{"", ""},
	})
	spans := BaseSpans(def, nil)

	for _, pane := range []string{"a", "b"} {
		seed, _ := def.Seed(pane)
		if spans[pane] != seed {
			t.Errorf("spans[%s] = %v, want seed %v", pane, spans[pane], seed)
		}
	}
}

func TestBaseSpans_VerticalExpansion(t *testing.T) {
	// center grows down through two empty cells and stops at the boundary:
	//
	//	left1 center right1
	//	left2   .    right2
	//	left3   .      .
	def := mustGrid(t, [][]string{
		{"left1", "center", "right1"},
		{"left2", "", "right2"},
		{"left3", "", ""},
	})
	reg := grid.Registry{"center": {ExpandVertical: true}}

	spans := BaseSpans(def, reg)
	want := grid.Rect{Row: 0, Col: 1, RowSpan: 3, ColSpan: 1}
	if spans["center"] != want {
		t.Errorf("spans[center] = %v, want %v", spans["center"], want)
	}
	// Panes without expansion flags keep their seeds.
	if got := spans["right2"]; got != (grid.Rect{Row: 1, Col: 2, RowSpan: 1, ColSpan: 1}) {
		t.Errorf("spans[right2] = %v, want seed", got)
	}
}

func TestBaseSpans_RightPaneVertical(t *testing.T) {
	// Same grid, right2 allowed to grow into the empty cell below it.
	def := mustGrid(t, [][]string{
		{"left1", "center", "right1"},
		{"left2", "", "right2"},
		{"left3", "", ""},
	})
	reg := grid.Registry{
		"center": {ExpandVertical: true},
		"right2": {ExpandVertical: true},
	}

	spans := BaseSpans(def, reg)
	want := grid.Rect{Row: 1, Col: 2, RowSpan: 2, ColSpan: 1}
	if spans["right2"] != want {
		t.Errorf("spans[right2] = %v, want %v", spans["right2"], want)
	}
}

func TestBaseSpans_HorizontalExpansion(t *testing.T) {
	def := mustGrid(t, [][]string{
		{"a", "", ""},
		{"b", "c", ""},
	})
	reg := grid.Registry{
		"a": {ExpandHorizontal: true},
		"c": {ExpandHorizontal: true},
	}

	spans := BaseSpans(def, reg)
	if want := (grid.Rect{Row: 0, Col: 0, RowSpan: 1, ColSpan: 3}); spans["a"] != want {
		t.Errorf("spans[a] = %v, want %v", spans["a"], want)
	}
	if want := (grid.Rect{Row: 1, Col: 1, RowSpan: 1, ColSpan: 2}); spans["c"] != want {
		t.Errorf("spans[c] = %v, want %v", spans["c"], want)
	}
}

func TestBaseSpans_VerticalBeforeHorizontal(t *testing.T) {
	// A pane with both flags maximizes rows first, then columns across the
	// full row range:
	//
	//	a . .
	//	. . .
	def := mustGrid(t, [][]string{
		{"a", "", ""},
		{"", "", ""},
	})
	reg := grid.Registry{"a": {ExpandVertical: true, ExpandHorizontal: true}}

	spans := BaseSpans(def, reg)
	want := grid.Rect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 3}
	if spans["a"] != want {
		t.Errorf("spans[a] = %v, want %v", spans["a"], want)
	}
}

func TestBaseSpans_HorizontalNeedsFullRowRange(t *testing.T) {
	// After growing to two rows, a cannot take column 1: the candidate
	// column is only half empty.
	//
	//	a . .
	//	. b .
	def := mustGrid(t, [][]string{
		{"a", "", ""},
		{"", "b", ""},
	})
	reg := grid.Registry{"a": {ExpandVertical: true, ExpandHorizontal: true}}

	spans := BaseSpans(def, reg)
	want := grid.Rect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1}
	if spans["a"] != want {
		t.Errorf("spans[a] = %v, want %v", spans["a"], want)
	}
}

func TestBaseSpans_StopsAtOccupiedRow(t *testing.T) {
	def := mustGrid(t, [][]string{
		{"a"},
		{""},
		{"b"},
	})
	reg := grid.Registry{"a": {ExpandVertical: true}}

	spans := BaseSpans(def, reg)
	want := grid.Rect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1}
	if spans["a"] != want {
		t.Errorf("spans[a] = %v, want %v", spans["a"], want)
	}
}

func TestBaseSpans_WideSeedBlockedByPartialRow(t *testing.T) {
	// a spans two columns; the row below is only empty under one of them.
	def := mustGrid(t, [][]string{
		{"a", "a"},
		{"", "b"},
	})
	reg := grid.Registry{"a": {ExpandVertical: true}}

	spans := BaseSpans(def, reg)
	seed, _ := def.Seed("a")
	if spans["a"] != seed {
		t.Errorf("spans[a] = %v, want seed %v", spans["a"], seed)
	}
}

func TestBaseSpans_EarlierPaneClaimsContestedCell(t *testing.T) {
	// Both panes could reach (1,1): x downward, y rightward. x appears
	// first in row-major order and wins; y must stop short.
	//
	//	. x
	//	y .
	def := mustGrid(t, [][]string{
		{"", "x"},
		{"y", ""},
	})
	reg := grid.Registry{
		"x": {ExpandVertical: true},
		"y": {ExpandHorizontal: true},
	}

	spans := BaseSpans(def, reg)
	if want := (grid.Rect{Row: 0, Col: 1, RowSpan: 2, ColSpan: 1}); spans["x"] != want {
		t.Errorf("spans[x] = %v, want %v", spans["x"], want)
	}
	if want := (grid.Rect{Row: 1, Col: 0, RowSpan: 1, ColSpan: 1}); spans["y"] != want {
		t.Errorf("spans[y] = %v, want %v", spans["y"], want)
	}
	if spans["x"].Overlaps(spans["y"]) {
		t.Errorf("spans overlap: x=%v y=%v", spans["x"], spans["y"])
	}
}

func TestBaseSpans_MultiCellSeed(t *testing.T) {
	def := mustGrid(t, [][]string{
		{"side", "main"},
		{"side", ""},
	})
	reg := grid.Registry{"main": {ExpandVertical: true}}

	spans := BaseSpans(def, reg)
	if want := (grid.Rect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1}); spans["side"] != want {
		t.Errorf("spans[side] = %v, want %v", spans["side"], want)
	}
	if want := (grid.Rect{Row: 0, Col: 1, RowSpan: 2, ColSpan: 1}); spans["main"] != want {
		t.Errorf("spans[main] = %v, want %v", spans["main"], want)
	}
}

func TestBaseSpans_IgnoresLimits(t *testing.T) {
	// Limits constrain vacancy fills only; base expansion runs to the
	// first obstacle regardless.
	def := mustGrid(t, [][]string{
		{"a"},
		{""},
		{""},
	})
	reg := grid.Registry{"a": {ExpandVertical: true, Limits: grid.Limits{Down: 1}}}

	spans := BaseSpans(def, reg)
	want := grid.Rect{Row: 0, Col: 0, RowSpan: 3, ColSpan: 1}
	if spans["a"] != want {
		t.Errorf("spans[a] = %v, want %v", spans["a"], want)
	}
}
