package layout

import (
	"errors"
	"maps"
	"testing"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

// threePane is the running example: a 3x3 grid with an expanding center
// column and flanking panes.
//
//	left1 center right1
//	left2   .    right2
//	left3   .      .
func threePane(t *testing.T) (*grid.Definition, grid.Registry) {
	t.Helper()
	def := mustGrid(t, [][]string{
		{"left1", "center", "right1"},
		{"left2", "", "right2"},
		{"left3", "", ""},
	})
	reg := grid.Registry{
		"center": {ExpandVertical: true},
		"left1":  {FillDetached: true, Limits: grid.Limits{Right: 1}, Priority: 5},
		"right1": {FillDetached: true, Limits: grid.Limits{Left: 1}, Priority: 1},
	}
	return def, reg
}

func TestNew_InitialPlacements(t *testing.T) {
	def, reg := threePane(t)
	eng, err := New(def, reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := eng.Placements()
	if len(got) != def.PaneCount() {
		t.Fatalf("placements len = %d, want %d", len(got), def.PaneCount())
	}
	if want := (grid.Rect{Row: 0, Col: 1, RowSpan: 3, ColSpan: 1}); got["center"] != want {
		t.Errorf("center = %v, want %v", got["center"], want)
	}
	if !maps.Equal(got, BaseSpans(def, reg)) {
		t.Error("initial placements differ from base spans")
	}
}

func TestNew_NilDefinition(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNilDefinition) {
		t.Errorf("New(nil) error = %v, want ErrNilDefinition", err)
	}
}

func TestNew_RegistryValidation(t *testing.T) {
	def := mustGrid(t, [][]string{{"a"}})

	if _, err := New(def, grid.Registry{"ghost": {}}); !errors.Is(err, grid.ErrUnknownPane) {
		t.Errorf("New(ghost spec) error = %v, want grid.ErrUnknownPane", err)
	}
	if _, err := New(def, grid.Registry{"a": {Limits: grid.Limits{Left: -2}}}); !errors.Is(err, grid.ErrNegativeLimit) {
		t.Errorf("New(negative limit) error = %v, want grid.ErrNegativeLimit", err)
	}
}

func TestEngine_DetachRecomputes(t *testing.T) {
	def, reg := threePane(t)
	eng, err := New(def, reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := eng.Detach("center"); err != nil {
		t.Fatalf("Detach(center) error = %v", err)
	}

	got := eng.Placements()
	if _, ok := got["center"]; ok {
		t.Error("center still placed after detach")
	}
	// left1 outranks right1 for the vacated seed cell.
	if want := (grid.Rect{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2}); got["left1"] != want {
		t.Errorf("left1 = %v, want %v", got["left1"], want)
	}
	if want := (grid.Rect{Row: 0, Col: 2, RowSpan: 1, ColSpan: 1}); got["right1"] != want {
		t.Errorf("right1 = %v, want %v", got["right1"], want)
	}
}

func TestEngine_DetachIdempotent(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)

	if err := eng.Detach("center"); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}
	before := eng.Placements()

	if err := eng.Detach("center"); err != nil {
		t.Fatalf("second Detach() error = %v", err)
	}
	if !maps.Equal(before, eng.Placements()) {
		t.Error("repeated detach changed the placement map")
	}
}

func TestEngine_AttachIdempotent(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)

	before := eng.Placements()
	if err := eng.Attach("center"); err != nil {
		t.Fatalf("Attach() on attached pane error = %v", err)
	}
	if !maps.Equal(before, eng.Placements()) {
		t.Error("attach of an attached pane changed the placement map")
	}
}

func TestEngine_DetachAttachRoundTrip(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)
	before := eng.Placements()

	if err := eng.Detach("center"); err != nil {
		t.Fatalf("Detach() error = %v", err)
	}
	if err := eng.Attach("center"); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if !maps.Equal(before, eng.Placements()) {
		t.Errorf("round trip changed placements: before %v, after %v", before, eng.Placements())
	}
}

func TestEngine_UnknownPane(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)
	before := eng.Placements()

	if err := eng.Detach("nope"); !errors.Is(err, ErrUnknownPane) {
		t.Errorf("Detach(nope) error = %v, want ErrUnknownPane", err)
	}
	if err := eng.Attach("nope"); !errors.Is(err, ErrUnknownPane) {
		t.Errorf("Attach(nope) error = %v, want ErrUnknownPane", err)
	}
	if _, err := eng.State("nope"); !errors.Is(err, ErrUnknownPane) {
		t.Errorf("State(nope) error = %v, want ErrUnknownPane", err)
	}
	if !maps.Equal(before, eng.Placements()) {
		t.Error("rejected call mutated the placement map")
	}
}

func TestEngine_State(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)

	if s, err := eng.State("center"); err != nil || s != Attached {
		t.Errorf("State(center) = %v, %v, want Attached", s, err)
	}
	eng.Detach("center")
	if s, err := eng.State("center"); err != nil || s != Detached {
		t.Errorf("State(center) after detach = %v, %v, want Detached", s, err)
	}
	eng.Attach("center")
	if s, err := eng.State("center"); err != nil || s != Attached {
		t.Errorf("State(center) after attach = %v, %v, want Attached", s, err)
	}
}

func TestEngine_PlacementsReturnsCopy(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)

	got := eng.Placements()
	got["center"] = grid.Rect{Row: 9, Col: 9, RowSpan: 9, ColSpan: 9}

	if eng.Placements()["center"].Row == 9 {
		t.Error("mutating the returned map reached engine state")
	}
}

func TestEngine_DetachedOrder(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)

	eng.Detach("right2")
	eng.Detach("center")
	eng.Detach("left3")

	got := eng.Detached()
	want := []string{"center", "right2", "left3"} // row-major seed order
	if len(got) != len(want) {
		t.Fatalf("Detached() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Detached()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// checkDisjointInBounds fails the test if any placement leaves the grid
// or two placements share a cell.
func checkDisjointInBounds(t *testing.T, def *grid.Definition, placements map[string]grid.Rect) {
	t.Helper()
	seen := make(map[string]grid.Rect)
	for pane, r := range placements {
		if r.Empty() || !r.In(def.Rows(), def.Cols()) {
			t.Errorf("pane %s placed out of bounds: %v", pane, r)
		}
		for other, o := range seen {
			if r.Overlaps(o) {
				t.Errorf("panes %s and %s overlap: %v, %v", pane, other, r, o)
			}
		}
		seen[pane] = r
	}
}

func TestEngine_RectangularityThroughTransitions(t *testing.T) {
	def, reg := threePane(t)
	eng, err := New(def, reg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	script := []struct {
		op   string
		pane string
	}{
		{"detach", "center"},
		{"detach", "right1"},
		{"detach", "left2"},
		{"attach", "center"},
		{"detach", "left1"},
		{"attach", "right1"},
		{"attach", "left2"},
		{"attach", "left1"},
	}
	for i, step := range script {
		var err error
		if step.op == "detach" {
			err = eng.Detach(step.pane)
		} else {
			err = eng.Attach(step.pane)
		}
		if err != nil {
			t.Fatalf("step %d: %s(%s) error = %v", i, step.op, step.pane, err)
		}
		checkDisjointInBounds(t, def, eng.Placements())
	}

	// Everything reattached: back to the initial map.
	if !maps.Equal(eng.Placements(), BaseSpans(def, reg)) {
		t.Error("full reattach did not restore base placements")
	}
}

func TestCompute_MatchesEngine(t *testing.T) {
	def, reg := threePane(t)
	eng, _ := New(def, reg)
	eng.Detach("center")

	got, err := Compute(def, reg, []string{"center"})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !maps.Equal(got, eng.Placements()) {
		t.Errorf("Compute() = %v, engine has %v", got, eng.Placements())
	}
}

func TestCompute_UnknownDetached(t *testing.T) {
	def, reg := threePane(t)
	if _, err := Compute(def, reg, []string{"nope"}); !errors.Is(err, ErrUnknownPane) {
		t.Errorf("Compute(nope) error = %v, want ErrUnknownPane", err)
	}
}

func TestState_String(t *testing.T) {
	if Attached.String() != "attached" || Detached.String() != "detached" {
		t.Errorf("State strings = %q, %q", Attached.String(), Detached.String())
	}
}
