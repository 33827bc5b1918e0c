package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/layout"
)

func newEngine(t *testing.T) *layout.Engine {
	t.Helper()

	//	left  main  right
	//	left  .     right
	def, err := grid.New([][]string{
		{"left", "main", "right"},
		{"left", "", "right"},
	})
	if err != nil {
		t.Fatal(err)
	}
	reg := grid.Registry{
		"main": {ExpandVertical: true},
	}
	e, err := layout.New(def, reg)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestCapture(t *testing.T) {
	e := newEngine(t)
	if err := e.Detach("main"); err != nil {
		t.Fatal(err)
	}

	s := Capture(e, "three pane", "hash123")

	if s.Manifest != "three pane" || s.ManifestHash != "hash123" {
		t.Errorf("manifest = %q %q, want recorded identity", s.Manifest, s.ManifestHash)
	}
	if s.Rows != 2 || s.Cols != 3 {
		t.Errorf("grid = %dx%d, want 2x3", s.Rows, s.Cols)
	}
	if len(s.Panes) != 3 {
		t.Fatalf("len(Panes) = %d, want 3", len(s.Panes))
	}
	if len(s.Detached) != 1 || s.Detached[0] != "main" {
		t.Errorf("Detached = %v, want [main]", s.Detached)
	}

	for _, p := range s.Panes {
		switch p.Name {
		case "main":
			if p.State != StateDetached {
				t.Errorf("main state = %q, want detached", p.State)
			}
			if p.Rect != nil {
				t.Error("detached pane should have no rect")
			}
		default:
			if p.State != StateAttached {
				t.Errorf("%s state = %q, want attached", p.Name, p.State)
			}
			if p.Rect == nil {
				t.Errorf("%s should have a rect", p.Name)
			}
		}
	}
}

func TestPlacementsInverse(t *testing.T) {
	e := newEngine(t)
	s := Capture(e, "", "")

	got := s.Placements()
	want := e.Placements()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for pane, r := range want {
		if got[pane] != r {
			t.Errorf("Placements()[%q] = %v, want %v", pane, got[pane], r)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	e := newEngine(t)
	s := Capture(e, "three pane", "hash123")

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s2, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if s2.Rows != s.Rows || s2.Cols != s.Cols || len(s2.Panes) != len(s.Panes) {
		t.Errorf("round-trip mismatch: %+v vs %+v", s2, s)
	}
}

func TestUnmarshalValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"no dimensions", `{"panes":[{"name":"a","state":"attached"}]}`},
		{"no panes", `{"rows":2,"cols":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("Unmarshal() should fail")
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	e := newEngine(t)
	s := Capture(e, "three pane", "hash123")

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteFile(s, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	s2, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if s2.Manifest != s.Manifest || len(s2.Panes) != len(s.Panes) {
		t.Errorf("file round-trip mismatch")
	}
}
