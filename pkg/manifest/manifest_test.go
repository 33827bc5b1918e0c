package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

const threePane = `
name = "three pane"

grid = [
    ["left", "main", "right"],
    ["left", "",     "right"],
]

[panes.main]
expand_vertical = true
fill_detached   = true
priority        = 10
limit_left      = 1
limit_right     = 1
`

func TestParse(t *testing.T) {
	def, reg, meta, err := Parse([]byte(threePane))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if meta.Name != "three pane" {
		t.Errorf("Name = %q, want %q", meta.Name, "three pane")
	}
	if def.Rows() != 2 || def.Cols() != 3 {
		t.Errorf("grid = %dx%d, want 2x3", def.Rows(), def.Cols())
	}

	seed, ok := def.Seed("left")
	if !ok {
		t.Fatal(`Seed("left") not found`)
	}
	want := grid.Rect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1}
	if seed != want {
		t.Errorf(`Seed("left") = %v, want %v`, seed, want)
	}

	spec := reg.Spec("main")
	if !spec.ExpandVertical || !spec.FillDetached {
		t.Errorf("main spec = %+v, want expand_vertical and fill_detached set", spec)
	}
	if spec.Priority != 10 {
		t.Errorf("Priority = %d, want 10", spec.Priority)
	}
	if spec.Limits.Left != 1 || spec.Limits.Right != 1 {
		t.Errorf("Limits = %+v, want left/right 1", spec.Limits)
	}

	// Panes without a [panes.X] table fall back to the default policy.
	if got := reg.Spec("right"); got != (grid.Spec{}) {
		t.Errorf(`Spec("right") = %+v, want zero default`, got)
	}
}

func TestParseDotIsEmpty(t *testing.T) {
	input := `
grid = [
    ["a", "."],
    ["b", "."],
]
`
	def, _, _, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !def.EmptyAt(0, 1) || !def.EmptyAt(1, 1) {
		t.Error(`"." cells should be empty`)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "no grid",
			input: `name = "empty"`,
			want:  ErrNoGrid,
		},
		{
			name: "unknown key",
			input: `
grid = [["a"]]

[panes.a]
expand_vertcal = true
`,
			want: ErrUnknownKey,
		},
		{
			name: "ragged grid",
			input: `
grid = [
    ["a", "b"],
    ["a"],
]
`,
			want: grid.ErrRaggedGrid,
		},
		{
			name: "non-rectangular seed",
			input: `
grid = [
    ["a", "a"],
    ["a", "b"],
]
`,
			want: grid.ErrSeedNotRectangular,
		},
		{
			name: "spec for unknown pane",
			input: `
grid = [["a"]]

[panes.ghost]
priority = 1
`,
			want: grid.ErrUnknownPane,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Parse([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseInvalidTOML(t *testing.T) {
	_, _, _, err := Parse([]byte(`grid = [`))
	if err == nil {
		t.Fatal("Parse() should fail on malformed TOML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	if err := os.WriteFile(path, []byte(threePane), 0o644); err != nil {
		t.Fatal(err)
	}

	def, _, meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Name != "three pane" {
		t.Errorf("Name = %q, want %q", meta.Name, "three pane")
	}
	if def.PaneCount() != 3 {
		t.Errorf("PaneCount() = %d, want 3", def.PaneCount())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	def, reg, meta, err := Parse([]byte(threePane))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := Canonical(def, reg, meta)
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}

	// The canonical form must parse back to the same layout.
	def2, reg2, meta2, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Canonical()) error = %v\n%s", err, out)
	}
	if meta2.Name != meta.Name {
		t.Errorf("round-trip name = %q, want %q", meta2.Name, meta.Name)
	}
	if def2.Rows() != def.Rows() || def2.Cols() != def.Cols() {
		t.Errorf("round-trip grid = %dx%d, want %dx%d", def2.Rows(), def2.Cols(), def.Rows(), def.Cols())
	}
	for _, pane := range def.Panes() {
		if reg2.Spec(pane) != reg.Spec(pane) {
			t.Errorf("round-trip spec for %q = %+v, want %+v", pane, reg2.Spec(pane), reg.Spec(pane))
		}
	}

	// Zero-valued fields are omitted from the canonical form.
	if strings.Contains(string(out), "limit_up") {
		t.Errorf("Canonical() should omit zero limits:\n%s", out)
	}
}
