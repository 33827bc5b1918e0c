package grid

import "testing"

func TestRect_Bounds(t *testing.T) {
	r := Rect{Row: 1, Col: 2, RowSpan: 3, ColSpan: 4}
	if r.Right() != 6 {
		t.Errorf("Right() = %d, want 6", r.Right())
	}
	if r.Bottom() != 4 {
		t.Errorf("Bottom() = %d, want 4", r.Bottom())
	}
	if r.Area() != 12 {
		t.Errorf("Area() = %d, want 12", r.Area())
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Row: 1, Col: 1, RowSpan: 2, ColSpan: 2}
	cases := []struct {
		row, col int
		want     bool
	}{
		{1, 1, true},
		{2, 2, true},
		{0, 1, false},
		{3, 1, false}, // bottom bound is exclusive
		{1, 3, false}, // right bound is exclusive
	}
	for _, tc := range cases {
		if got := r.Contains(tc.row, tc.col); got != tc.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 2}

	if b := (Rect{Row: 1, Col: 1, RowSpan: 2, ColSpan: 2}); !a.Overlaps(b) {
		t.Errorf("%v.Overlaps(%v) = false, want true", a, b)
	}
	// Edge-adjacent rectangles share no cell.
	if b := (Rect{Row: 0, Col: 2, RowSpan: 2, ColSpan: 1}); a.Overlaps(b) {
		t.Errorf("%v.Overlaps(%v) = true, want false", a, b)
	}
	if b := (Rect{Row: 2, Col: 0, RowSpan: 1, ColSpan: 2}); a.Overlaps(b) {
		t.Errorf("%v.Overlaps(%v) = true, want false", a, b)
	}
	if empty := (Rect{}); a.Overlaps(empty) {
		t.Errorf("%v.Overlaps(empty) = true, want false", a)
	}
}

func TestRect_In(t *testing.T) {
	r := Rect{Row: 0, Col: 1, RowSpan: 3, ColSpan: 1}
	if !r.In(3, 3) {
		t.Errorf("%v.In(3,3) = false, want true", r)
	}
	if r.In(2, 3) {
		t.Errorf("%v.In(2,3) = true, want false", r)
	}
	if out := (Rect{Row: -1, Col: 0, RowSpan: 1, ColSpan: 1}); out.In(3, 3) {
		t.Errorf("%v.In(3,3) = true, want false", out)
	}
}

func TestRect_String(t *testing.T) {
	r := Rect{Row: 0, Col: 1, RowSpan: 3, ColSpan: 1}
	if got := r.String(); got != "(0,1 3x1)" {
		t.Errorf("String() = %q, want %q", got, "(0,1 3x1)")
	}
}
