package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/dockgrid/dockgrid/pkg/grid"
)

// ResolveVacancies redistributes the space vacated by detached panes to
// attached panes that opted in with FillDetached, and returns the final
// placement map. Detached panes have no entry in the result; uncovered
// vacancy cells simply stay blank.
//
// # Vacancies
//
// Each detached pane vacates its seed rectangle from the grid definition,
// never its expanded base rectangle. Vacancies are resolved one detached
// pane at a time, in row-major order of the seed position, and each grant
// updates the placement map immediately so later vacancies see current
// occupancy. Adjacent vacancies are still resolved separately; a candidate
// can grow across both in sequential grants if its limits allow.
//
// # Eligibility
//
// A candidate must be attached, have FillDetached set, have budget left in
// the growth direction, and share a full edge with the vacancy: the entire
// vacancy edge adjacent to that one candidate, with matching extent, so
// that a grant keeps the candidate rectangular. At most one rectangle can
// cover a given vacancy edge, so a vacancy has at most four candidates at
// a time.
//
// # Grants
//
// Candidates are ordered by the side they occupy (left, up, right, down),
// then priority descending, then row-major seed order. The first candidate
// receives min(vacancy extent toward it, remaining limit) cells; the
// shrunken remainder is re-offered against recomputed candidates. The loop
// is strictly greedy with no backtracking: once granted, cells are never
// taken back, even if a later vacancy could have used them better.
//
// Limits deplete across the whole pass: a pane that spent its rightward
// budget on one vacancy cannot grow rightward into another.
func ResolveVacancies(def *grid.Definition, reg grid.Registry, base map[string]grid.Rect, detached []string) map[string]grid.Rect {
	placements := maps.Clone(base)
	if placements == nil {
		placements = make(map[string]grid.Rect)
	}

	vacancies := make([]grid.Rect, 0, len(detached))
	for _, pane := range detached {
		delete(placements, pane)
		if seed, ok := def.Seed(pane); ok {
			vacancies = append(vacancies, seed)
		}
	}
	slices.SortFunc(vacancies, func(a, b grid.Rect) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})

	budget := newBudgets(reg)
	for _, vac := range vacancies {
		fillVacancy(def, reg, placements, budget, vac)
	}
	return placements
}

// fillVacancy grants a single vacancy to eligible neighbors until it is
// covered or no candidate remains.
func fillVacancy(def *grid.Definition, reg grid.Registry, placements map[string]grid.Rect, budget *budgets, vac grid.Rect) {
	for !vac.Empty() {
		cand, ok := bestCandidate(def, reg, placements, budget, vac)
		if !ok {
			return // remainder stays blank; valid terminal state
		}
		grant(placements, budget, cand, &vac)
	}
}

// candidate is one attached pane eligible to grow into the current
// vacancy, with the ordering keys resolved.
type candidate struct {
	pane string
	side grid.Direction // side of the vacancy the pane sits on
	prio int
	seed grid.Rect
}

func bestCandidate(def *grid.Definition, reg grid.Registry, placements map[string]grid.Rect, budget *budgets, vac grid.Rect) (candidate, bool) {
	var cands []candidate
	for pane, r := range placements {
		spec := reg.Spec(pane)
		if !spec.FillDetached {
			continue
		}
		side, ok := SharedEdge(r, vac)
		if !ok {
			continue
		}
		if budget.remaining(pane, Growth(side)) <= 0 {
			continue
		}
		seed, _ := def.Seed(pane)
		cands = append(cands, candidate{pane: pane, side: side, prio: spec.Priority, seed: seed})
	}
	if len(cands) == 0 {
		return candidate{}, false
	}
	slices.SortFunc(cands, compareCandidates)
	return cands[0], true
}

func compareCandidates(a, b candidate) int {
	if c := cmp.Compare(a.side, b.side); c != 0 {
		return c
	}
	if c := cmp.Compare(b.prio, a.prio); c != 0 {
		return c
	}
	if c := cmp.Compare(a.seed.Row, b.seed.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.seed.Col, b.seed.Col)
}

// SharedEdge reports which side of vac the rectangle covers in full, if
// any. The extent along the shared edge must match exactly; anything less
// would leave a gap, anything more would make the claimer L-shaped.
func SharedEdge(r, vac grid.Rect) (grid.Direction, bool) {
	sameRows := r.Row == vac.Row && r.RowSpan == vac.RowSpan
	sameCols := r.Col == vac.Col && r.ColSpan == vac.ColSpan
	switch {
	case sameRows && r.Right() == vac.Col:
		return grid.Left, true
	case sameCols && r.Bottom() == vac.Row:
		return grid.Up, true
	case sameRows && vac.Right() == r.Col:
		return grid.Right, true
	case sameCols && vac.Bottom() == r.Row:
		return grid.Down, true
	}
	return 0, false
}

// Growth maps the side a candidate occupies to the direction it grows:
// a pane left of the vacancy grows rightward, and so on.
func Growth(side grid.Direction) grid.Direction {
	switch side {
	case grid.Left:
		return grid.Right
	case grid.Up:
		return grid.Down
	case grid.Right:
		return grid.Left
	default:
		return grid.Up
	}
}

// grant gives the candidate as much of the vacancy as its budget allows
// and shrinks the vacancy accordingly.
func grant(placements map[string]grid.Rect, budget *budgets, c candidate, vac *grid.Rect) {
	r := placements[c.pane]
	dir := Growth(c.side)

	switch c.side {
	case grid.Left:
		n := min(vac.ColSpan, budget.remaining(c.pane, dir))
		r.ColSpan += n
		vac.Col += n
		vac.ColSpan -= n
		budget.spend(c.pane, dir, n)
	case grid.Up:
		n := min(vac.RowSpan, budget.remaining(c.pane, dir))
		r.RowSpan += n
		vac.Row += n
		vac.RowSpan -= n
		budget.spend(c.pane, dir, n)
	case grid.Right:
		n := min(vac.ColSpan, budget.remaining(c.pane, dir))
		r.Col -= n
		r.ColSpan += n
		vac.ColSpan -= n
		budget.spend(c.pane, dir, n)
	case grid.Down:
		n := min(vac.RowSpan, budget.remaining(c.pane, dir))
		r.Row -= n
		r.RowSpan += n
		vac.RowSpan -= n
		budget.spend(c.pane, dir, n)
	}

	placements[c.pane] = r
}

// budgets tracks each pane's remaining grantable cells per direction
// across one resolution pass.
type budgets struct {
	reg grid.Registry
	rem map[string]grid.Limits
}

func newBudgets(reg grid.Registry) *budgets {
	return &budgets{reg: reg, rem: make(map[string]grid.Limits)}
}

func (b *budgets) limits(pane string) grid.Limits {
	if l, ok := b.rem[pane]; ok {
		return l
	}
	l := b.reg.Spec(pane).Limits
	b.rem[pane] = l
	return l
}

func (b *budgets) remaining(pane string, d grid.Direction) int {
	return b.limits(pane).In(d)
}

func (b *budgets) spend(pane string, d grid.Direction, n int) {
	l := b.limits(pane)
	switch d {
	case grid.Up:
		l.Up -= n
	case grid.Down:
		l.Down -= n
	case grid.Left:
		l.Left -= n
	case grid.Right:
		l.Right -= n
	}
	b.rem[pane] = l
}
