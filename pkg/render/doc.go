// Package render provides output rendering for computed pane layouts.
//
// # Overview
//
// This package groups the renderers that turn a grid definition and a
// placement map into concrete outputs:
//
//   - [svg]: Scalable vector output for browsers and documentation
//   - [term]: Box-drawing output for terminal preview
//   - [claim]: Graphviz claim graphs showing which panes can fill which
//     vacancies
//
// All renderers are pure: they take the definition and the placements
// computed by the layout engine and produce bytes, with no I/O of their
// own. Detached panes are simply absent from the placement map, so
// vacancies show up as blank space without renderer involvement.
//
//	placements, _ := layout.Compute(def, reg, []string{"sidebar"})
//	img := svg.Render(def, placements)
//	txt := term.Render(def, placements)
//
// # Claim Graphs
//
// The [claim] subpackage is a debugging aid: it emits a DOT digraph with
// one edge per potential vacancy claim, labeled with the direction and
// limit. Graphviz turns it into an SVG.
//
//	dot := claim.ToDOT(def, reg)
//	img, err := claim.RenderSVG(dot)
//
// [svg]: github.com/dockgrid/dockgrid/pkg/render/svg
// [term]: github.com/dockgrid/dockgrid/pkg/render/term
// [claim]: github.com/dockgrid/dockgrid/pkg/render/claim
package render
