// Package claim renders the fill-candidacy graph of a layout: which panes
// could claim whose space if that pane detached.
//
// Nodes are panes; an edge C -> D means C is positioned and configured to
// grow into D's seed rectangle when D detaches, labeled with the growth
// direction and the per-direction limit. The graph is a debugging aid for
// manifest authors: a pane with no inbound edges leaves a blank hole when
// detached.
package claim

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/layout"
)

// ToDOT converts a layout's fill candidacies to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Candidacies are evaluated against the base placement with every pane
// attached: C -> D exists when C's base rectangle covers a full edge of
// D's seed rectangle, C has FillDetached set, and C has budget in the
// growth direction. Runtime resolution can differ once several panes are
// detached at once; the graph shows first-order reachability only.
func ToDOT(def *grid.Definition, reg grid.Registry) string {
	base := layout.BaseSpans(def, reg)

	var buf bytes.Buffer
	buf.WriteString("digraph claims {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, pane := range def.Panes() {
		seed, _ := def.Seed(pane)
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprintf("%s\n%s", pane, seed))}
		if reg.Spec(pane).FillDetached {
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", pane, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, target := range def.Panes() {
		vacancy, _ := def.Seed(target)
		for _, claimer := range def.Panes() {
			if claimer == target {
				continue
			}
			spec := reg.Spec(claimer)
			if !spec.FillDetached {
				continue
			}
			side, ok := layout.SharedEdge(base[claimer], vacancy)
			if !ok {
				continue
			}
			dir := layout.Growth(side)
			limit := spec.Limits.In(dir)
			if limit <= 0 {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", claimer, target, fmt.Sprintf("%s %d", dir, limit))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
