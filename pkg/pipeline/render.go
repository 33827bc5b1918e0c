package pipeline

import (
	"fmt"

	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/render/claim"
	"github.com/dockgrid/dockgrid/pkg/render/svg"
	"github.com/dockgrid/dockgrid/pkg/render/term"
	"github.com/dockgrid/dockgrid/pkg/snapshot"
)

// renderFormats generates artifacts for each requested format.
// The snapshot bytes are passed in so the JSON format reuses the
// serialization already produced for the cache key.
func renderFormats(def *grid.Definition, reg grid.Registry, snap snapshot.Snapshot, snapData []byte, opts Options) (map[string][]byte, error) {
	placements := snap.Placements()
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte

		switch format {
		case FormatJSON:
			data = snapData
		case FormatSVG:
			data = svg.Render(def, placements, svgOptions(opts)...)
		case FormatTxt:
			data = []byte(term.Render(def, placements, termOptions(opts)...))
		case FormatDOT:
			data = []byte(claim.ToDOT(def, reg))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		artifacts[format] = data
	}

	return artifacts, nil
}

// svgOptions builds SVG rendering options.
func svgOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option
	if opts.CellSize != 0 {
		svgOpts = append(svgOpts, svg.WithCellSize(opts.CellSize))
	}
	if opts.Gap != 0 {
		svgOpts = append(svgOpts, svg.WithGap(opts.Gap))
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, svg.WithoutLabels())
	}
	return svgOpts
}

// termOptions builds terminal rendering options.
func termOptions(opts Options) []term.Option {
	var termOpts []term.Option
	if opts.NoLabels {
		termOpts = append(termOpts, term.WithoutLabels())
	}
	return termOpts
}
