package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dockgrid/dockgrid/pkg/pipeline"
	"github.com/dockgrid/dockgrid/pkg/render/claim"
)

// renderCommand creates the render command for generating layout artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats   string
		outputDir string
		noCache   bool
		claims    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <manifest.toml>",
		Short: "Render a layout as SVG, text, JSON, or DOT",
		Long: `Render a layout as SVG, text, JSON, or DOT.

The render command computes the layout for the manifest and writes one file
per requested format next to the manifest (or into --output-dir). The txt
format draws the grid with box-drawing characters for terminal preview; dot
emits the claim graph showing which panes can fill which vacancies.

With --claims, the claim graph is additionally rendered to an SVG via
Graphviz.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ManifestPath = args[0]
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd.Context(), opts, outputDir, noCache, claims)
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated output formats: svg (default), txt, json, dot")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: manifest directory)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringArrayVarP(&opts.Detached, "detach", "d", nil, "detach a pane before computing (repeatable)")
	cmd.Flags().IntVar(&opts.CellSize, "cell-size", 0, "cell edge length in pixels (svg)")
	cmd.Flags().IntVar(&opts.Gap, "gap", 0, "gap between panes in pixels (svg)")
	cmd.Flags().BoolVar(&opts.NoLabels, "no-labels", false, "omit pane labels")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&claims, "claims", false, "also render the claim graph as SVG via Graphviz")

	return cmd
}

// runRender executes the pipeline and writes one artifact file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, outputDir string, noCache, claims bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := strings.TrimSuffix(filepath.Base(opts.ManifestPath), filepath.Ext(opts.ManifestPath))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(opts.ManifestPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	printSuccess("Render complete")

	for _, format := range opts.Formats {
		path := filepath.Join(dir, base+"."+format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	if claims {
		svg, err := claim.RenderSVG(claim.ToDOT(result.Definition, result.Registry))
		if err != nil {
			return fmt.Errorf("render claim graph: %w", err)
		}
		path := filepath.Join(dir, base+".claims.svg")
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.PaneCount, result.Stats.DetachedCount, result.CacheInfo.RenderHit)

	return nil
}
