package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dockgrid/dockgrid/pkg/pipeline"
	"github.com/dockgrid/dockgrid/pkg/snapshot"
)

// layoutCommand creates the layout command for computing pane placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		asJSON  bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <manifest.toml>",
		Short: "Compute pane placements from a grid manifest",
		Long: `Compute pane placements from a grid manifest.

The layout command parses the manifest, expands each pane from its seed
rectangle according to its policy, and resolves any vacancies left by
detached panes. The result is printed as a placement table, or written
as a snapshot JSON file with --output.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ManifestPath = args[0]
			return c.runLayout(cmd.Context(), opts, output, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write snapshot JSON to file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print snapshot JSON to stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringArrayVarP(&opts.Detached, "detach", "d", nil, "detach a pane before computing (repeatable)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached results")

	return cmd
}

// runLayout computes the layout and writes or prints the result.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, asJSON, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	def, reg, meta, hash, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Invalid manifest")
		return err
	}

	snap, cacheHit, err := runner.ComputeWithCacheInfo(ctx, def, reg, meta, hash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if asJSON {
		data, err := snapshot.Marshal(snap)
		if err != nil {
			return fmt.Errorf("serialize snapshot: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if output != "" {
		if err := snapshot.WriteFile(snap, output); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(len(snap.Panes), len(snap.Detached), cacheHit)
		printNewline()
		printNextStep("Render", "dockgrid render "+opts.ManifestPath)
		return nil
	}

	printSuccess("Layout complete")
	printPlacementTable(snap)
	printStats(len(snap.Panes), len(snap.Detached), cacheHit)

	return nil
}

// printPlacementTable prints pane placements as a bordered table.
// Detached panes are listed last with no span.
func printPlacementTable(snap snapshot.Snapshot) {
	rows := [][]string{}
	for _, pane := range snap.Panes {
		if pane.State == snapshot.StateDetached || pane.Rect == nil {
			continue
		}
		r := pane.Rect
		rows = append(rows, []string{
			pane.Name,
			pane.State,
			fmt.Sprintf("%d,%d", r.Row, r.Col),
			fmt.Sprintf("%dx%d", r.RowSpan, r.ColSpan),
		})
	}
	for _, name := range snap.Detached {
		rows = append(rows, []string{name, snapshot.StateDetached, "-", "-"})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detachedStyle := lipgloss.NewStyle().Foreground(colorDim)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Pane", "State", "Origin", "Span").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && rows[row][1] == snapshot.StateDetached {
				return detachedStyle
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(os.Stdout, t.Render())
}
