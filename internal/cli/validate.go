package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dockgrid/dockgrid/pkg/manifest"
)

// validateCommand creates the validate command for checking grid manifests.
func (c *CLI) validateCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "validate <manifest.toml>",
		Short: "Check a grid manifest and report diagnostics",
		Long: `Check a grid manifest and report diagnostics.

The validate command parses the manifest, checks the grid for ragged rows and
non-rectangular seeds, and verifies that every pane section refers to a pane
present in the grid. With --write, the manifest is rewritten in canonical
form: normalized cells, sorted pane sections, and zero-valued policies omitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], write)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the manifest in canonical form")

	return cmd
}

func (c *CLI) runValidate(path string, write bool) error {
	def, reg, meta, err := manifest.Load(path)
	if err != nil {
		printError("Invalid manifest")
		printDetail("%v", err)
		return err
	}

	name := meta.Name
	if name == "" {
		name = path
	}
	printSuccess("Manifest is valid")
	printKeyValue("Name", name)
	printKeyValue("Grid", fmt.Sprintf("%dx%d", def.Rows(), def.Cols()))
	printKeyValue("Panes", fmt.Sprintf("%d", def.PaneCount()))

	if !write {
		return nil
	}

	data, err := manifest.Canonical(def, reg, meta)
	if err != nil {
		return fmt.Errorf("canonicalize manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	printSuccess("Rewrote manifest in canonical form")
	printFile(path)

	return nil
}
