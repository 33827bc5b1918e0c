package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dockgrid/dockgrid/pkg/layout"
	"github.com/dockgrid/dockgrid/pkg/manifest"
	"github.com/dockgrid/dockgrid/pkg/observability"
	"github.com/dockgrid/dockgrid/pkg/render/term"
)

// demoCommand creates the demo command, an interactive terminal playground
// for detaching and reattaching panes.
func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo <manifest.toml>",
		Short: "Interactively detach and reattach panes in the terminal",
		Long: `Interactively detach and reattach panes in the terminal.

The demo command loads the manifest and draws the computed layout. Select a
pane and toggle it to watch neighbors claim the vacancy according to their
policies. All changes are in-memory; the manifest is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(args[0])
		},
	}
}

func (c *CLI) runDemo(path string) error {
	def, reg, meta, err := manifest.Load(path)
	if err != nil {
		return err
	}

	engine, err := layout.New(def, reg)
	if err != nil {
		return err
	}

	name := meta.Name
	if name == "" {
		name = path
	}

	model := demoModel{
		engine: engine,
		title:  name,
		panes:  def.Panes(),
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// demoModel is the bubbletea model for the interactive layout playground.
// The engine is shared across Update calls; bubbletea runs them from a
// single goroutine, so no locking is needed.
type demoModel struct {
	engine *layout.Engine
	title  string
	panes  []string
	cursor int
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.panes)-1 {
				m.cursor++
			}
		case "enter", " ", "d":
			pane := m.panes[m.cursor]
			if state, err := m.engine.State(pane); err == nil {
				if state == layout.Detached {
					attachPane(m.engine, pane)
				} else {
					detachPane(m.engine, pane)
				}
			}
		case "r":
			for _, pane := range m.engine.Detached() {
				attachPane(m.engine, pane)
			}
		}
	}
	return m, nil
}

func (m demoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  r reset  q quit"))
	b.WriteString("\n\n")

	// Pane list with attachment states
	for i, pane := range m.panes {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		state, _ := m.engine.State(pane)
		var status string
		if state == layout.Detached {
			status = StyleWarning.Render("detached")
		} else {
			status = StyleSuccess.Render("attached")
		}

		line := fmt.Sprintf("%s%-16s %s", cursor, pane, status)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if state == layout.Detached {
			b.WriteString(listDimStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	// Live grid preview
	b.WriteString("\n")
	b.WriteString(term.Render(m.engine.Definition(), m.engine.Placements()))
	b.WriteString("\n")

	return b.String()
}

// detachPane and attachPane wrap the engine transitions with engine hooks
// so embedders registering observability see demo activity too.
func detachPane(e *layout.Engine, pane string) {
	start := time.Now()
	err := e.Detach(pane)
	observability.Engine().OnDetach(context.Background(), pane, time.Since(start), err)
}

func attachPane(e *layout.Engine, pane string) {
	start := time.Now()
	err := e.Attach(pane)
	observability.Engine().OnAttach(context.Background(), pane, time.Since(start), err)
}
