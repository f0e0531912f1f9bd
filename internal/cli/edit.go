package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/engine"
)

// editCommand creates the edit command opening the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var themePath string

	cmd := &cobra.Command{
		Use:   "edit [document.json]",
		Short: "Edit a diagram interactively in the terminal",
		Long: `Edit a diagram interactively in the terminal.

The editor renders the laid-out diagram and supports the drag protocol with
the keyboard: pick up a node and move it between slots, or pick up an anchor
and move it across lifelines. Moves preview live and only commit on confirm;
escape reverts to the exact pre-drag state.

Key bindings:
  up/down      select a node, or move a picked-up node between slots
  left/right   move a picked-up anchor across lifelines
  enter        pick up the selected node / commit the current drag
  a, t         pick up the selected node's source / target anchor
  s            save the document
  esc          cancel the current drag
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], themePath)
		},
	}

	cmd.Flags().StringVar(&themePath, "theme", "", "TOML theme file overlaying the defaults")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, input, themePath string) error {
	doc, err := diagram.ReadDocumentFile(input)
	if err != nil && doc == nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	if err != nil {
		c.Logger.Warn("document invalid, repairing", "error", err)
	}

	th, err := loadTheme(themePath)
	if err != nil {
		return err
	}

	eng := engine.New(doc, th, c.Logger)
	m := newEditorModel(eng, input)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	if fm, ok := final.(editorModel); ok && fm.dirty {
		printWarning("Unsaved changes discarded")
	}
	return nil
}
