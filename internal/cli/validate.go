package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqline/pkg/diagram"
)

// validateCommand creates the validate command for checking document invariants.
func (c *CLI) validateCommand() *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "validate [document.json]",
		Short: "Check a diagram document against the model invariants",
		Long: `Check a diagram document against the model invariants.

Validation verifies that lifeline orders are dense, every anchor references
an existing lifeline, each node connects two distinct lifelines, and every
process groups anchors on a single lifeline.

With --repair, violations are fixed in place where possible: orders are
renumbered, dangling anchors re-anchored or their nodes removed, and broken
processes pruned. The repaired document overwrites the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], repair)
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "repair violations in place")

	return cmd
}

func (c *CLI) runValidate(input string, repair bool) error {
	doc, err := diagram.ReadDocumentFile(input)
	if doc == nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	if err == nil {
		printSuccess("Document valid")
		printStats(len(doc.Lifelines), len(doc.Nodes), 0, false)
		return nil
	}

	if !repair {
		printError("Document invalid")
		printDetail("%v", err)
		printNewline()
		printNextStep("Repair", "seqline validate --repair "+input)
		return err
	}

	prog := newProgress(c.Logger)
	report := doc.Repair()
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("document still invalid after repair: %w", err)
	}
	prog.done("Repaired document")
	if err := diagram.WriteDocumentFile(doc, input); err != nil {
		return fmt.Errorf("write repaired document: %w", err)
	}

	printSuccess("Document repaired")
	if n := len(report.ReanchoredNodes); n > 0 {
		printDetail("re-anchored %d nodes", n)
	}
	if n := len(report.RemovedNodes); n > 0 {
		printDetail("removed %d nodes", n)
	}
	if n := len(report.PrunedProcesses); n > 0 {
		printDetail("pruned %d processes", n)
	}
	printFile(input)
	return nil
}
