package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/engine"
)

// layoutCommand creates the layout command for computing diagram scenes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		themePath string
	)

	cmd := &cobra.Command{
		Use:   "layout [document.json]",
		Short: "Compute a scene from a diagram document",
		Long: `Compute a scene from a diagram document.

The layout command takes a document.json file, runs structural repair and a
full layout pass, and writes the resulting scene: positioned lifelines,
nodes, anchors, process bars, and edges, in absolute pixel coordinates.

Broken documents are repaired rather than rejected; the pass logs what it
re-anchored or removed. A degraded result (slot cap exhausted) is reported
in the stats line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, themePath)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().StringVar(&themePath, "theme", "", "TOML theme file overlaying the defaults")

	return cmd
}

// runLayout loads the document, computes the scene, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, themePath string) error {
	doc, err := diagram.ReadDocumentFile(input)
	if err != nil && doc == nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	if err != nil {
		// Structurally invalid but decodable: the engine repairs it.
		c.Logger.Warn("document invalid, repairing", "error", err)
	}

	th, err := loadTheme(themePath)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	eng := engine.New(doc, th, c.Logger)
	scene := eng.Layout(ctx)
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".scene.json"
	}

	if err := writeSceneFile(scene, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(scene.Lifelines), len(scene.Nodes), scene.SlotCount, scene.Degraded())
	printNewline()
	printNextStep("Edit", "seqline edit "+input)

	return nil
}

func writeSceneFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
