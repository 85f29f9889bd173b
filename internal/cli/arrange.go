package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/flow/layout"
)

// arrangeCommand creates the arrange command for layering a diagram.
func (c *CLI) arrangeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "arrange [diagram.json]",
		Short: "Arrange a diagram into layers",
		Long: `Arrange a diagram into layers.

Every node is placed on the row of its longest path from a root, and rows
are centred on x = 0. Spacing comes from the [layout] config section. If the
diagram carries a viewport, arranged nodes are kept inside it.

Edges that close a cycle are reported; they do not stop the arrangement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArrange(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.arranged.<ext>)")

	return cmd
}

// runArrange loads the diagram, arranges and settles it, and writes output.
func (c *CLI) runArrange(ctx context.Context, input, output string) error {
	g, vp, err := loadDocument(input)
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))

	if back := layout.BackEdges(g); len(back) > 0 {
		printWarning("%d back edge(s) ignored for levelling", len(back))
		for _, e := range back {
			printDetail("%s -> %s", e.Source, e.Target)
		}
	}

	ctrl := c.newController(g, nil)
	if vp != nil {
		ctrl.SetViewport(*vp)
	}
	ticket, ok := ctrl.AutoArrange()
	if !ok {
		printWarning("%s has no nodes, nothing to arrange", input)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ctrl.SettleLayout(ticket)

	arranged := ctrl.Graph()
	outPath := outputPath(input, output, "arranged")
	if err := saveDocument(arranged, vp, outPath); err != nil {
		return err
	}
	prog.done("Arranged " + input)

	levels := layout.Levels(arranged)
	depth := 0
	if len(levels) > 0 {
		depth = slices.Max(slices.Collect(maps.Values(levels))) + 1
	}

	printSuccess("Arrange complete")
	printFile(outPath)
	printStats(arranged.NodeCount(), arranged.EdgeCount(), fmt.Sprintf("%d levels", depth))
	printNewline()
	printNextStep("Export", appName+" export "+outPath)

	return nil
}
