package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/flow/bounds"
)

// boundsCommand creates the bounds command for pulling nodes into a viewport.
func (c *CLI) boundsCommand() *cobra.Command {
	var (
		output string
		vp     bounds.Viewport
	)

	cmd := &cobra.Command{
		Use:   "bounds [diagram.json]",
		Short: "Move off-screen nodes back into a viewport",
		Long: `Move off-screen nodes back into a viewport.

The viewport is taken from the flags, or from the diagram file when
--width and --height are not given. Every node whose top-left corner lies
outside the padded visible region is moved onto its nearest edge.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *bounds.Viewport
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
				override = &vp
			}
			return c.runBounds(args[0], output, override)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.bounded.<ext>)")
	cmd.Flags().Float64Var(&vp.Zoom, "zoom", 1, "viewport zoom")
	cmd.Flags().Float64Var(&vp.X, "x", 0, "viewport pan offset x (screen pixels)")
	cmd.Flags().Float64Var(&vp.Y, "y", 0, "viewport pan offset y (screen pixels)")
	cmd.Flags().Float64Var(&vp.Width, "width", 0, "container width (screen pixels)")
	cmd.Flags().Float64Var(&vp.Height, "height", 0, "container height (screen pixels)")

	return cmd
}

// runBounds clamps the diagram into the viewport and writes output.
func (c *CLI) runBounds(input, output string, override *bounds.Viewport) error {
	g, vp, err := loadDocument(input)
	if err != nil {
		return err
	}
	if override != nil {
		vp = override
	}
	if vp == nil || !vp.Known() {
		return fmt.Errorf("%s: no usable viewport (set --width and --height)", input)
	}

	opts := c.cfg.BoundsOptions()
	region, _ := bounds.Region(*vp, opts)
	bounded, corrected := bounds.Enforce(g, *vp, opts)

	outPath := outputPath(input, output, "bounded")
	if err := saveDocument(bounded, vp, outPath); err != nil {
		return err
	}

	printSuccess("Bounds applied")
	printKeyValue("region", fmt.Sprintf("(%g, %g) to (%g, %g)", region.Left, region.Top, region.Right, region.Bottom))
	printKeyValue("corrected", fmt.Sprintf("%d of %d nodes", corrected, bounded.NodeCount()))
	printFile(outPath)

	return nil
}
