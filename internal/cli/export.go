package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/cache"
	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/render"
	"github.com/matzehuels/flowedit/pkg/render/nodelink"
)

// exportCommand creates the export command for rendering a diagram.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		opts       nodelink.Options
		pngScale   float64
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "export [diagram.json]",
		Short: "Export a diagram to DOT, SVG, PDF or PNG",
		Long: `Export a diagram to DOT, SVG, PDF or PNG.

Nodes are drawn at their stored positions; nothing is re-arranged. Run
'arrange' first for a layered drawing.

SVG is rendered in-process with Graphviz. PDF and PNG are converted from the
SVG and require rsvg-convert (librsvg) on the PATH.

Rendered SVG is cached locally, so re-exporting an unchanged diagram is fast.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := validateFormats(formats); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], formats, output, opts, pngScale, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 1, "graph units to points")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include node content in labels")
	cmd.Flags().Float64Var(&pngScale, "png-scale", 2, "PNG pixel density")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return formats
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// runExport renders every requested format and writes one file per format.
func (c *CLI) runExport(ctx context.Context, input string, formats []string, output string, opts nodelink.Options, pngScale float64, noCache bool) error {
	g, _, err := loadDocument(input)
	if err != nil {
		return err
	}
	renders := c.newRenderCache(noCache)
	defer renders.Close()

	sp := newSpinner(ctx, "Rendering "+input+"...")
	sp.Start()
	artifacts, err := exportFormats(ctx, g, formats, opts, pngScale, renders)
	if err != nil {
		sp.StopWithError("Export failed")
		return err
	}
	sp.Stop()

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	printSuccess("Export complete")
	for _, f := range formats {
		path := base + "." + f
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(g.NodeCount(), g.EdgeCount())

	return nil
}

// exportFormats renders g to each format. The SVG is rendered once and
// reused for PDF and PNG conversion.
func exportFormats(ctx context.Context, g flow.Graph, formats []string, opts nodelink.Options, pngScale float64, renders cache.Cache) (map[string][]byte, error) {
	dot := nodelink.ToDOT(g, opts)
	out := make(map[string][]byte, len(formats))

	var svg []byte
	needSVG := slices.ContainsFunc(formats, func(f string) bool { return f != render.FormatDOT })
	if needSVG {
		var (
			hit bool
			err error
		)
		if svg, hit, err = nodelink.RenderSVGCached(ctx, renders, dot); err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		loggerFromContext(ctx).Debug("rendered svg", "cached", hit, "bytes", len(svg))
	}

	for _, f := range formats {
		var (
			data []byte
			err  error
		)
		switch f {
		case render.FormatDOT:
			data = []byte(dot)
		case render.FormatSVG:
			data = svg
		case render.FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		case render.FormatPNG:
			data, err = render.ToPNG(ctx, svg, pngScale)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}

// newRenderCache opens the on-disk render cache, or a null cache when
// disabled or when the cache directory is unusable.
func (c *CLI) newRenderCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cache.Dir()
	if err != nil {
		c.Logger.Debug("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "renders"))
	if err != nil {
		c.Logger.Debug("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}
