// Package render provides export rendering for flowedit diagrams.
//
// # Overview
//
// Diagrams are drawn by the [nodelink] subpackage, which turns a positioned
// [flow.Graph] into Graphviz DOT and renders it to SVG in-process. This
// package converts that SVG to other formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG using the external
// rsvg-convert tool (from librsvg):
//
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed both return an UNSUPPORTED error.
package render

// Output formats understood by the export command.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatDOT, FormatSVG, FormatPDF, FormatPNG}
