// Package nodelink renders flowedit diagrams as node-link drawings.
//
// # Overview
//
// Unlike a ranked Graphviz layout, every node is pinned to the position it
// has in the editor, so the export looks like the canvas. Run auto-arrange
// first for a leveled drawing.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderSVGCached] keeps renders in a [cache.Cache] keyed by the DOT source,
// so an unchanged diagram is rendered once.
//
// # DOT Format
//
// [ToDOT] emits one box per node with a pinned pos attribute in inches
// (72 graph units per inch at scale 1, y axis flipped so positive y points
// down as it does on screen) and one edge per diagram edge, labelled with the
// edge label. Selected elements are drawn with a heavier pen.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering
// with the neato engine, which honors pinned positions.
package nodelink
