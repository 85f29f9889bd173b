// Package pkg provides the libraries behind flowedit, an editor engine for
// node/edge diagrams.
//
// # Overview
//
// The editor core is renderer-agnostic: a browser canvas, a terminal UI and
// a batch replay all drive the same controller through the same operations.
// The pkg directory is organized into three areas:
//
//  1. Core - [flow] (graph model), [flow/history] (undo/redo snapshots),
//     [flow/layout] (leveled auto-arrange), [flow/bounds] (viewport
//     clamping) and [editor] (the controller that orchestrates them)
//  2. Collaborators - [graph] (diagram files), [render] (DOT/SVG/PDF/PNG
//     export) and [api] (HTTP transport for a browser renderer)
//  3. Infrastructure - [config], [errors], [observability], [cache] and
//     [buildinfo]
//
// # Architecture
//
// A typical interaction:
//
//	renderer event (drag, connect, arrange, ...)
//	         ↓
//	    [editor] Controller.Dispatch
//	         ↓
//	    [flow] Graph update → [flow/bounds] Enforce → [flow/history] Commit
//	         ↓
//	    editor.State handed back to the renderer
//
// # Quick Start
//
// Load a diagram, arrange it and write it back:
//
//	import (
//	    "github.com/matzehuels/flowedit/pkg/editor"
//	    "github.com/matzehuels/flowedit/pkg/graph"
//	)
//
//	doc, _ := graph.ReadFile("diagram.json")
//	g, _ := doc.ToFlow()
//
//	ctrl := editor.New(g, editor.DefaultOptions())
//	if ticket, ok := ctrl.AutoArrange(); ok {
//	    ctrl.SettleLayout(ticket)
//	}
//
//	graph.WriteFile(graph.FromFlow(ctrl.Graph(), nil), "diagram.json")
//
// # Invariants
//
// Every graph the editor exposes has unique node and edge IDs and no edge
// pointing at a missing node. Only completed gestures are recorded in
// history; drag moves, selection and viewport corrections are not.
package pkg
