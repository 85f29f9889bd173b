// Package flow provides the graph model of the diagram editor.
//
// # Overview
//
// A [Graph] is an immutable value holding an ordered sequence of [Node]s and
// an ordered sequence of [Edge]s. Every mutating operation returns a new
// Graph and leaves its receiver untouched, so a Graph can be stored in the
// undo history, handed to the layout engine, or rendered without copying.
// Untouched elements are shared structurally between the old and new value;
// the slices themselves are never aliased.
//
// Ordering is insertion order. It matters for rendering (stacking) and for
// the left-to-right order chosen by auto-arrange, never for correctness.
//
// # Invariants
//
// Every Graph returned by this package satisfies:
//   - Node IDs are unique and non-empty
//   - Edge IDs are unique and non-empty
//   - Every edge's Source and Target name a node in the same Graph
//
// Removing a node removes all incident edges in the same step, so no
// dangling edge is ever observable.
//
// # Connections
//
// Edges are created from a [Connection]. A connection is only valid when
// both endpoint nodes exist and both handles are named:
//
//	g, ok := g.AddEdge(flow.Connection{
//	    Source: "a", SourceHandle: "bottom",
//	    Target: "b", TargetHandle: "top",
//	})
//
// Invalid connections are rejected as no-ops (ok == false), never errors.
//
// # Metadata
//
// [NodeData] and [EdgeData] are opaque to the editor beyond identity. Their
// Meta maps, like Edge.Style, are shared between Graph values and must be
// treated as read-only once the element is part of a Graph.
package flow
