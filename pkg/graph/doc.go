// Package graph provides the JSON document format for flowedit diagrams.
//
// This package sits at the serialization boundary between the editor's
// in-memory [flow.Graph] and files, the replay command and the HTTP
// transport. The format follows the node/edge shape used by browser flow
// renderers, so a document can be loaded by either side unchanged.
//
// # Document Format
//
//	{
//	  "nodes": [
//	    {"id": "a", "type": "custom", "position": {"x": 0, "y": 0},
//	     "data": {"label": "Start", "content": "...", "type": "default"}}
//	  ],
//	  "edges": [
//	    {"id": "flow__edge-abottom-btop", "source": "a", "target": "b",
//	     "sourceHandle": "bottom", "targetHandle": "top",
//	     "type": "custom", "animated": true,
//	     "style": {"stroke": "var(--color-edge)"}, "data": {"label": "connected"}}
//	  ],
//	  "viewport": {"zoom": 1, "x": 0, "y": 0, "width": 1280, "height": 720}
//	}
//
// Edges without an "id" receive the identifier the editor would generate for
// the same connection. The viewport is optional.
//
// Common operations:
//
//	doc, _ := graph.ReadFile("diagram.json")   // File → Document
//	g, _ := doc.ToFlow()                       // Document → flow.Graph
//	out := graph.FromFlow(g, &viewport)        // flow.Graph → Document
//	graph.WriteFile(out, "diagram.json")       // Document → File
//
// # Validation
//
// [Document.ToFlow] rejects empty, oversized or control-character IDs with
// INVALID_INPUT, and duplicate IDs or dangling edges with INVALID_GRAPH.
// Decoding failures are INVALID_DOCUMENT.
package graph
