// Package api exposes an editor controller over HTTP for browser renderers.
//
// # Routes
//
//	GET  /health       liveness probe
//	GET  /state        current nodes, edges, history flags and viewport
//	POST /events       apply one event (see [editor.Event]); returns the outcome and new state
//	GET  /document     the diagram as a [graph.Document]
//	GET  /export.dot   Graphviz DOT with pinned positions
//	GET  /export.svg   the same drawing rendered to SVG
//	GET  /metrics      Prometheus metrics, when configured
//
// Requests are serialised with a mutex, so the controller only ever sees
// one event at a time.
//
// # Errors
//
// Failures are returned as JSON:
//
//	{"error": {"code": "INVALID_EVENT", "message": "unknown event type \"explode\""}}
//
// INVALID_* codes map to 400, UNSUPPORTED to 501 and everything else to 500.
package api
