// Package editor implements the controller of the diagram editor.
//
// A [Controller] owns the live [flow.Graph] and its undo [history.History].
// Rendering collaborators (the terminal editor, the HTTP transport, a replay
// file) send it interaction events and read back a [State]. All mutations
// happen synchronously inside the call that triggered them.
//
// # Commit policy
//
// Snapshots are committed after a drag completes, after an edge is added or
// removed, after a selection is deleted, after a node is added and after an
// auto-arrange settles. Intermediate drag frames, selection changes, viewport
// changes and bounds corrections are never committed on their own; bounds
// corrections are folded into whatever state is committed next.
//
// # Auto-arrange
//
// [Controller.AutoArrange] applies the layout at once and returns a ticket.
// The renderer animates the new positions and then calls
// [Controller.SettleLayout] with that ticket, which commits the arranged
// state. Any structural edit made in between, including starting a drag,
// cancels the ticket, so a late settle can never overwrite newer state or
// commit a half-finished drag.
//
//	ticket, ok := c.AutoArrange()
//	// ... animate ...
//	c.SettleLayout(ticket)
//
// # Events
//
// [Event] is the serialisable form of every operation. [Controller.Dispatch]
// routes an event to the matching method; it is the only entry point that
// returns errors, and only for malformed events.
//
// A Controller is not safe for concurrent use. Callers that share one across
// goroutines must serialise access.
package editor
