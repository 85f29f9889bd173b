// Package history records committed editor states for undo and redo.
//
// A [History] is a linear stack of immutable [flow.Graph] snapshots with a
// cursor pointing at the current one. Committing while the cursor is behind
// the newest entry discards the entries ahead of it before appending, so
// redo after a fresh commit is always a no-op.
//
// A capacity bounds memory: once the stack is full, committing evicts the
// oldest snapshot. A capacity of zero or less keeps every snapshot.
//
// History is not safe for concurrent use. It is owned by the editor
// controller, which serialises all access.
package history

import "github.com/matzehuels/flowedit/pkg/flow"

// DefaultCapacity is the number of snapshots kept when no capacity is configured.
const DefaultCapacity = 100

// History is a bounded linear undo/redo stack.
//
// The zero value is an empty, unbounded history.
type History struct {
	entries  []flow.Graph
	cursor   int // index of the current entry; -1 when empty
	capacity int
}

// New creates an empty history keeping at most capacity snapshots.
func New(capacity int) *History {
	return &History{cursor: -1, capacity: capacity}
}

// Commit records g as the newest snapshot and moves the cursor to it.
// Entries newer than the cursor are discarded first.
func (h *History) Commit(g flow.Graph) {
	if len(h.entries) == 0 {
		h.cursor = -1
	}
	h.entries = append(h.entries[:h.cursor+1], g)
	if h.capacity > 0 && len(h.entries) > h.capacity {
		drop := len(h.entries) - h.capacity
		h.entries = append(h.entries[:0:0], h.entries[drop:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor one step back and returns the snapshot now under it.
// It returns false, leaving the cursor in place, at the oldest snapshot.
func (h *History) Undo() (flow.Graph, bool) {
	if !h.CanUndo() {
		return flow.Graph{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor one step forward and returns the snapshot now under it.
// It returns false, leaving the cursor in place, at the newest snapshot.
func (h *History) Redo() (flow.Graph, bool) {
	if !h.CanRedo() {
		return flow.Graph{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool { return len(h.entries) > 0 && h.cursor > 0 }

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool { return len(h.entries) > 0 && h.cursor < len(h.entries)-1 }

// Current returns the snapshot under the cursor, or false if nothing was committed.
func (h *History) Current() (flow.Graph, bool) {
	if len(h.entries) == 0 {
		return flow.Graph{}, false
	}
	return h.entries[h.cursor], true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Capacity returns the configured capacity; zero or less means unbounded.
func (h *History) Capacity() int { return h.capacity }

// Reset discards all snapshots and records g as the only one.
func (h *History) Reset(g flow.Graph) {
	h.entries = []flow.Graph{g}
	h.cursor = 0
}
