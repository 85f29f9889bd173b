// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation of the editor without adding
// hard dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about commits, undo/redo, auto-arrange
// and bounds corrections.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define a hook interface per event category
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// A controller may also be given its own hooks directly, which take
// precedence over the global registry.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    // ... run application
//	}
//
// The editor calls hooks to emit events:
//
//	observability.Editor().OnCommit("drag-end", nodeCount, edgeCount)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the editor controller.
// Hooks are called synchronously from the event handler and must not block.
type EditorHooks interface {
	// History events
	OnCommit(reason string, nodeCount, edgeCount int)
	OnUndo(nodeCount, edgeCount int)
	OnRedo(nodeCount, edgeCount int)

	// Layout events
	OnLayoutStart(ticket string, nodeCount int)
	OnLayoutComplete(ticket string, levels int, duration time.Duration)
	OnLayoutCancelled(ticket, reason string)

	// OnBoundsCorrected records how many nodes were clamped into the viewport.
	OnBoundsCorrected(corrected int)

	// OnRejected records a request absorbed as a no-op.
	OnRejected(event, reason string)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnCommit(string, int, int)                   {}
func (NoopEditorHooks) OnUndo(int, int)                             {}
func (NoopEditorHooks) OnRedo(int, int)                             {}
func (NoopEditorHooks) OnLayoutStart(string, int)                   {}
func (NoopEditorHooks) OnLayoutComplete(string, int, time.Duration) {}
func (NoopEditorHooks) OnLayoutCancelled(string, string)            {}
func (NoopEditorHooks) OnBoundsCorrected(int)                       {}
func (NoopEditorHooks) OnRejected(string, string)                   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editor is created.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
}
