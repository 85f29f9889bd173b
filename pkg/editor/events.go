package editor

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
)

// EventType names an interaction event.
type EventType string

// Interaction events understood by [Controller.Dispatch].
const (
	EventDragStart       EventType = "drag-start"
	EventDragMove        EventType = "drag-move"
	EventDragEnd         EventType = "drag-end"
	EventConnect         EventType = "connect"
	EventRemoveEdge      EventType = "remove-edge"
	EventSelect          EventType = "select"
	EventDeleteSelection EventType = "delete-selection"
	EventAddNode         EventType = "add-node"
	EventAutoArrange     EventType = "auto-arrange"
	EventLayoutSettled   EventType = "layout-settled"
	EventUndo            EventType = "undo"
	EventRedo            EventType = "redo"
	EventViewportChange  EventType = "viewport-change"
)

// Event is the serialisable form of a controller operation.
// Only the fields relevant to Type are read.
type Event struct {
	Type       EventType        `json:"type"`
	ID         string           `json:"id,omitempty"`
	IDs        []string         `json:"ids,omitempty"`
	Position   *flow.Position   `json:"position,omitempty"`
	Connection *flow.Connection `json:"connection,omitempty"`
	Viewport   *bounds.Viewport `json:"viewport,omitempty"`
	Ticket     string           `json:"ticket,omitempty"`
}

// Outcome reports what an event did.
type Outcome struct {
	Applied   bool   `json:"applied"`
	Committed bool   `json:"committed"`
	Ticket    string `json:"ticket,omitempty"` // set by auto-arrange
	NodeID    string `json:"nodeId,omitempty"` // set by add-node
}

// Dispatch applies ev to the controller.
//
// Requests the editor absorbs as no-ops, such as connecting a missing node
// or undoing at the oldest snapshot, return an Outcome with Applied false and
// a nil error. An INVALID_EVENT error is returned only when ev itself is
// malformed: an unknown type or a missing required field.
func (c *Controller) Dispatch(ev Event) (Outcome, error) {
	before := c.commits
	var out Outcome

	switch ev.Type {
	case EventDragStart:
		if ev.ID == "" {
			return out, missing(ev.Type, "id")
		}
		out.Applied = c.DragStart(ev.ID)
	case EventDragMove, EventDragEnd:
		if ev.ID == "" {
			return out, missing(ev.Type, "id")
		}
		if ev.Position == nil {
			return out, missing(ev.Type, "position")
		}
		if ev.Type == EventDragMove {
			out.Applied = c.DragMove(ev.ID, *ev.Position)
		} else {
			out.Applied = c.DragEnd(ev.ID, *ev.Position)
		}
	case EventConnect:
		if ev.Connection == nil {
			return out, missing(ev.Type, "connection")
		}
		out.Applied = c.Connect(*ev.Connection)
	case EventRemoveEdge:
		if ev.ID == "" {
			return out, missing(ev.Type, "id")
		}
		out.Applied = c.RemoveEdge(ev.ID)
	case EventSelect:
		c.Select(ev.IDs...)
		out.Applied = true
	case EventDeleteSelection:
		out.Applied = c.DeleteSelection()
	case EventAddNode:
		out.NodeID = c.AddNode().ID
		out.Applied = true
	case EventAutoArrange:
		out.Ticket, out.Applied = c.AutoArrange()
	case EventLayoutSettled:
		if ev.Ticket == "" {
			return out, missing(ev.Type, "ticket")
		}
		out.Applied = c.SettleLayout(ev.Ticket)
	case EventUndo:
		out.Applied = c.Undo()
	case EventRedo:
		out.Applied = c.Redo()
	case EventViewportChange:
		if ev.Viewport == nil {
			return out, missing(ev.Type, "viewport")
		}
		c.SetViewport(*ev.Viewport)
		out.Applied = true
	default:
		return out, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", ev.Type)
	}

	out.Committed = c.commits != before
	return out, nil
}

func missing(t EventType, field string) error {
	return errors.New(errors.ErrCodeInvalidEvent, "%s: missing %s", t, field)
}

// ParseEvent decodes a single JSON event.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		return Event{}, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode event")
	}
	return ev, nil
}

// ReadEvents decodes a stream of JSON events, either a single array or a
// sequence of objects (one per line is conventional). Unknown fields are
// rejected as in [ParseEvent].
func ReadEvents(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read events")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var events []Event
	if data[0] == '[' {
		if err := dec.Decode(&events); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode events")
		}
		if dec.More() {
			return nil, errors.New(errors.ErrCodeInvalidEvent, "decode events: data after array")
		}
		return events, nil
	}

	for dec.More() {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode event %d", len(events)+1)
		}
		events = append(events, ev)
	}
	return events, nil
}
