package flow

import "fmt"

// Default variant tags and edge appearance assigned by the editor.
const (
	// KindCustom is the variant tag given to nodes and edges created by the editor.
	KindCustom = "custom"

	// DefaultEdgeLabel is the label given to edges created by AddEdge.
	DefaultEdgeLabel = "connected"

	// DefaultEdgeStroke is the stroke style given to edges created by AddEdge.
	DefaultEdgeStroke = "var(--color-edge)"

	// edgeIDPrefix prefixes generated edge identifiers.
	edgeIDPrefix = "flow__edge-"
)

// Metadata stores arbitrary key-value pairs attached to node or edge payloads.
type Metadata map[string]any

// Position is a point in canvas (graph) coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String formats the position as "(x, y)".
func (p Position) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// NodeData is the user-facing payload of a node.
type NodeData struct {
	Label   string
	Content string
	Type    string // semantic type, e.g. "default"
	Meta    Metadata
}

// Node is a positioned diagram element.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID       string
	Kind     string // variant tag, e.g. "custom"
	Position Position
	Data     NodeData
	Selected bool
}

// EdgeData is the user-facing payload of an edge.
type EdgeData struct {
	Label string
	Meta  Metadata
}

// Edge is a directed connection from one node's handle to another's.
type Edge struct {
	ID           string
	Source       string // source node ID
	Target       string // target node ID
	SourceHandle string
	TargetHandle string
	Kind         string
	Animated     bool
	Style        map[string]string
	Data         EdgeData
	Selected     bool
}

// Connection is a request to connect two node handles.
type Connection struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Complete reports whether both endpoints and both handles are named.
func (c Connection) Complete() bool {
	return c.Source != "" && c.Target != "" && c.SourceHandle != "" && c.TargetHandle != ""
}

// EdgeID returns the identifier an edge created from c receives.
func (c Connection) EdgeID() string {
	return edgeIDPrefix + c.Source + c.SourceHandle + "-" + c.Target + c.TargetHandle
}

// matches reports whether e connects exactly the handles named by c.
func (c Connection) matches(e Edge) bool {
	return e.Source == c.Source && e.Target == c.Target &&
		e.SourceHandle == c.SourceHandle && e.TargetHandle == c.TargetHandle
}
