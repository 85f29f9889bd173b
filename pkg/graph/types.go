package graph

import (
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
)

// Document is the serialization format for a diagram.
type Document struct {
	Nodes    []Node           `json:"nodes" yaml:"nodes"`
	Edges    []Edge           `json:"edges" yaml:"edges"`
	Viewport *bounds.Viewport `json:"viewport,omitempty" yaml:"viewport,omitempty"`
}

// Node is the serialized form of a [flow.Node].
type Node struct {
	ID       string        `json:"id" yaml:"id"`
	Type     string        `json:"type,omitempty" yaml:"type,omitempty"` // variant tag
	Position flow.Position `json:"position" yaml:"position"`
	Data     NodeData      `json:"data" yaml:"data"`
	Selected bool          `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// NodeData is the serialized payload of a node.
type NodeData struct {
	Label   string         `json:"label,omitempty" yaml:"label,omitempty"`
	Content string         `json:"content,omitempty" yaml:"content,omitempty"`
	Type    string         `json:"type,omitempty" yaml:"type,omitempty"` // semantic type
	Meta    map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise id.
func (d NodeData) DisplayLabel(id string) string {
	if d.Label != "" {
		return d.Label
	}
	return id
}

// Edge is the serialized form of a [flow.Edge].
type Edge struct {
	ID           string            `json:"id,omitempty" yaml:"id,omitempty"`
	Source       string            `json:"source" yaml:"source"`
	Target       string            `json:"target" yaml:"target"`
	SourceHandle string            `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string            `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
	Type         string            `json:"type,omitempty" yaml:"type,omitempty"`
	Animated     bool              `json:"animated,omitempty" yaml:"animated,omitempty"`
	Style        map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	Data         EdgeData          `json:"data,omitzero" yaml:"data,omitempty"`
	Selected     bool              `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// EdgeData is the serialized payload of an edge.
type EdgeData struct {
	Label string         `json:"label,omitempty" yaml:"label,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}
