package graph

import (
	"maps"

	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
)

// FromFlow converts g to its serialization format. A nil viewport is omitted.
// Element order is preserved.
func FromFlow(g flow.Graph, vp *bounds.Viewport) Document {
	nodes := g.Nodes()
	edges := g.Edges()
	doc := Document{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	if vp != nil {
		v := *vp
		doc.Viewport = &v
	}

	for i, n := range nodes {
		doc.Nodes[i] = Node{
			ID:       n.ID,
			Type:     n.Kind,
			Position: n.Position,
			Data: NodeData{
				Label:   n.Data.Label,
				Content: n.Data.Content,
				Type:    n.Data.Type,
				Meta:    maps.Clone(n.Data.Meta),
			},
			Selected: n.Selected,
		}
	}
	for i, e := range edges {
		doc.Edges[i] = Edge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
			Type:         e.Kind,
			Animated:     e.Animated,
			Style:        maps.Clone(e.Style),
			Data:         EdgeData{Label: e.Data.Label, Meta: maps.Clone(e.Data.Meta)},
			Selected:     e.Selected,
		}
	}
	return doc
}

// ToFlow converts the document into a validated [flow.Graph].
func (d Document) ToFlow() (flow.Graph, error) {
	nodes := make([]flow.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		if err := errors.ValidateID("node", n.ID); err != nil {
			return flow.Graph{}, err
		}
		kind := n.Type
		if kind == "" {
			kind = flow.KindCustom
		}
		nodes[i] = flow.Node{
			ID:       n.ID,
			Kind:     kind,
			Position: n.Position,
			Data: flow.NodeData{
				Label:   n.Data.Label,
				Content: n.Data.Content,
				Type:    n.Data.Type,
				Meta:    flow.Metadata(maps.Clone(n.Data.Meta)),
			},
			Selected: n.Selected,
		}
	}

	edges := make([]flow.Edge, len(d.Edges))
	for i, e := range d.Edges {
		id := e.ID
		if id == "" {
			id = flow.Connection{
				Source: e.Source, SourceHandle: e.SourceHandle,
				Target: e.Target, TargetHandle: e.TargetHandle,
			}.EdgeID()
		}
		if err := errors.ValidateID("edge", id); err != nil {
			return flow.Graph{}, err
		}
		edges[i] = flow.Edge{
			ID:           id,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
			Kind:         e.Type,
			Animated:     e.Animated,
			Style:        maps.Clone(e.Style),
			Data:         flow.EdgeData{Label: e.Data.Label, Meta: flow.Metadata(maps.Clone(e.Data.Meta))},
			Selected:     e.Selected,
		}
	}

	return flow.NewGraph(nodes, edges)
}
