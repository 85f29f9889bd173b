package flow

import (
	"slices"
	"strconv"

	"github.com/matzehuels/flowedit/pkg/errors"
)

// Graph is an immutable pair of ordered node and edge sequences.
//
// The zero value is an empty graph. All methods are safe for concurrent use
// because no method modifies its receiver.
type Graph struct {
	nodes []Node
	edges []Edge
}

// NewGraph builds a Graph from the given nodes and edges and validates it.
// The input slices are copied. It returns an INVALID_GRAPH error if an ID is
// empty or duplicated, or if an edge references a node that is not present.
func NewGraph(nodes []Node, edges []Edge) (Graph, error) {
	g := Graph{nodes: slices.Clone(nodes), edges: slices.Clone(edges)}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Nodes returns a copy of the node sequence in insertion order.
func (g Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edge sequence in insertion order.
func (g Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g Graph) EdgeCount() int { return len(g.edges) }

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.nodes) == 0 }

// Node returns the node with the given ID and true, or a zero Node and false.
func (g Graph) Node(id string) (Node, bool) {
	if i := g.nodeIndex(id); i >= 0 {
		return g.nodes[i], true
	}
	return Node{}, false
}

// Edge returns the edge with the given ID and true, or a zero Edge and false.
func (g Graph) Edge(id string) (Edge, bool) {
	if i := g.edgeIndex(id); i >= 0 {
		return g.edges[i], true
	}
	return Edge{}, false
}

// HasNode reports whether a node with the given ID exists.
func (g Graph) HasNode(id string) bool { return g.nodeIndex(id) >= 0 }

// Children returns the target IDs of edges leaving id, in edge order.
// A target appears once per edge, so parallel edges repeat it.
func (g Graph) Children(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// InDegree returns the number of edges whose target is id.
func (g Graph) InDegree(id string) int {
	n := 0
	for _, e := range g.edges {
		if e.Target == id {
			n++
		}
	}
	return n
}

// Roots returns the nodes without incoming edges, in node order.
func (g Graph) Roots() []Node {
	targets := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		targets[e.Target] = true
	}
	var roots []Node
	for _, n := range g.nodes {
		if !targets[n.ID] {
			roots = append(roots, n)
		}
	}
	return roots
}

// Incident returns the edges that have id as source or target.
func (g Graph) Incident(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// SelectedNodeIDs returns the IDs of selected nodes in node order.
func (g Graph) SelectedNodeIDs() []string {
	var ids []string
	for _, n := range g.nodes {
		if n.Selected {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SelectedEdgeIDs returns the IDs of selected edges in edge order.
func (g Graph) SelectedEdgeIDs() []string {
	var ids []string
	for _, e := range g.edges {
		if e.Selected {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// AddNode returns a graph with n appended.
// The receiver is returned with false if n.ID is empty or already in use.
// An empty Kind defaults to [KindCustom].
func (g Graph) AddNode(n Node) (Graph, bool) {
	if n.ID == "" || g.HasNode(n.ID) {
		return g, false
	}
	if n.Kind == "" {
		n.Kind = KindCustom
	}
	nodes := make([]Node, len(g.nodes), len(g.nodes)+1)
	copy(nodes, g.nodes)
	return Graph{nodes: append(nodes, n), edges: g.edges}, true
}

// RemoveNodes returns a graph without the nodes matching pred and without
// every edge incident to a removed node. Both sequences change together.
// The receiver is returned unchanged if nothing matches.
func (g Graph) RemoveNodes(pred func(Node) bool) Graph {
	removed := make(map[string]bool)
	for _, n := range g.nodes {
		if pred(n) {
			removed[n.ID] = true
		}
	}
	if len(removed) == 0 {
		return g
	}
	nodes := slices.DeleteFunc(slices.Clone(g.nodes), func(n Node) bool { return removed[n.ID] })
	edges := slices.DeleteFunc(slices.Clone(g.edges), func(e Edge) bool {
		return removed[e.Source] || removed[e.Target]
	})
	return Graph{nodes: nodes, edges: edges}
}

// AddEdge returns a graph with an edge for c appended.
//
// The receiver is returned with false unless c is complete (see
// [Connection.Complete]), both endpoint nodes exist, and no edge already
// connects the same handles. The new edge is animated, labelled
// [DefaultEdgeLabel], stroked with [DefaultEdgeStroke] and tagged
// [KindCustom].
func (g Graph) AddEdge(c Connection) (Graph, bool) {
	if !c.Complete() || !g.HasNode(c.Source) || !g.HasNode(c.Target) {
		return g, false
	}
	if slices.ContainsFunc(g.edges, c.matches) {
		return g, false
	}
	e := Edge{
		ID:           g.uniqueEdgeID(c.EdgeID()),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
		Kind:         KindCustom,
		Animated:     true,
		Style:        map[string]string{"stroke": DefaultEdgeStroke},
		Data:         EdgeData{Label: DefaultEdgeLabel},
	}
	edges := make([]Edge, len(g.edges), len(g.edges)+1)
	copy(edges, g.edges)
	return Graph{nodes: g.nodes, edges: append(edges, e)}, true
}

// uniqueEdgeID returns base, or base with a numeric suffix if base is taken.
func (g Graph) uniqueEdgeID(base string) string {
	id := base
	for i := 2; g.edgeIndex(id) >= 0; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	return id
}

// RemoveEdges returns a graph without the edges matching pred.
// The receiver is returned unchanged if nothing matches.
func (g Graph) RemoveEdges(pred func(Edge) bool) Graph {
	if !slices.ContainsFunc(g.edges, pred) {
		return g
	}
	return Graph{nodes: g.nodes, edges: slices.DeleteFunc(slices.Clone(g.edges), pred)}
}

// UpdateNodePosition returns a graph with node id moved to pos.
// The receiver is returned with false if id does not exist.
func (g Graph) UpdateNodePosition(id string, pos Position) (Graph, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return g, false
	}
	nodes := slices.Clone(g.nodes)
	nodes[i].Position = pos
	return Graph{nodes: nodes, edges: g.edges}, true
}

// SetPositions returns a graph in which every node named in positions is
// moved there, as a single update. Unknown IDs are ignored.
func (g Graph) SetPositions(positions map[string]Position) Graph {
	if len(positions) == 0 {
		return g
	}
	nodes := slices.Clone(g.nodes)
	for i := range nodes {
		if p, ok := positions[nodes[i].ID]; ok {
			nodes[i].Position = p
		}
	}
	return Graph{nodes: nodes, edges: g.edges}
}

// SetSelection returns a graph in which exactly the nodes and edges whose
// IDs appear in ids are selected.
func (g Graph) SetSelection(ids ...string) Graph {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	nodes := slices.Clone(g.nodes)
	for i := range nodes {
		nodes[i].Selected = want[nodes[i].ID]
	}
	edges := slices.Clone(g.edges)
	for i := range edges {
		edges[i].Selected = want[edges[i].ID]
	}
	return Graph{nodes: nodes, edges: edges}
}

// Validate checks graph integrity and returns nil if valid.
// It reports empty or duplicate node and edge IDs and edges whose endpoints
// are missing, as INVALID_GRAPH errors.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node ID must not be empty")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node ID %q", n.ID)
		}
		seen[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		if e.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "edge ID must not be empty")
		}
		if edgeIDs[e.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate edge ID %q", e.ID)
		}
		edgeIDs[e.ID] = true
		if !seen[e.Source] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %q: unknown source node %q", e.ID, e.Source)
		}
		if !seen[e.Target] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %q: unknown target node %q", e.ID, e.Target)
		}
	}
	return nil
}

func (g Graph) nodeIndex(id string) int {
	return slices.IndexFunc(g.nodes, func(n Node) bool { return n.ID == id })
}

func (g Graph) edgeIndex(id string) int {
	return slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
}
