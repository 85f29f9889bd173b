package layout

import "github.com/matzehuels/flowedit/pkg/flow"

// Levels assigns each node its longest-path distance from a root.
//
// # Algorithm
//
// Levels performs a depth-first propagation from every root, in node order,
// following edges in edge order:
//  1. Initialize every node at level 0
//  2. Visiting a node at level L raises its recorded level to L if higher
//  3. Descend into each child at L+1
//
// Descent stops at a node that is already on the active recursion path
// (a cycle) or that was already expanded at an equal or greater level,
// since its descendants then already carry levels at least as high.
//
// Because a node is only re-expanded at a strictly higher level, and levels
// are lengths of simple paths, the traversal terminates on every graph.
func Levels(g flow.Graph) map[string]int {
	nodes := g.Nodes()
	levels := make(map[string]int, len(nodes))
	for _, n := range nodes {
		levels[n.ID] = 0
	}

	children := make(map[string][]string, len(nodes))
	for _, e := range g.Edges() {
		children[e.Source] = append(children[e.Source], e.Target)
	}

	onPath := make(map[string]bool, len(nodes))
	expanded := make(map[string]bool, len(nodes))

	var assign func(id string, level int)
	assign = func(id string, level int) {
		if onPath[id] {
			return
		}
		if expanded[id] && level <= levels[id] {
			return
		}
		if level > levels[id] {
			levels[id] = level
		}
		expanded[id] = true
		onPath[id] = true
		for _, child := range children[id] {
			assign(child, level+1)
		}
		onPath[id] = false
	}

	for _, root := range g.Roots() {
		assign(root.ID, 0)
	}
	return levels
}

// BackEdges returns the edges that close a directed cycle, found by a
// white/gray/black depth-first search started from roots first and then from
// any node left unvisited. Removing them would leave the graph acyclic.
func BackEdges(g flow.Graph) []flow.Edge {
	const (
		white = iota
		gray
		black
	)

	out := make(map[string][]flow.Edge)
	for _, e := range g.Edges() {
		out[e.Source] = append(out[e.Source], e)
	}

	color := make(map[string]int)
	var back []flow.Edge

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, e := range out[id] {
			switch color[e.Target] {
			case white:
				dfs(e.Target)
			case gray:
				back = append(back, e)
			}
		}
		color[id] = black
	}

	for _, n := range g.Roots() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return back
}
