package layout

import (
	"testing"

	"github.com/matzehuels/flowedit/pkg/flow"
)

// build creates a graph over ids with one edge per [from, to] pair.
func build(t *testing.T, ids []string, edges [][2]string) flow.Graph {
	t.Helper()
	var g flow.Graph
	for _, id := range ids {
		g, _ = g.AddNode(flow.Node{ID: id, Position: flow.Position{X: 7, Y: 7}})
	}
	for _, e := range edges {
		var ok bool
		g, ok = g.AddEdge(flow.Connection{Source: e[0], SourceHandle: "out", Target: e[1], TargetHandle: "in"})
		if !ok {
			t.Fatalf("AddEdge(%s->%s) rejected", e[0], e[1])
		}
	}
	return g
}

func TestLevels_Chain(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	levels := Levels(g)

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, l := range want {
		if levels[id] != l {
			t.Errorf("level(%s) = %d, want %d", id, levels[id], l)
		}
	}
}

func TestLevels_LongestPath(t *testing.T) {
	// a→b→c→d and a shortcut a→d: d must sit below c, not at level 1.
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "d"}, {"a", "b"}, {"b", "c"}, {"c", "d"},
	})

	levels := Levels(g)

	if levels["d"] != 3 {
		t.Errorf("level(d) = %d, want 3", levels["d"])
	}
}

func TestLevels_MultipleRoots(t *testing.T) {
	// x→c and a→b→c: c takes the deeper level from a's path.
	g := build(t, []string{"x", "a", "b", "c"}, [][2]string{
		{"x", "c"}, {"a", "b"}, {"b", "c"},
	})

	levels := Levels(g)

	if levels["x"] != 0 || levels["a"] != 0 {
		t.Errorf("root levels = %d, %d; want 0, 0", levels["x"], levels["a"])
	}
	if levels["c"] != 2 {
		t.Errorf("level(c) = %d, want 2", levels["c"])
	}
}

func TestLevels_BareCycle(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	levels := Levels(g)

	if len(levels) != 2 {
		t.Fatalf("len(levels) = %d, want 2", len(levels))
	}
	if levels["a"] != 0 || levels["b"] != 0 {
		t.Errorf("levels = %v, want all 0 (no root)", levels)
	}
}

func TestLevels_CycleBelowRoot(t *testing.T) {
	// r→a→b→a
	g := build(t, []string{"r", "a", "b"}, [][2]string{{"r", "a"}, {"a", "b"}, {"b", "a"}})

	levels := Levels(g)

	want := map[string]int{"r": 0, "a": 1, "b": 2}
	for id, l := range want {
		if levels[id] != l {
			t.Errorf("level(%s) = %d, want %d", id, levels[id], l)
		}
	}
}

func TestLevels_SelfLoop(t *testing.T) {
	var g flow.Graph
	g, _ = g.AddNode(flow.Node{ID: "a"})
	g, _ = g.AddEdge(flow.Connection{Source: "a", SourceHandle: "out", Target: "a", TargetHandle: "in"})

	levels := Levels(g)

	if levels["a"] != 0 {
		t.Errorf("level(a) = %d, want 0", levels["a"])
	}
}

func TestLevels_DenseCycles(t *testing.T) {
	// Every node points at every other node: must still terminate.
	ids := []string{"r", "a", "b", "c", "d", "e"}
	var edges [][2]string
	edges = append(edges, [2]string{"r", "a"})
	for _, from := range ids[1:] {
		for _, to := range ids[1:] {
			if from != to {
				edges = append(edges, [2]string{from, to})
			}
		}
	}
	g := build(t, ids, edges)

	levels := Levels(g)

	for id, l := range levels {
		if l < 0 || l >= len(ids) {
			t.Errorf("level(%s) = %d, want within [0, %d)", id, l, len(ids))
		}
	}
}

func TestBackEdges_NoCycles(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}})

	if back := BackEdges(g); len(back) != 0 {
		t.Errorf("BackEdges() = %v, want none", back)
	}
}

func TestBackEdges_SimpleCycle(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	back := BackEdges(g)

	if len(back) != 1 {
		t.Fatalf("BackEdges() returned %d edges, want 1", len(back))
	}
	if back[0].Source != "b" || back[0].Target != "a" {
		t.Errorf("BackEdges()[0] = %s->%s, want b->a", back[0].Source, back[0].Target)
	}
}

func TestBackEdges_TwoCycles(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"},
	})

	if back := BackEdges(g); len(back) != 2 {
		t.Errorf("BackEdges() returned %d edges, want 2", len(back))
	}
}
