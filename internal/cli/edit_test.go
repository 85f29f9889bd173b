package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/flow"
)

func twoNodes(t *testing.T) flow.Graph {
	t.Helper()
	g, err := flow.NewGraph([]flow.Node{
		{ID: "a", Position: flow.Position{X: 0, Y: 0}},
		{ID: "b", Position: flow.Position{X: 100, Y: 0}},
	}, nil)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// press feeds keys to m in order and returns the resulting model and the
// command of the last key.
func press(t *testing.T, m editModel, keys ...tea.KeyMsg) (editModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(editModel)
	}
	return m, cmd
}

func newTestModel(t *testing.T) (editModel, *editor.Controller, *int) {
	t.Helper()
	ctrl := editor.New(twoNodes(t), editor.DefaultOptions())
	saves := 0
	m := newEditModel(ctrl, "diagram.json", func(flow.Graph) error { saves++; return nil })
	return m, ctrl, &saves
}

func TestEditDragAndDrop(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown})

	if got := ctrl.State().Dragging; got != "a" {
		t.Errorf("Dragging = %q, want a", got)
	}
	if ctrl.CanUndo() {
		t.Error("CanUndo() = true while dragging, want false")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	n, _ := ctrl.Graph().Node("a")
	if want := (flow.Position{X: 30, Y: 15}); n.Position != want {
		t.Errorf("Position = %v, want %v", n.Position, want)
	}
	if !ctrl.CanUndo() {
		t.Error("CanUndo() = false after drop, want true")
	}
	if !m.dirty {
		t.Error("dirty = false after drop, want true")
	}
}

func TestEditTabDropsDrag(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyTab})

	if got := ctrl.State().Dragging; got != "" {
		t.Errorf("Dragging = %q after tab, want none", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after shift+tab, want 0", m.cursor)
	}
}

func TestEditConnect(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m, _ = press(t, m, runes("c"))
	if m.connectFrom != "a" {
		t.Fatalf("connectFrom = %q, want a", m.connectFrom)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("c"))

	edges := ctrl.Graph().Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	if want := "flow__edge-abottom-btop"; edges[0].ID != want {
		t.Errorf("edge ID = %q, want %q", edges[0].ID, want)
	}
	if m.connectFrom != "" {
		t.Errorf("connectFrom = %q after connecting, want empty", m.connectFrom)
	}
}

func TestEditSelectAndDelete(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if got := ctrl.Graph().SelectedNodeIDs(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("SelectedNodeIDs() = %v, want [a]", got)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if got := ctrl.Graph().SelectedNodeIDs(); len(got) != 0 {
		t.Fatalf("SelectedNodeIDs() = %v after second toggle, want none", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeySpace}, runes("d"))
	if ctrl.Graph().HasNode("b") {
		t.Error("node b still present after delete")
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after deleting the last node, want 0", m.cursor)
	}

	_, _ = press(t, m, runes("u"))
	if !ctrl.Graph().HasNode("b") {
		t.Error("node b missing after undo")
	}
}

func TestEditAddNode(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m, _ = press(t, m, runes("n"))

	if ctrl.Graph().NodeCount() != 3 {
		t.Fatalf("NodeCount() = %d, want 3", ctrl.Graph().NodeCount())
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (the new node)", m.cursor)
	}
	if !strings.Contains(m.status, "node-3") {
		t.Errorf("status = %q, want it to name node-3", m.status)
	}
}

func TestEditArrangeSettles(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	m, cmd := press(t, m, runes("a"))
	if cmd == nil {
		t.Fatal("arrange returned no settle command")
	}
	if !ctrl.LayoutInProgress() {
		t.Fatal("LayoutInProgress() = false after arrange")
	}

	next, _ := m.Update(cmd())
	m = next.(editModel)

	if ctrl.LayoutInProgress() {
		t.Error("LayoutInProgress() = true after settle")
	}
	if m.status != "arranged" {
		t.Errorf("status = %q, want arranged", m.status)
	}
}

func TestEditWrite(t *testing.T) {
	m, _, saves := newTestModel(t)
	m.dirty = true

	m, _ = press(t, m, runes("w"))

	if *saves != 1 {
		t.Errorf("saves = %d, want 1", *saves)
	}
	if m.dirty {
		t.Error("dirty = true after write, want false")
	}
}

func TestEditQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestEditView(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"diagram.json", "a", "b", "undo"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
