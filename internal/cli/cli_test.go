package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowedit/pkg/cache"
	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
	"github.com/matzehuels/flowedit/pkg/graph"
	"github.com/matzehuels/flowedit/pkg/render"
	"github.com/matzehuels/flowedit/pkg/render/nodelink"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

// writeDiagram writes a diamond a→{b,c}→d with every node at the origin.
func writeDiagram(t *testing.T, name string) string {
	t.Helper()
	doc := graph.Document{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b", SourceHandle: "bottom", TargetHandle: "top"},
			{Source: "a", Target: "c", SourceHandle: "bottom", TargetHandle: "top"},
			{Source: "b", Target: "d", SourceHandle: "bottom", TargetHandle: "top"},
			{Source: "c", Target: "d", SourceHandle: "bottom", TargetHandle: "top"},
		},
	}
	path := filepath.Join(t.TempDir(), name)
	if err := graph.WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func testViewport() bounds.Viewport {
	return bounds.Viewport{Zoom: 1, Width: 800, Height: 600}
}

func readGraph(t *testing.T, path string) flow.Graph {
	t.Helper()
	g, _, err := loadDocument(path)
	if err != nil {
		t.Fatalf("loadDocument(%s) error = %v", path, err)
	}
	return g
}

func positionOf(t *testing.T, g flow.Graph, id string) flow.Position {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n.Position
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, want string
	}{
		{"diagram.json", "", "diagram.arranged.json"},
		{"dir/diagram.yaml", "", "dir/diagram.arranged.yaml"},
		{"diagram.json", "out.json", "out.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, "arranged"); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
		}
	}
}

func TestRunArrange(t *testing.T) {
	in := writeDiagram(t, "diagram.json")
	out := filepath.Join(filepath.Dir(in), "arranged.json")

	if err := testCLI().runArrange(context.Background(), in, out); err != nil {
		t.Fatalf("runArrange() error = %v", err)
	}

	g := readGraph(t, out)
	want := map[string]flow.Position{
		"a": {X: 0, Y: 0},
		"b": {X: -125, Y: 150},
		"c": {X: 125, Y: 150},
		"d": {X: 0, Y: 300},
	}
	for id, p := range want {
		if got := positionOf(t, g, id); got != p {
			t.Errorf("%s position = %v, want %v", id, got, p)
		}
	}
}

func TestRunArrangeYAMLDefaultOutput(t *testing.T) {
	in := writeDiagram(t, "diagram.yaml")

	if err := testCLI().runArrange(context.Background(), in, ""); err != nil {
		t.Fatalf("runArrange() error = %v", err)
	}

	out := strings.TrimSuffix(in, ".yaml") + ".arranged.yaml"
	if got := positionOf(t, readGraph(t, out), "d"); got.Y != 300 {
		t.Errorf("d.Y = %v, want 300", got.Y)
	}
}

func TestRunArrangeMissingFile(t *testing.T) {
	err := testCLI().runArrange(context.Background(), filepath.Join(t.TempDir(), "none.json"), "")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("runArrange() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestRunBounds(t *testing.T) {
	in := writeDiagram(t, "diagram.json")
	out := filepath.Join(filepath.Dir(in), "bounded.json")

	// Region: x in [20, 600], y in [20, 480] for an 800x600 container.
	vp := testViewport()
	if err := testCLI().runBounds(in, out, &vp); err != nil {
		t.Fatalf("runBounds() error = %v", err)
	}

	got := positionOf(t, readGraph(t, out), "a")
	if want := (flow.Position{X: 20, Y: 20}); got != want {
		t.Errorf("a position = %v, want %v", got, want)
	}
}

func TestRunBoundsNeedsViewport(t *testing.T) {
	in := writeDiagram(t, "diagram.json")
	if err := testCLI().runBounds(in, "", nil); err == nil {
		t.Error("runBounds() without a viewport succeeded, want error")
	}
}

func TestReplay(t *testing.T) {
	ctrl := editor.New(readGraph(t, writeDiagram(t, "diagram.json")), editor.DefaultOptions())
	events, err := editor.ReadEvents(strings.NewReader(`
		{"type": "drag-end", "id": "a", "position": {"x": 10, "y": 20}}
		{"type": "auto-arrange"}
		{"type": "layout-settled"}
		{"type": "undo"}
		{"type": "undo"}
	`))
	if err != nil {
		t.Fatalf("ReadEvents() error = %v", err)
	}

	var logged []string
	logf := func(format string, args ...any) { logged = append(logged, format) }
	applied, err := replay(context.Background(), ctrl, events, false, logf)
	if err != nil {
		t.Fatalf("replay() error = %v", err)
	}

	if applied != 5 {
		t.Errorf("applied = %d, want 5", applied)
	}
	if got := positionOf(t, ctrl.Graph(), "a"); got != (flow.Position{}) {
		t.Errorf("a position = %v after two undos, want origin", got)
	}
	if !ctrl.CanRedo() {
		t.Error("CanRedo() = false, want true")
	}
	if len(logged) != 5 {
		t.Errorf("logged %d lines, want 5", len(logged))
	}
}

func TestReplaySettleFlag(t *testing.T) {
	ctrl := editor.New(readGraph(t, writeDiagram(t, "diagram.json")), editor.DefaultOptions())
	events := []editor.Event{{Type: editor.EventAutoArrange}}

	if _, err := replay(context.Background(), ctrl, events, true, func(string, ...any) {}); err != nil {
		t.Fatalf("replay() error = %v", err)
	}
	if ctrl.LayoutInProgress() {
		t.Error("LayoutInProgress() = true with settle, want false")
	}
	if !ctrl.CanUndo() {
		t.Error("CanUndo() = false after settled arrange, want true")
	}
}

func TestReplaySettleWithoutArrange(t *testing.T) {
	ctrl := editor.New(flow.Graph{}, editor.DefaultOptions())
	events := []editor.Event{{Type: editor.EventLayoutSettled}}

	applied, err := replay(context.Background(), ctrl, events, false, func(string, ...any) {})
	if err != nil {
		t.Fatalf("replay() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("applied = %d, want 0", applied)
	}
}

func TestReplayInvalidEvent(t *testing.T) {
	ctrl := editor.New(flow.Graph{}, editor.DefaultOptions())
	events := []editor.Event{{Type: "teleport"}}

	_, err := replay(context.Background(), ctrl, events, false, func(string, ...any) {})
	if !errors.Is(err, errors.ErrCodeInvalidEvent) {
		t.Errorf("replay() error = %v, want %s", err, errors.ErrCodeInvalidEvent)
	}
}

func TestRunReplay(t *testing.T) {
	in := writeDiagram(t, "diagram.json")
	eventsPath := filepath.Join(filepath.Dir(in), "events.json")
	if err := os.WriteFile(eventsPath, []byte(`[{"type": "select", "ids": ["b"]}, {"type": "delete-selection"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(filepath.Dir(in), "replayed.json")

	if err := testCLI().runReplay(context.Background(), in, eventsPath, out, false); err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}

	g := readGraph(t, out)
	if g.HasNode("b") || g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %d nodes %d edges (b present: %v), want 3 and 2 without b", g.NodeCount(), g.EdgeCount(), g.HasNode("b"))
	}
}

func TestFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != render.FormatSVG {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("DOT, png"); len(got) != 2 || got[0] != "dot" || got[1] != "png" {
		t.Errorf("parseFormats() = %v, want [dot png]", got)
	}
	if err := validateFormats([]string{"dot", "svg", "pdf", "png"}); err != nil {
		t.Errorf("validateFormats() error = %v", err)
	}
	if err := validateFormats([]string{"gif"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("validateFormats(gif) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestExportDOT(t *testing.T) {
	g := readGraph(t, writeDiagram(t, "diagram.json"))

	out, err := exportFormats(context.Background(), g, []string{render.FormatDOT}, nodelink.Options{}, 1, cache.NewNullCache())
	if err != nil {
		t.Fatalf("exportFormats() error = %v", err)
	}
	dot := out[render.FormatDOT]
	if !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("dot output = %q, want a digraph", dot)
	}
	if !bytes.Contains(dot, []byte(`"a" -> "b"`)) {
		t.Errorf("dot output missing edge a -> b:\n%s", dot)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := testCLI().versionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"version"`) {
		t.Errorf("version --json = %q, want a version field", buf.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := testCLI().RootCommand()
	for _, name := range []string{"arrange", "bounds", "replay", "export", "edit", "serve", "version", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[history]\ncapacity = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := testCLI().RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", path, "version"})

	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := testCLI().RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "completion", "bash"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "flowedit") {
		t.Error("bash completion does not mention flowedit")
	}
}

func TestNewRenderCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, ok := testCLI().newRenderCache(true).(cache.NullCache); !ok {
		t.Error("newRenderCache(true) is not a null cache")
	}
	if _, ok := testCLI().newRenderCache(false).(*cache.FileCache); !ok {
		t.Error("newRenderCache(false) is not a file cache")
	}
}

func TestConfigBoundsReachController(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := "[bounds]\nnode_width = 0\nnode_height = 0\npadding = 0\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	c := testCLI()
	c.configPath = cfgPath
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	var g flow.Graph
	g, _ = g.AddNode(flow.Node{ID: "far", Position: flow.Position{X: 5000, Y: -5000}})
	vp := bounds.Viewport{Zoom: 1, Width: 800, Height: 600}

	ctrl := c.newController(g, nil)
	ctrl.SetViewport(vp)
	fromController, _ := ctrl.Graph().Node("far")

	enforced, _ := bounds.Enforce(g, vp, c.cfg.BoundsOptions())
	fromBounds, _ := enforced.Node("far")

	if fromController.Position != fromBounds.Position {
		t.Errorf("controller clamps to %v, bounds command to %v", fromController.Position, fromBounds.Position)
	}
	if fromController.Position != (flow.Position{X: 800, Y: 0}) {
		t.Errorf("position = %v, want (800, 0)", fromController.Position)
	}
}

func TestRunArrangeWithCycle(t *testing.T) {
	doc := graph.Document{
		Nodes: []graph.Node{{ID: "r"}, {ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{
			{Source: "r", Target: "a", SourceHandle: "bottom", TargetHandle: "top"},
			{Source: "a", Target: "b", SourceHandle: "bottom", TargetHandle: "top"},
			{Source: "b", Target: "a", SourceHandle: "bottom", TargetHandle: "top"},
		},
	}
	in := filepath.Join(t.TempDir(), "cycle.json")
	if err := graph.WriteFile(doc, in); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(filepath.Dir(in), "arranged.json")

	if err := testCLI().runArrange(context.Background(), in, out); err != nil {
		t.Fatalf("runArrange() error = %v", err)
	}
	g := readGraph(t, out)
	if got := positionOf(t, g, "b"); got != (flow.Position{X: 0, Y: 300}) {
		t.Errorf("b = %v, want (0, 300) below a", got)
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want both cycle edges kept", g.EdgeCount())
	}
}
