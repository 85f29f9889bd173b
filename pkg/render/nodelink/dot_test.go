package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowedit/pkg/cache"
	"github.com/matzehuels/flowedit/pkg/flow"
)

func TestToDOT(t *testing.T) {
	var g flow.Graph
	g, _ = g.AddNode(flow.Node{ID: "a", Position: flow.Position{X: 144, Y: 72}, Data: flow.NodeData{Label: "Start", Content: "go"}})
	g, _ = g.AddNode(flow.Node{ID: "b", Selected: true})
	g, _ = g.AddEdge(flow.Connection{Source: "a", SourceHandle: "bottom", Target: "b", TargetHandle: "top"})

	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph G {",
		"layout=neato;",
		`"a" [label="Start", pos="2,-1!"];`,
		`"b" [label="b", pos="0,0!", penwidth=2];`,
		`"a" -> "b" [id="flow__edge-abottom-btop", label="connected", style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTOptions(t *testing.T) {
	var g flow.Graph
	g, _ = g.AddNode(flow.Node{ID: "a", Position: flow.Position{X: 72}, Data: flow.NodeData{Label: "Start", Content: "go"}})

	dot := ToDOT(g, Options{Scale: 2, Detailed: true})
	if !strings.Contains(dot, `label="Start\ngo"`) {
		t.Errorf("Detailed label missing content:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="2,0!"`) {
		t.Errorf("Scale not applied:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed an SVG without viewBox")
	}
}

func TestRenderSVGCachedHit(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(0)
	dot := ToDOT(flow.Graph{}, Options{})
	if err := c.Set(ctx, cache.Key("svg", []byte(dot)), []byte("<svg/>"), 0); err != nil {
		t.Fatal(err)
	}

	svg, hit, err := RenderSVGCached(ctx, c, dot)
	if err != nil {
		t.Fatalf("RenderSVGCached() error = %v", err)
	}
	if !hit || string(svg) != "<svg/>" {
		t.Errorf("RenderSVGCached() = %q, hit %v, want cached <svg/>", svg, hit)
	}
}
