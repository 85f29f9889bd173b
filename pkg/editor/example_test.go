package editor_test

import (
	"fmt"

	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/flow"
)

func ExampleController_AutoArrange() {
	var g flow.Graph
	g, _ = g.AddNode(flow.Node{ID: "start"})
	g, _ = g.AddNode(flow.Node{ID: "end"})

	c := editor.New(g, editor.DefaultOptions())
	c.Connect(flow.Connection{Source: "start", SourceHandle: "out", Target: "end", TargetHandle: "in"})

	ticket, _ := c.AutoArrange()
	fmt.Println("in progress:", c.LayoutInProgress())
	c.SettleLayout(ticket)

	for _, n := range c.State().Nodes {
		fmt.Println(n.ID, n.Position)
	}
	fmt.Println("can undo:", c.CanUndo())
	// Output:
	// in progress: true
	// start (0, 0)
	// end (0, 150)
	// can undo: true
}
