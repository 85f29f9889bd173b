package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/graph"
)

func ExampleRead() {
	input := `{
		"nodes": [
			{"id": "a", "position": {"x": 0, "y": 0}, "data": {"label": "Start"}},
			{"id": "b", "position": {"x": 0, "y": 150}, "data": {"label": "End"}}
		],
		"edges": [
			{"source": "a", "sourceHandle": "bottom", "target": "b", "targetHandle": "top"}
		]
	}`

	doc, err := graph.Read(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	g, err := doc.ToFlow()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Children of a:", g.Children("a"))
	fmt.Println("Edge:", g.Edges()[0].ID)
	// Output:
	// Nodes: 2
	// Children of a: [b]
	// Edge: flow__edge-abottom-btop
}

func ExampleWrite() {
	var g flow.Graph
	g, _ = g.AddNode(flow.Node{ID: "a", Data: flow.NodeData{Label: "Start"}})

	if err := graph.Write(graph.FromFlow(g, nil), os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "type": "custom",
	//       "position": {
	//         "x": 0,
	//         "y": 0
	//       },
	//       "data": {
	//         "label": "Start"
	//       }
	//     }
	//   ],
	//   "edges": []
	// }
}
