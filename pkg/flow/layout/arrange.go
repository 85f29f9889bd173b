package layout

import "github.com/matzehuels/flowedit/pkg/flow"

// Default spacing between nodes.
const (
	DefaultHorizontalSpacing = 250.0
	DefaultVerticalSpacing   = 150.0
)

// Options configures auto-arrange spacing. Zero fields take the defaults.
type Options struct {
	HorizontalSpacing float64 // distance between nodes in the same level
	VerticalSpacing   float64 // distance between consecutive levels
}

// withDefaults fills zero or negative fields with the package defaults.
func (o Options) withDefaults() Options {
	if o.HorizontalSpacing <= 0 {
		o.HorizontalSpacing = DefaultHorizontalSpacing
	}
	if o.VerticalSpacing <= 0 {
		o.VerticalSpacing = DefaultVerticalSpacing
	}
	return o
}

// Result describes a computed arrangement.
type Result struct {
	Levels     map[string]int           // node ID -> level
	LevelCount int                      // number of distinct levels
	Positions  map[string]flow.Position // node ID -> new position
}

// Arrange returns g with every node moved to its layered position.
//
// Level L is placed at y = L * VerticalSpacing. Within a level the n nodes
// keep their node-sequence order and node i is placed at
// x = i*H - n*H/2 + H/2, which centres the row around x = 0.
//
// Arrange returns g unchanged and false for an empty graph.
func Arrange(g flow.Graph, opts Options) (flow.Graph, Result, bool) {
	if g.IsEmpty() {
		return g, Result{}, false
	}
	opts = opts.withDefaults()

	levels := Levels(g)
	byLevel := make(map[int][]string)
	for _, n := range g.Nodes() {
		l := levels[n.ID]
		byLevel[l] = append(byLevel[l], n.ID)
	}

	h, v := opts.HorizontalSpacing, opts.VerticalSpacing
	positions := make(map[string]flow.Position, len(levels))
	for level, ids := range byLevel {
		width := float64(len(ids)) * h
		for i, id := range ids {
			positions[id] = flow.Position{
				X: float64(i)*h - width/2 + h/2,
				Y: float64(level) * v,
			}
		}
	}

	res := Result{Levels: levels, LevelCount: len(byLevel), Positions: positions}
	return g.SetPositions(positions), res, true
}
