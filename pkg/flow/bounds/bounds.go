// Package bounds keeps diagram nodes inside the visible canvas.
//
// The rendering collaborator reports a [Viewport]: the pan offset and zoom of
// the canvas-to-screen transform plus the pixel size of the visible
// container. [Enforce] converts that into a region in graph coordinates,
// shrinks it by a padding margin and clamps every node whose top-left corner
// falls outside it onto the nearest boundary.
//
// Enforcement is corrective. It is idempotent, returns its input untouched
// when nothing is out of bounds, and batches all corrections into one graph
// update.
package bounds

import "github.com/matzehuels/flowedit/pkg/flow"

// Default node footprint and padding, in graph units.
const (
	DefaultNodeWidth  = 180.0
	DefaultNodeHeight = 100.0
	DefaultPadding    = 20.0
)

// Viewport describes the canvas-to-screen transform and container size.
type Viewport struct {
	Zoom   float64 `json:"zoom"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Known reports whether the viewport has a usable zoom and container size.
// Before the container is measured its width and height are zero.
func (v Viewport) Known() bool {
	return v.Width > 0 && v.Height > 0 && v.Zoom > 0
}

// Options configures the node footprint and padding.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	Padding    float64
}

// DefaultOptions returns the default footprint of 180x100 with 20 padding.
func DefaultOptions() Options {
	return Options{NodeWidth: DefaultNodeWidth, NodeHeight: DefaultNodeHeight, Padding: DefaultPadding}
}

// Rect is an axis-aligned region of allowed node positions.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether p lies inside r, boundaries included.
func (r Rect) Contains(p flow.Position) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Clamp moves p onto the nearest boundary of r on each axis it exceeds.
func (r Rect) Clamp(p flow.Position) flow.Position {
	if p.X < r.Left {
		p.X = r.Left
	} else if p.X > r.Right {
		p.X = r.Right
	}
	if p.Y < r.Top {
		p.Y = r.Top
	} else if p.Y > r.Bottom {
		p.Y = r.Bottom
	}
	return p
}

// Region returns the padded region in graph coordinates where a node's
// top-left corner may lie:
//
//	left   = -x/zoom + padding
//	top    = -y/zoom + padding
//	right  = width/zoom - x/zoom - nodeWidth - padding
//	bottom = height/zoom - y/zoom - nodeHeight - padding
//
// When the container is too small for a node plus padding the region would
// be inverted; it then collapses onto its left or top edge so that clamping
// stays idempotent. It returns false if the viewport is not yet known.
func Region(vp Viewport, opts Options) (Rect, bool) {
	if !vp.Known() {
		return Rect{}, false
	}
	left := -vp.X / vp.Zoom
	top := -vp.Y / vp.Zoom
	right := vp.Width/vp.Zoom - vp.X/vp.Zoom - opts.NodeWidth
	bottom := vp.Height/vp.Zoom - vp.Y/vp.Zoom - opts.NodeHeight
	r := Rect{
		Left:   left + opts.Padding,
		Top:    top + opts.Padding,
		Right:  right - opts.Padding,
		Bottom: bottom - opts.Padding,
	}
	r.Right = max(r.Right, r.Left)
	r.Bottom = max(r.Bottom, r.Top)
	return r, true
}

// Enforce returns g with every out-of-bounds node clamped into the padded
// visible region, and the number of nodes moved.
//
// When the viewport is unknown or every node is already inside, g itself is
// returned with 0 so callers can skip the update entirely.
func Enforce(g flow.Graph, vp Viewport, opts Options) (flow.Graph, int) {
	r, ok := Region(vp, opts)
	if !ok {
		return g, 0
	}

	var corrected map[string]flow.Position
	for _, n := range g.Nodes() {
		p := r.Clamp(n.Position)
		if p == n.Position {
			continue
		}
		if corrected == nil {
			corrected = make(map[string]flow.Position)
		}
		corrected[n.ID] = p
	}
	if len(corrected) == 0 {
		return g, 0
	}
	return g.SetPositions(corrected), len(corrected)
}
