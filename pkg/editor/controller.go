package editor

import (
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
	"github.com/matzehuels/flowedit/pkg/flow/history"
	"github.com/matzehuels/flowedit/pkg/flow/layout"
	"github.com/matzehuels/flowedit/pkg/observability"
)

// Defaults for nodes created by [Controller.AddNode].
const (
	NewNodeContent = "New node content"
	NewNodeType    = "default"

	// spawnArea is the side of the square new nodes are placed in.
	spawnArea = 300.0
)

// Commit reasons reported to hooks and logs.
const (
	ReasonInitial = "initial"
	ReasonDragEnd = "drag-end"
	ReasonConnect = "connect"
	ReasonRemove  = "remove-edge"
	ReasonDelete  = "delete-selection"
	ReasonAddNode = "add-node"
	ReasonArrange = "auto-arrange"
)

// Reasons a pending arrange is cancelled without a commit.
const (
	cancelSuperseded = "superseded"
	cancelDrag       = "drag"
)

// Options configures a Controller.
type Options struct {
	Layout layout.Options

	// Bounds is the node footprint kept inside the viewport. It is used as
	// given; a zero value keeps node origins inside the bare viewport.
	Bounds bounds.Options

	// HistoryCapacity bounds the undo stack. Zero or negative keeps every snapshot.
	HistoryCapacity int

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// Hooks receives editor events. Nil uses the global observability registry.
	Hooks observability.EditorHooks

	// Rand places new nodes. Nil seeds a generator from the clock.
	Rand *rand.Rand
}

// DefaultOptions returns options with the default layout spacing, node
// footprint and history capacity.
func DefaultOptions() Options {
	return Options{
		Bounds:          bounds.DefaultOptions(),
		HistoryCapacity: history.DefaultCapacity,
	}
}

// State is the view of the editor handed to rendering collaborators.
type State struct {
	Nodes            []flow.Node
	Edges            []flow.Edge
	CanUndo          bool
	CanRedo          bool
	LayoutInProgress bool
	Viewport         bounds.Viewport
	Dragging         string // ID of the node being dragged, if any
}

type pendingLayout struct {
	ticket  string
	started time.Time
	levels  int
}

// Controller orchestrates the graph model, history, layout, and bounds.
type Controller struct {
	graph    flow.Graph
	history  *history.History
	viewport bounds.Viewport
	dragging string
	pending  *pendingLayout
	commits  int

	opts   Options
	logger *log.Logger
	rng    *rand.Rand
}

// New creates a controller for initial and commits it as the first snapshot.
func New(initial flow.Graph, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	c := &Controller{
		graph:   initial,
		history: history.New(opts.HistoryCapacity),
		opts:    opts,
		logger:  logger,
		rng:     rng,
	}
	c.commit(ReasonInitial)
	return c
}

// Load replaces the live graph with g and restarts the history from it.
// A pending arrange is cancelled.
func (c *Controller) Load(g flow.Graph) {
	c.cancelLayout("load")
	c.dragging = ""
	c.apply(g)
	c.history.Reset(c.graph)
	c.logger.Debug("loaded", "nodes", c.graph.NodeCount(), "edges", c.graph.EdgeCount())
}

// Graph returns the live graph.
func (c *Controller) Graph() flow.Graph { return c.graph }

// Viewport returns the last viewport reported by the renderer.
func (c *Controller) Viewport() bounds.Viewport { return c.viewport }

// LayoutInProgress reports whether an arrange is waiting to settle.
func (c *Controller) LayoutInProgress() bool { return c.pending != nil }

// CanUndo reports whether Undo would change the graph.
func (c *Controller) CanUndo() bool { return c.pending != nil || c.history.CanUndo() }

// CanRedo reports whether Redo would change the graph.
func (c *Controller) CanRedo() bool { return c.pending == nil && c.history.CanRedo() }

// State returns a snapshot of the editor for rendering.
func (c *Controller) State() State {
	return State{
		Nodes:            c.graph.Nodes(),
		Edges:            c.graph.Edges(),
		CanUndo:          c.CanUndo(),
		CanRedo:          c.CanRedo(),
		LayoutInProgress: c.pending != nil,
		Viewport:         c.viewport,
		Dragging:         c.dragging,
	}
}

// DragStart marks id as being dragged. A pending arrange is cancelled so
// that settling cannot commit a mid-drag frame.
func (c *Controller) DragStart(id string) bool {
	if !c.graph.HasNode(id) {
		c.reject(string(EventDragStart), "unknown node "+id)
		return false
	}
	c.cancelLayout(cancelDrag)
	c.dragging = id
	return true
}

// DragMove moves id to pos without committing.
func (c *Controller) DragMove(id string, pos flow.Position) bool {
	g, ok := c.graph.UpdateNodePosition(id, pos)
	if !ok {
		c.reject(string(EventDragMove), "unknown node "+id)
		return false
	}
	c.cancelLayout(cancelDrag)
	c.dragging = id
	c.apply(g)
	return true
}

// DragEnd moves id to pos and commits the gesture.
func (c *Controller) DragEnd(id string, pos flow.Position) bool {
	g, ok := c.graph.UpdateNodePosition(id, pos)
	if !ok {
		c.reject(string(EventDragEnd), "unknown node "+id)
		return false
	}
	c.dragging = ""
	c.cancelLayout(ReasonDragEnd)
	c.apply(g)
	c.commit(ReasonDragEnd)
	return true
}

// Connect adds an edge for conn and commits. Incomplete connections,
// unknown endpoints and duplicates are rejected.
func (c *Controller) Connect(conn flow.Connection) bool {
	g, ok := c.graph.AddEdge(conn)
	if !ok {
		c.reject(string(EventConnect), "invalid connection "+conn.EdgeID())
		return false
	}
	c.cancelLayout(ReasonConnect)
	c.apply(g)
	c.commit(ReasonConnect)
	return true
}

// RemoveEdge removes the edge with the given ID and commits.
func (c *Controller) RemoveEdge(id string) bool {
	g := c.graph.RemoveEdges(func(e flow.Edge) bool { return e.ID == id })
	if g.EdgeCount() == c.graph.EdgeCount() {
		c.reject(string(EventRemoveEdge), "unknown edge "+id)
		return false
	}
	c.cancelLayout(ReasonRemove)
	c.apply(g)
	c.commit(ReasonRemove)
	return true
}

// Select makes exactly the nodes and edges named by ids selected.
func (c *Controller) Select(ids ...string) {
	c.graph = c.graph.SetSelection(ids...)
}

// DeleteSelection removes every selected node, with its incident edges, and
// every selected edge, then commits. Nothing is committed when nothing is
// selected.
func (c *Controller) DeleteSelection() bool {
	nodes := c.graph.SelectedNodeIDs()
	edges := c.graph.SelectedEdgeIDs()
	if len(nodes) == 0 && len(edges) == 0 {
		c.logger.Debug("delete skipped", "reason", "empty selection")
		return false
	}
	g := c.graph.
		RemoveNodes(func(n flow.Node) bool { return n.Selected }).
		RemoveEdges(func(e flow.Edge) bool { return e.Selected })
	c.cancelLayout(ReasonDelete)
	c.apply(g)
	c.commit(ReasonDelete)
	return true
}

// AddNode creates a node at a random position and commits. The node is
// named node-n for the first free n starting after the current node count.
func (c *Controller) AddNode() flow.Node {
	n := c.graph.NodeCount() + 1
	for c.graph.HasNode(nodeID(n)) {
		n++
	}
	node := flow.Node{
		ID:   nodeID(n),
		Kind: flow.KindCustom,
		Position: flow.Position{
			X: c.rng.Float64() * spawnArea,
			Y: c.rng.Float64() * spawnArea,
		},
		Data: flow.NodeData{
			Label:   "Node " + strconv.Itoa(n),
			Content: NewNodeContent,
			Type:    NewNodeType,
		},
	}
	g, _ := c.graph.AddNode(node)
	c.cancelLayout(ReasonAddNode)
	c.apply(g)
	c.commit(ReasonAddNode)

	node, _ = c.graph.Node(node.ID)
	return node
}

func nodeID(n int) string { return "node-" + strconv.Itoa(n) }

// AutoArrange lays the graph out by level and returns the ticket that
// settles it. An empty graph is left alone and yields false.
func (c *Controller) AutoArrange() (string, bool) {
	g, res, ok := layout.Arrange(c.graph, c.opts.Layout)
	if !ok {
		c.reject(string(EventAutoArrange), "empty graph")
		return "", false
	}
	c.cancelLayout(cancelSuperseded)
	c.apply(g)

	p := &pendingLayout{ticket: uuid.NewString(), started: time.Now(), levels: res.LevelCount}
	c.pending = p
	c.hooks().OnLayoutStart(p.ticket, c.graph.NodeCount())
	c.logger.Debug("layout applied", "ticket", p.ticket, "levels", res.LevelCount, "nodes", c.graph.NodeCount())
	return p.ticket, true
}

// SettleLayout commits the arranged graph if ticket is still pending.
// Stale or unknown tickets are ignored.
func (c *Controller) SettleLayout(ticket string) bool {
	if c.pending == nil || c.pending.ticket != ticket {
		c.reject(string(EventLayoutSettled), "stale ticket "+ticket)
		return false
	}
	p := c.pending
	c.pending = nil
	c.apply(c.graph)
	c.commit(ReasonArrange)
	c.hooks().OnLayoutComplete(p.ticket, p.levels, time.Since(p.started))
	return true
}

// Undo restores the previous snapshot without committing. An unsettled
// arrange is discarded first, restoring the last committed state.
func (c *Controller) Undo() bool {
	c.dragging = ""
	if c.pending != nil {
		c.cancelLayout("undo")
		g, _ := c.history.Current()
		c.apply(g)
		c.hooks().OnUndo(c.graph.NodeCount(), c.graph.EdgeCount())
		return true
	}
	g, ok := c.history.Undo()
	if !ok {
		c.reject(string(EventUndo), "at oldest snapshot")
		return false
	}
	c.apply(g)
	c.hooks().OnUndo(c.graph.NodeCount(), c.graph.EdgeCount())
	c.logger.Debug("undo", "nodes", c.graph.NodeCount(), "edges", c.graph.EdgeCount())
	return true
}

// Redo restores the next snapshot without committing.
func (c *Controller) Redo() bool {
	if c.pending != nil || !c.history.CanRedo() {
		c.reject(string(EventRedo), "at newest snapshot")
		return false
	}
	g, _ := c.history.Redo()
	c.dragging = ""
	c.apply(g)
	c.hooks().OnRedo(c.graph.NodeCount(), c.graph.EdgeCount())
	c.logger.Debug("redo", "nodes", c.graph.NodeCount(), "edges", c.graph.EdgeCount())
	return true
}

// SetViewport records the renderer's viewport and pulls stray nodes back
// into view. Nothing is committed.
func (c *Controller) SetViewport(vp bounds.Viewport) {
	c.viewport = vp
	c.apply(c.graph)
}

// apply makes g the live graph after enforcing bounds on it. A drag on a
// node that g no longer has is dropped.
func (c *Controller) apply(g flow.Graph) {
	g, corrected := bounds.Enforce(g, c.viewport, c.opts.Bounds)
	if corrected > 0 {
		c.hooks().OnBoundsCorrected(corrected)
		c.logger.Debug("bounds corrected", "nodes", corrected)
	}
	c.graph = g
	if c.dragging != "" && !g.HasNode(c.dragging) {
		c.dragging = ""
	}
}

func (c *Controller) commit(reason string) {
	c.history.Commit(c.graph)
	c.commits++
	c.hooks().OnCommit(reason, c.graph.NodeCount(), c.graph.EdgeCount())
	c.logger.Debug("commit", "reason", reason, "nodes", c.graph.NodeCount(), "edges", c.graph.EdgeCount(), "history", c.history.Len())
}

func (c *Controller) cancelLayout(reason string) {
	if c.pending == nil {
		return
	}
	ticket := c.pending.ticket
	c.pending = nil
	c.hooks().OnLayoutCancelled(ticket, reason)
	c.logger.Debug("layout cancelled", "ticket", ticket, "reason", reason)
}

func (c *Controller) reject(event, reason string) {
	c.hooks().OnRejected(event, reason)
	c.logger.Debug("rejected", "event", event, "reason", reason)
}

func (c *Controller) hooks() observability.EditorHooks {
	if c.opts.Hooks != nil {
		return c.opts.Hooks
	}
	return observability.Editor()
}
