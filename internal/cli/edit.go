package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/flow"
)

const (
	// gridStep is how far one arrow key press drags a node.
	gridStep = 15.0

	// settleDelay is how long an arrangement animates before it settles.
	settleDelay = 500 * time.Millisecond

	// Handles used by connections made from the terminal.
	sourceHandle = "bottom"
	targetHandle = "top"
)

var (
	editCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDragStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	editSelectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	editOffStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// editCommand creates the edit command for the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [diagram.json]",
		Short: "Edit a diagram in the terminal",
		Long: `Edit a diagram in the terminal.

Keys:
  tab / shift+tab   move the cursor between nodes
  arrows            drag the node under the cursor
  enter             drop the dragged node
  space             toggle selection
  n                 add a node
  c                 connect: press on the source, then on the target
  d                 delete the selection
  a                 auto-arrange
  u / r             undo / redo
  w                 write the diagram back to the file
  q                 quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			g, vp, err := loadDocument(path)
			if err != nil {
				return err
			}
			ctrl := c.newController(g, nil)
			if vp != nil {
				ctrl.SetViewport(*vp)
			}
			m := newEditModel(ctrl, path, func(g flow.Graph) error {
				return saveDocument(g, viewportOf(ctrl), path)
			})
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
	return cmd
}

// settleMsg fires when an arrangement's animation is over.
type settleMsg struct{ ticket string }

// editModel is the bubbletea model of the terminal editor. It renders the
// controller state and turns key presses into controller operations.
type editModel struct {
	ctrl   *editor.Controller
	path   string
	save   func(flow.Graph) error
	cursor int
	height int

	connectFrom string
	status      string
	dirty       bool
}

func newEditModel(ctrl *editor.Controller, path string, save func(flow.Graph) error) editModel {
	return editModel{ctrl: ctrl, path: path, save: save, height: 15}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case settleMsg:
		if m.ctrl.SettleLayout(msg.ticket) {
			m.status = "arranged"
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m editModel) handleKey(key string) (tea.Model, tea.Cmd) {
	nodes := m.ctrl.Graph().Nodes()
	current, hasCurrent := m.current(nodes)

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab":
		if len(nodes) == 0 {
			return m, nil
		}
		m.drop()
		step := 1
		if key == "shift+tab" {
			step = len(nodes) - 1
		}
		m.cursor = (m.cursor + step) % len(nodes)

	case "up", "down", "left", "right":
		if !hasCurrent {
			return m, nil
		}
		if m.ctrl.State().Dragging != current.ID {
			m.ctrl.DragStart(current.ID)
		}
		m.ctrl.DragMove(current.ID, nudge(current.Position, key))
		m.status = "dragging " + current.ID + " (enter to drop)"

	case "enter":
		if m.drop() {
			m.status = "moved " + current.ID
		}

	case " ":
		if hasCurrent {
			m.ctrl.Select(toggle(m.selection(), current.ID)...)
		}

	case "n":
		n := m.ctrl.AddNode()
		m.cursor = slices.IndexFunc(m.ctrl.Graph().Nodes(), func(x flow.Node) bool { return x.ID == n.ID })
		m.status = "added " + n.ID
		m.dirty = true

	case "c":
		if !hasCurrent {
			return m, nil
		}
		if m.connectFrom == "" {
			m.connectFrom = current.ID
			m.status = "connect " + current.ID + " to... (move and press c)"
			return m, nil
		}
		conn := flow.Connection{Source: m.connectFrom, SourceHandle: sourceHandle, Target: current.ID, TargetHandle: targetHandle}
		m.connectFrom = ""
		if m.ctrl.Connect(conn) {
			m.status = "connected " + conn.Source + " → " + conn.Target
			m.dirty = true
		} else {
			m.status = "cannot connect " + conn.Source + " → " + conn.Target
		}

	case "esc":
		m.connectFrom = ""
		m.status = ""

	case "d":
		if m.ctrl.DeleteSelection() {
			m.status = "deleted selection"
			m.dirty = true
			m.cursor = min(m.cursor, max(m.ctrl.Graph().NodeCount()-1, 0))
		} else {
			m.status = "nothing selected"
		}

	case "a":
		ticket, ok := m.ctrl.AutoArrange()
		if !ok {
			m.status = "nothing to arrange"
			return m, nil
		}
		m.status = "arranging..."
		m.dirty = true
		return m, tea.Tick(settleDelay, func(time.Time) tea.Msg { return settleMsg{ticket: ticket} })

	case "u":
		if m.ctrl.Undo() {
			m.status = "undo"
			m.dirty = true
		}
		m.clampCursor()

	case "r":
		if m.ctrl.Redo() {
			m.status = "redo"
			m.dirty = true
		}
		m.clampCursor()

	case "w":
		if err := m.save(m.ctrl.Graph()); err != nil {
			m.status = "write failed: " + err.Error()
		} else {
			m.status = "wrote " + m.path
			m.dirty = false
		}
	}
	return m, nil
}

// current returns the node under the cursor.
func (m editModel) current(nodes []flow.Node) (flow.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return flow.Node{}, false
	}
	return nodes[m.cursor], true
}

// drop ends the drag in progress, if any, at the node's live position.
func (m *editModel) drop() bool {
	id := m.ctrl.State().Dragging
	if id == "" {
		return false
	}
	n, ok := m.ctrl.Graph().Node(id)
	if !ok {
		return false
	}
	m.dirty = true
	return m.ctrl.DragEnd(id, n.Position)
}

func (m *editModel) clampCursor() {
	m.cursor = min(m.cursor, max(m.ctrl.Graph().NodeCount()-1, 0))
}

func (m editModel) selection() []string {
	g := m.ctrl.Graph()
	return append(g.SelectedNodeIDs(), g.SelectedEdgeIDs()...)
}

func nudge(p flow.Position, key string) flow.Position {
	switch key {
	case "up":
		p.Y -= gridStep
	case "down":
		p.Y += gridStep
	case "left":
		p.X -= gridStep
	case "right":
		p.X += gridStep
	}
	return p
}

func toggle(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}

func (m editModel) View() string {
	st := m.ctrl.State()
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab move  arrows drag  ⏎ drop  space select  n add  c connect  d delete  a arrange  u/r undo/redo  w write  q quit"))
	b.WriteString("\n\n")

	offset := 0
	if m.cursor >= m.height {
		offset = m.cursor - m.height + 1
	}
	end := min(offset+m.height, len(st.Nodes))
	for i := offset; i < end; i++ {
		n := st.Nodes[i]
		cursor := "  "
		style := editNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = editCursorStyle
		}
		if n.ID == st.Dragging {
			style = editDragStyle
		}
		mark := "[ ]"
		if n.Selected {
			mark = editSelectedStyle.Render("[x]")
		}
		label := n.Data.Label
		if label == "" {
			label = n.ID
		}
		line := fmt.Sprintf("%s%s %-16s %-20s %s", cursor, mark, n.ID, label, n.Position)
		if n.ID == m.connectFrom {
			line += StyleHighlight.Render("  ● source")
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if len(st.Nodes) == 0 {
		b.WriteString(StyleDim.Render("  (empty diagram, press n to add a node)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, e := range st.Edges {
		line := fmt.Sprintf("  %s → %s", e.Source, e.Target)
		if e.Selected {
			line = editSelectedStyle.Render(line)
		} else {
			line = StyleDim.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(flag("undo", st.CanUndo) + "  " + flag("redo", st.CanRedo) + "  " + flag("arranging", st.LayoutInProgress))
	if m.status != "" {
		b.WriteString("  " + StyleDim.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}

func flag(name string, on bool) string {
	if on {
		return StyleSuccess.Render(name)
	}
	return editOffStyle.Render(name)
}
