package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/engine"
	"github.com/matzehuels/seqline/pkg/layout"
)

// pxPerCell converts scene pixels to terminal columns.
const pxPerCell = 10.0

// Editor styles.
var (
	styleRail     = lipgloss.NewStyle().Foreground(colorDim)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDragging = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleStatus   = lipgloss.NewStyle().Foreground(colorGray)
	styleHints    = lipgloss.NewStyle().Foreground(colorDim)
)

// editorState tracks what the keyboard is currently controlling.
type editorState int

const (
	stateBrowse editorState = iota
	stateNodeDrag
	stateAnchorDrag
)

// editorModel is the bubbletea model for the interactive diagram editor.
// All mutation goes through the engine's drag protocol and edit API; the
// model itself only holds presentation state.
type editorModel struct {
	eng  *engine.Engine
	path string

	scene  *layout.Scene
	cursor int
	state  editorState

	// Simulated pointer position driving the drag protocol.
	pointerY float64
	pointerX float64

	status string
	dirty  bool
	width  int
}

func newEditorModel(eng *engine.Engine, path string) editorModel {
	return editorModel{
		eng:    eng,
		path:   path,
		scene:  eng.Layout(context.Background()),
		status: "ready",
		width:  80,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case stateBrowse:
			return m.updateBrowse(msg)
		case stateNodeDrag:
			return m.updateNodeDrag(msg)
		case stateAnchorDrag:
			return m.updateAnchorDrag(msg)
		}
	}
	return m, nil
}

// =============================================================================
// Browse Mode
// =============================================================================

func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.orderedNodes()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(nodes)-1 {
			m.cursor++
		}

	case "enter":
		if len(nodes) == 0 {
			return m, nil
		}
		sel := nodes[m.cursor]
		if err := m.eng.StartNodeDrag(context.Background(), sel.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.state = stateNodeDrag
		m.pointerY = sel.Y
		m.status = fmt.Sprintf("moving %s: up/down to a slot, enter commits, esc reverts", nodeName(sel))

	case "a", "t":
		if len(nodes) == 0 {
			return m, nil
		}
		sel := nodes[m.cursor]
		anchorID, ok := m.anchorFor(sel.ID, msg.String() == "a")
		if !ok {
			return m, nil
		}
		if err := m.eng.StartAnchorDrag(context.Background(), anchorID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.state = stateAnchorDrag
		m.pointerX = m.anchorX(anchorID)
		m.status = fmt.Sprintf("moving anchor of %s: left/right across lifelines, enter commits", nodeName(sel))

	case "s":
		if err := diagram.WriteDocumentFile(m.eng.Document(), m.path); err != nil {
			m.status = "save failed: " + err.Error()
			return m, nil
		}
		m.dirty = false
		m.status = "saved " + m.path
	}
	return m, nil
}

// =============================================================================
// Node Drag Mode
// =============================================================================

func (m editorModel) updateNodeDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	th := m.eng.Theme()
	step := th.DefaultNodeHeight + th.SlotGap

	switch msg.String() {
	case "up", "k":
		m.pointerY -= step
		if m.pointerY < th.HeaderHeight {
			m.pointerY = th.HeaderHeight
		}
		return m.preview(m.eng.DragMoveNode(m.pointerY))
	case "down", "j":
		m.pointerY += step
		return m.preview(m.eng.DragMoveNode(m.pointerY))
	case "enter":
		return m.finishDrag()
	case "esc", "q":
		return m.cancelDrag()
	}
	return m, nil
}

// =============================================================================
// Anchor Drag Mode
// =============================================================================

func (m editorModel) updateAnchorDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.pointerX = m.adjacentRail(m.pointerX, -1)
		return m.preview(m.eng.DragMoveAnchor(m.pointerX))
	case "right", "l":
		m.pointerX = m.adjacentRail(m.pointerX, +1)
		return m.preview(m.eng.DragMoveAnchor(m.pointerX))
	case "enter":
		return m.finishDrag()
	case "esc", "q":
		return m.cancelDrag()
	}
	return m, nil
}

// =============================================================================
// Drag Plumbing
// =============================================================================

func (m editorModel) preview(scene *layout.Scene, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.scene = scene
	return m, nil
}

func (m editorModel) finishDrag() (tea.Model, tea.Cmd) {
	res, err := m.eng.EndDrag(context.Background())
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if res.Committed {
		m.dirty = true
		m.status = "committed"
	} else {
		m.status = "reverted: " + res.Reverted
	}
	m.state = stateBrowse
	m.scene = m.eng.Layout(context.Background())
	m.clampCursor()
	return m, nil
}

func (m editorModel) cancelDrag() (tea.Model, tea.Cmd) {
	if _, err := m.eng.CancelDrag(context.Background()); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = "cancelled"
	m.state = stateBrowse
	m.scene = m.eng.Layout(context.Background())
	m.clampCursor()
	return m, nil
}

// =============================================================================
// Lookups
// =============================================================================

// orderedNodes returns the scene nodes sorted top-to-bottom, left-to-right.
func (m editorModel) orderedNodes() []layout.NodeBox {
	nodes := make([]layout.NodeBox, len(m.scene.Nodes))
	copy(nodes, m.scene.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Slot != nodes[j].Slot {
			return nodes[i].Slot < nodes[j].Slot
		}
		return nodes[i].X < nodes[j].X
	})
	return nodes
}

func (m *editorModel) clampCursor() {
	if n := len(m.scene.Nodes); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
}

// anchorFor returns the node's source (or target) anchor ID.
func (m editorModel) anchorFor(nodeID string, source bool) (string, bool) {
	n, ok := m.eng.Document().Node(nodeID)
	if !ok {
		return "", false
	}
	if source {
		return n.Source().ID, true
	}
	return n.Target().ID, true
}

// anchorX returns the projected X of an anchor mark.
func (m editorModel) anchorX(anchorID string) float64 {
	for _, a := range m.scene.Anchors {
		if a.ID == anchorID {
			return a.X
		}
	}
	return 0
}

// adjacentRail moves the pointer to the next lifeline rail in the given
// direction, or keeps it when already at the edge.
func (m editorModel) adjacentRail(x float64, dir int) float64 {
	rails := make([]float64, 0, len(m.scene.Lifelines))
	for _, l := range m.scene.Lifelines {
		rails = append(rails, l.X)
	}
	sort.Float64s(rails)

	if dir < 0 {
		for i := len(rails) - 1; i >= 0; i-- {
			if rails[i] < x {
				return rails[i]
			}
		}
	} else {
		for _, r := range rails {
			if r > x {
				return r
			}
		}
	}
	return x
}

func nodeName(n layout.NodeBox) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderNodeList())
	b.WriteString("\n")

	b.WriteString(styleStatus.Render(m.status))
	b.WriteString("\n")
	b.WriteString(styleHints.Render(m.hints()))
	return b.String()
}

func (m editorModel) hints() string {
	switch m.state {
	case stateNodeDrag:
		return "↑/↓ move  ⏎ commit  esc revert"
	case stateAnchorDrag:
		return "←/→ move  ⏎ commit  esc revert"
	default:
		return "↑/↓ select  ⏎ move node  a/t move anchor  s save  q quit"
	}
}

// renderCanvas draws the scene as a character grid: lifeline headers, rails,
// and one row per slot with the edges crossing it.
func (m editorModel) renderCanvas() string {
	cols := int(m.scene.Width/pxPerCell) + 1
	if cols < 20 {
		cols = 20
	}
	if m.width > 0 && cols > m.width {
		cols = m.width
	}
	col := func(x float64) int {
		c := int(x / pxPerCell)
		if c < 0 {
			c = 0
		}
		if c >= cols {
			c = cols - 1
		}
		return c
	}

	// Header row with lifeline names over their rails.
	header := make([]rune, cols)
	for i := range header {
		header[i] = ' '
	}
	for _, l := range m.scene.Lifelines {
		placeText(header, col(l.X)-len(l.Name)/2, l.Name)
	}

	selectedID := ""
	if nodes := m.orderedNodes(); m.state == stateBrowse && m.cursor < len(nodes) {
		selectedID = nodes[m.cursor].ID
	}

	rows := make([]string, 0, m.scene.SlotCount+1)
	rows = append(rows, string(header))

	for slot := 0; slot < m.scene.SlotCount; slot++ {
		line := make([]rune, cols)
		for i := range line {
			line[i] = ' '
		}
		for _, l := range m.scene.Lifelines {
			line[col(l.X)] = '│'
		}

		highlight := false
		for _, n := range m.scene.Nodes {
			if n.Slot != slot {
				continue
			}
			m.drawEdge(line, col, n)
			if n.ID == selectedID {
				highlight = true
			}
		}

		s := string(line)
		switch {
		case highlight:
			s = styleSelected.Render(s)
		case m.state != stateBrowse:
			s = styleRail.Render(s)
		}
		rows = append(rows, s)
	}

	return strings.Join(rows, "\n")
}

// drawEdge draws one node's edge with an arrowhead at the target end and the
// label overlaid when it fits.
func (m editorModel) drawEdge(line []rune, col func(float64) int, n layout.NodeBox) {
	var edge *layout.EdgeLine
	for i := range m.scene.Edges {
		if m.scene.Edges[i].NodeID == n.ID {
			edge = &m.scene.Edges[i]
			break
		}
	}
	if edge == nil {
		return
	}

	from, to := col(edge.X1), col(edge.X2)
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	for c := lo + 1; c < hi; c++ {
		line[c] = '─'
	}
	if to > from {
		line[hi] = '▶'
	} else {
		line[lo] = '◀'
	}

	if n.Label != "" && hi-lo > len(n.Label)+2 {
		placeText(line, lo+(hi-lo-len(n.Label))/2, n.Label)
	}
}

// renderNodeList draws the selectable node list below the canvas.
func (m editorModel) renderNodeList() string {
	nodes := m.orderedNodes()
	if len(nodes) == 0 {
		return StyleDim.Render("  (no nodes)")
	}

	var b strings.Builder
	for i, n := range nodes {
		cursor := "  "
		if i == m.cursor && m.state == stateBrowse {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-24s slot %d  lanes %d-%d", cursor, nodeName(n), n.Slot, n.Span.Left, n.Span.Right)
		switch {
		case i == m.cursor && m.state != stateBrowse:
			line = styleDragging.Render(line)
		case i == m.cursor:
			line = styleSelected.Render(line)
		default:
			line = StyleValue.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// placeText writes s into the grid starting at start, clipped to the grid.
func placeText(line []rune, start int, s string) {
	for i, r := range s {
		pos := start + i
		if pos < 0 || pos >= len(line) {
			continue
		}
		line[pos] = r
	}
}
