// Package components contains the building blocks of the browse TUI.
package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

// OpenDrawerMsg asks the parent to open the transaction drawer for a node.
type OpenDrawerMsg struct {
	Node pivot.Node
}

// TreeModel renders a rollup forest as an expandable tree.
type TreeModel struct {
	theme    themes.Theme
	expanded map[string]bool
	forest   []pivot.Node
	visible  []pivot.Node
	width    int
	height   int
	cursor   int
	offset   int
}

// NewTree creates a tree over the given forest. IDs listed in
// initialExpanded start out open.
func NewTree(forest []pivot.Node, initialExpanded []string, theme themes.Theme) TreeModel {
	expanded := make(map[string]bool, len(initialExpanded))
	for _, id := range initialExpanded {
		expanded[id] = true
	}

	m := TreeModel{
		theme:    theme,
		forest:   forest,
		expanded: expanded,
		width:    80,
		height:   24,
	}
	m.rebuild()
	return m
}

// SetForest swaps the forest while preserving expansion state, so switching
// rollup views and coming back keeps open groups open.
func (m *TreeModel) SetForest(forest []pivot.Node) {
	m.forest = forest
	m.cursor = 0
	m.offset = 0
	m.rebuild()
}

// Expanded reports whether the node with the given ID is open.
func (m TreeModel) Expanded(id string) bool {
	return m.expanded[id]
}

// Cursor returns the currently highlighted node, if any.
func (m TreeModel) Cursor() (pivot.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return pivot.Node{}, false
	}
	return m.visible[m.cursor], true
}

// VisibleCount returns the number of rows currently reachable by the cursor.
func (m TreeModel) VisibleCount() int {
	return len(m.visible)
}

// Toggle flips the expansion state of the node with the given ID.
func (m *TreeModel) Toggle(id string) {
	m.expanded[id] = !m.expanded[id]
	m.rebuild()
}

// Update handles messages.
func (m TreeModel) Update(msg tea.Msg) (TreeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m TreeModel) handleKey(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)

	case "k", "up":
		m.moveCursor(-1)

	case "pgdown", "ctrl+f":
		m.moveCursor(m.pageSize())

	case "pgup", "ctrl+b":
		m.moveCursor(-m.pageSize())

	case "g", "home":
		m.cursor = 0
		m.offset = 0

	case "G", "end":
		m.moveCursor(len(m.visible))

	case "enter", "l", "right":
		node, ok := m.Cursor()
		if !ok {
			break
		}
		if node.HasChildren() {
			m.Toggle(node.ID)
			break
		}
		if node.HasTransactions() {
			return m, func() tea.Msg {
				return OpenDrawerMsg{Node: node}
			}
		}

	case "h", "left":
		node, ok := m.Cursor()
		if ok && node.HasChildren() && m.expanded[node.ID] {
			m.Toggle(node.ID)
		}
	}
	return m, nil
}

// View renders the visible window of the tree.
func (m TreeModel) View() string {
	if len(m.visible) == 0 {
		return m.theme.StatusPending.Render("No transactions to display")
	}

	var b strings.Builder
	end := min(m.offset+m.pageSize(), len(m.visible))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.visible[i], i == m.cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m TreeModel) renderRow(node pivot.Node, selected bool) string {
	indent := strings.Repeat("  ", node.Level-1)

	marker := "  "
	if node.HasChildren() {
		if m.expanded[node.ID] {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	labelStyle := m.levelStyle(node.Level)
	if node.Level == 2 {
		labelStyle = labelStyle.Foreground(themes.CategoryColor(node.ID))
	}

	label := labelStyle.Render(node.Label)
	count := m.theme.Subtitle.Render(fmt.Sprintf("(%d)", node.Count))
	amount := renderAmount(m.theme, node.Amount)

	line := fmt.Sprintf("%s%s%s %s  %s", indent, marker, label, count, amount)
	if selected {
		return m.theme.Selected.Render("› ") + line
	}
	return "  " + line
}

func (m TreeModel) levelStyle(level int) lipgloss.Style {
	switch level {
	case 1:
		return m.theme.Level1
	case 2:
		return m.theme.Level2
	default:
		return m.theme.Level3
	}
}

// Resize updates the component size.
func (m *TreeModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

func (m *TreeModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.visible)-1 {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.clampScroll()
}

func (m *TreeModel) clampScroll() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m TreeModel) pageSize() int {
	return max(1, m.height)
}

// rebuild flattens the forest into the visible row list, descending only
// into expanded nodes.
func (m *TreeModel) rebuild() {
	m.visible = m.visible[:0]

	var walk func(nodes []pivot.Node)
	walk = func(nodes []pivot.Node) {
		for _, node := range nodes {
			m.visible = append(m.visible, node)
			if node.HasChildren() && m.expanded[node.ID] {
				walk(node.Children)
			}
		}
	}
	walk(m.forest)

	if m.cursor > len(m.visible)-1 {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.clampScroll()
}
