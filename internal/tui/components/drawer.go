package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

// CloseDrawerMsg asks the parent to close the transaction drawer.
type CloseDrawerMsg struct{}

// DrawerModel shows the transactions behind a single rollup node.
type DrawerModel struct {
	theme  themes.Theme
	node   *pivot.Node
	width  int
	height int
	cursor int
	offset int
}

// NewDrawer creates a closed drawer.
func NewDrawer(theme themes.Theme) DrawerModel {
	return DrawerModel{
		theme:  theme,
		width:  80,
		height: 24,
	}
}

// Open points the drawer at a node and resets scroll state.
func (m *DrawerModel) Open(node pivot.Node) {
	m.node = &node
	m.cursor = 0
	m.offset = 0
}

// Close clears the drawer contents so stale transactions never flash on the
// next open.
func (m *DrawerModel) Close() {
	m.node = nil
	m.cursor = 0
	m.offset = 0
}

// IsOpen reports whether the drawer is showing a node.
func (m DrawerModel) IsOpen() bool {
	return m.node != nil
}

// Node returns the node the drawer is showing, if open.
func (m DrawerModel) Node() (pivot.Node, bool) {
	if m.node == nil {
		return pivot.Node{}, false
	}
	return *m.node, true
}

// Update handles messages.
func (m DrawerModel) Update(msg tea.Msg) (DrawerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.node == nil {
			return m, nil
		}
		switch msg.String() {
		case "esc", "q", "h", "left":
			m.Close()
			return m, func() tea.Msg {
				return CloseDrawerMsg{}
			}

		case "j", "down":
			m.moveCursor(1)

		case "k", "up":
			m.moveCursor(-1)

		case "g", "home":
			m.cursor = 0
			m.offset = 0

		case "G", "end":
			m.moveCursor(len(m.node.Transactions))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the drawer.
func (m DrawerModel) View() string {
	if m.node == nil {
		return ""
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(m.node.Label),
		m.theme.Subtitle.Render(fmt.Sprintf("%d transactions · ", m.node.Count))+
			renderAmount(m.theme, m.node.Amount),
	)

	var rows []string
	page := max(1, m.height-6)
	end := min(m.offset+page, len(m.node.Transactions))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(m.node.Transactions[i], i == m.cursor))
	}

	footer := m.theme.Subtitle.Render("[Esc] Close  [↑↓] Navigate")

	return m.theme.BorderedBox.Width(max(40, m.width-4)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			strings.Join(rows, "\n"),
			"",
			footer,
		))
}

func (m DrawerModel) renderRow(t model.Transaction, selected bool) string {
	date := t.BookedDate
	if parsed, ok := t.BookedTime(); ok {
		date = parsed.Format("2006-01-02")
	}

	signed := t.SignedAmount()
	amount := model.FormatUSD(signed)
	if signed < 0 {
		amount = m.theme.AmountNegative.Render("-" + amount + " (reversal)")
	} else {
		amount = m.theme.AmountPositive.Render(amount)
	}

	detail := t.ServiceLabel()
	if t.PaymentType != "" {
		detail += " · " + t.PaymentType
	}
	if t.DevoteeEmail != "" {
		detail += " · " + t.DevoteeEmail
	}

	line := fmt.Sprintf("%s  %-24s %s\n    %s",
		date,
		truncate(t.Devotee(), 24),
		amount,
		m.theme.Level3.Render(truncate(detail, max(20, m.width-12))),
	)
	if selected {
		return m.theme.Highlighted.Render(line)
	}
	return line
}

func (m *DrawerModel) moveCursor(delta int) {
	if m.node == nil {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.node.Transactions)-1 {
		m.cursor = max(0, len(m.node.Transactions)-1)
	}

	page := max(1, m.height-6)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

// Resize updates the component size.
func (m *DrawerModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
