package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

const (
	// feedPageSize is how many rows each page of the recent feed reveals.
	feedPageSize = 20
	// feedLoadThreshold is how close to the bottom the cursor gets before
	// the next page is revealed.
	feedLoadThreshold = 5
)

// FeedModel renders the flat recent-transactions feed. All transactions are
// already in memory; pagination only limits how many rows are rendered, and
// scrolling near the bottom reveals the next page.
type FeedModel struct {
	theme        themes.Theme
	transactions []model.Transaction
	visibleCount int
	hasMore      bool
	width        int
	height       int
	cursor       int
	offset       int
}

// NewFeed creates a feed over the given transactions, newest first.
func NewFeed(transactions []model.Transaction, theme themes.Theme) FeedModel {
	m := FeedModel{
		theme:  theme,
		width:  80,
		height: 24,
	}
	m.SetTransactions(transactions)
	return m
}

// SetTransactions resets the feed to the first page of a new list.
func (m *FeedModel) SetTransactions(transactions []model.Transaction) {
	m.transactions = transactions
	m.visibleCount = min(feedPageSize, len(transactions))
	m.hasMore = m.visibleCount < len(transactions)
	m.cursor = 0
	m.offset = 0
}

// VisibleCount returns how many rows are currently revealed.
func (m FeedModel) VisibleCount() int {
	return m.visibleCount
}

// HasMore reports whether another page remains.
func (m FeedModel) HasMore() bool {
	return m.hasMore
}

// Cursor returns the currently highlighted transaction, if any.
func (m FeedModel) Cursor() (model.Transaction, bool) {
	if m.cursor < 0 || m.cursor >= m.visibleCount {
		return model.Transaction{}, false
	}
	return m.transactions[m.cursor], true
}

// Update handles messages.
func (m FeedModel) Update(msg tea.Msg) (FeedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m FeedModel) handleKey(msg tea.KeyMsg) (FeedModel, tea.Cmd) {
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
		m.moveCursor(m.visibleCount)

	case "enter":
		txn, ok := m.Cursor()
		if !ok {
			break
		}
		node := detailNode(txn)
		return m, func() tea.Msg {
			return OpenDrawerMsg{Node: node}
		}
	}
	return m, nil
}

// detailNode wraps a single feed row in a leaf node so the drawer can show
// it with the same layout the rollup tree uses.
func detailNode(t model.Transaction) pivot.Node {
	return pivot.Node{
		ID:           "recent-" + t.TransactionID,
		Label:        t.Devotee(),
		Transactions: []model.Transaction{t},
		Amount:       t.SignedAmount(),
		Count:        1,
		Level:        3,
	}
}

// View renders the revealed window of the feed.
func (m FeedModel) View() string {
	if len(m.transactions) == 0 {
		return m.theme.StatusPending.Render("No transactions to display")
	}

	var b strings.Builder
	end := min(m.offset+m.pageSize(), m.visibleCount)
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.transactions[i], i == m.cursor))
		b.WriteString("\n")
	}

	if m.hasMore {
		b.WriteString(m.theme.StatusPending.Render(
			fmt.Sprintf("… %d more (scroll to load)", len(m.transactions)-m.visibleCount)))
	} else {
		b.WriteString(m.theme.Subtitle.Render(
			fmt.Sprintf("%d transactions", len(m.transactions))))
	}
	return b.String()
}

func (m FeedModel) renderRow(t model.Transaction, selected bool) string {
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

	service := m.theme.Level3.Render(truncate(t.ServiceLabel(), 30))
	devotee := m.theme.Normal.Render(truncate(t.Devotee(), 24))

	line := fmt.Sprintf("%s  %-24s %-30s %s", date, devotee, service, amount)
	if selected {
		return m.theme.Selected.Render("› ") + line
	}
	return "  " + line
}

// Resize updates the component size.
func (m *FeedModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

func (m *FeedModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > m.visibleCount-1 {
		m.cursor = max(0, m.visibleCount-1)
	}
	m.maybeLoadMore()
	m.clampScroll()
}

// maybeLoadMore reveals the next page once the cursor nears the bottom of
// the revealed rows.
func (m *FeedModel) maybeLoadMore() {
	if !m.hasMore {
		return
	}
	if m.cursor < m.visibleCount-feedLoadThreshold {
		return
	}
	m.visibleCount = min(m.visibleCount+feedPageSize, len(m.transactions))
	m.hasMore = m.visibleCount < len(m.transactions)
}

func (m *FeedModel) clampScroll() {
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

func (m FeedModel) pageSize() int {
	// One line is reserved for the load-more / total footer.
	return max(1, m.height-1)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
