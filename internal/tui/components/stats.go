package components

import (
	"fmt"
	"strings"

	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

// StatsModel renders the summary bar above the tree and feed.
type StatsModel struct {
	theme       themes.Theme
	lastUpdated string
	stats       pivot.Stats
	width       int
}

// NewStats creates a stats bar.
func NewStats(stats pivot.Stats, lastUpdated string, theme themes.Theme) StatsModel {
	return StatsModel{
		theme:       theme,
		stats:       stats,
		lastUpdated: lastUpdated,
		width:       80,
	}
}

// SetStats replaces the displayed totals.
func (m *StatsModel) SetStats(stats pivot.Stats, lastUpdated string) {
	m.stats = stats
	m.lastUpdated = lastUpdated
}

// View renders the stats bar.
func (m StatsModel) View() string {
	total := model.FormatUSD(m.stats.TotalAmount)
	if m.stats.TotalAmount < 0 {
		total = "-" + total
	}

	parts := []string{
		m.theme.Bold.Render("Total: ") + m.theme.AmountPositive.Render(total),
		m.theme.Bold.Render("Transactions: ") + m.theme.Normal.Render(fmt.Sprintf("%d", m.stats.Count)),
	}
	if m.lastUpdated != "" {
		parts = append(parts, m.theme.Subtitle.Render("Updated "+m.lastUpdated))
	}

	return strings.Join(parts, m.theme.Subtitle.Render("  │  "))
}

// Resize updates the component size.
func (m *StatsModel) Resize(width int) {
	m.width = width
}
