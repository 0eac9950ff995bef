package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/svtemple/ledgerdesk/internal/pivot"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.renderHeader(),
		m.renderBody(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("LedgerDesk")

	var tabs []string
	for _, t := range []struct {
		label string
		tab   Tab
	}{
		{"Detailed Txns", TabDetailed},
		{"Recent Txns", TabRecent},
	} {
		if t.tab == m.tab {
			tabs = append(tabs, m.theme.TabActive.Render(t.label))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(t.label))
		}
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", m.statsBar.View()),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	}

	if m.tab == TabDetailed {
		lines = append(lines, m.renderViewModeBar())
	}
	if m.filtering {
		lines = append(lines, m.theme.Bold.Render("Filter: ")+m.filterInput.View())
	} else if m.filter != "" {
		lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("Filter: %q (Esc clears)", m.filter)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderViewModeBar() string {
	var parts []string
	for _, v := range []struct {
		label string
		key   string
		mode  pivot.ViewMode
	}{
		{"By Year", "1", pivot.ViewByYear},
		{"By Category", "2", pivot.ViewByCategory},
		{"By Devotee", "3", pivot.ViewByDevotee},
	} {
		label := fmt.Sprintf("[%s] %s", v.key, v.label)
		if v.mode == m.viewMode {
			parts = append(parts, m.theme.Bold.Render(label))
		} else {
			parts = append(parts, m.theme.Subtitle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderBody() string {
	if m.drawer.IsOpen() {
		return m.drawer.View()
	}

	switch m.tab {
	case TabRecent:
		return m.feed.View()
	default:
		return m.tree.View()
	}
}

func (m Model) renderFooter() string {
	var hints []string

	switch {
	case m.filtering:
		hints = []string{"[Enter] Apply", "[Esc] Cancel"}
	case m.drawer.IsOpen():
		hints = []string{"[↑↓] Navigate", "[Esc] Close"}
	case m.tab == TabRecent:
		hints = []string{"[↑↓] Scroll", "[Enter] Details", "[Tab] Detailed", "[e] Export", "[?] Help"}
	default:
		hints = []string{"[↑↓] Navigate", "[Enter] Expand", "[Tab] Recent", "[e] Export", "[?] Help"}
	}
	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(hints, "  "))

	if m.status != "" {
		style := m.theme.StatusSuccess
		if m.statusIsErr {
			style = m.theme.StatusError
		}
		return lipgloss.JoinVertical(lipgloss.Left, style.Render(m.status), footer)
	}
	return footer
}

func (m Model) renderHelp() string {
	rows := []string{
		m.theme.Title.Render("Keyboard Shortcuts"),
		"",
	}
	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			help := binding.Help()
			rows = append(rows, fmt.Sprintf("  %-14s %s",
				m.theme.Bold.Render(help.Key),
				m.theme.Normal.Render(help.Desc)))
		}
		rows = append(rows, "")
	}
	rows = append(rows, m.theme.Subtitle.Render("Press ? or Esc to return"))

	return m.theme.Box.Render(strings.Join(rows, "\n"))
}
