package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svtemple/ledgerdesk/internal/common"
	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

func testConfig() Config {
	return Config{
		Snapshot: &model.Snapshot{
			LastUpdated: "2024-06-01 09:00 AM",
			Transactions: []model.Transaction{
				{TransactionID: "a", DevoteeName: "Asha Rao", DevoteeEmail: "asha@example.com", Amount: 100, YearMonth: "202403", ServiceParent: "POOJA", BookedDate: "2024-03-15"},
				{TransactionID: "b", DevoteeName: "Bala", DevoteeEmail: "bala@example.com", Amount: 50, YearMonth: "202401", ServiceParent: "EVENTS", BookedDate: "2024-01-02"},
			},
		},
		Theme: themes.Default,
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSwitchesViewModes(t *testing.T) {
	m := newModel(context.Background(), testConfig())
	assert.Equal(t, pivot.ViewByYear, m.viewMode)

	updated, _ := m.handleKey(keyRunes("2"))
	m = updated.(Model)
	assert.Equal(t, pivot.ViewByCategory, m.viewMode)

	node, ok := m.tree.Cursor()
	require.True(t, ok)
	assert.Equal(t, "cat-EVENTS", node.ID, "category view sorts categories ascending")
}

func TestModelDevoteeFilterRebuildsRollups(t *testing.T) {
	m := newModel(context.Background(), testConfig())
	assert.Equal(t, 2, m.stats.Count)

	updated, _ := m.handleKey(keyRunes("/"))
	m = updated.(Model)
	require.True(t, m.filtering)

	m.filterInput.SetValue("asha")
	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.False(t, m.filtering)
	assert.Equal(t, 1, m.stats.Count)
	assert.InDelta(t, 100.0, m.stats.TotalAmount, 1e-9)
	assert.Equal(t, 1, m.feed.VisibleCount())

	// Esc clears the filter.
	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, 2, m.stats.Count)
}

func TestModelShowsUserMessageOnRefreshFailure(t *testing.T) {
	m := newModel(context.Background(), testConfig())

	updated, _ := m.Update(snapshotLoadedMsg{
		err: common.NewUserError("Unauthorized - login expired. Please log in again.", common.ErrUnauthorized),
	})
	m = updated.(Model)

	assert.True(t, m.statusIsErr)
	assert.Equal(t, "Unauthorized - login expired. Please log in again.", m.status)
}

func TestFilterTransactionsMatchesNameAndEmail(t *testing.T) {
	txns := testConfig().Snapshot.Transactions

	assert.Len(t, filterTransactions(txns, ""), 2)
	assert.Len(t, filterTransactions(txns, "ASHA"), 1)
	assert.Len(t, filterTransactions(txns, "bala@example.com"), 1)
	assert.Empty(t, filterTransactions(txns, "nobody"))
}
