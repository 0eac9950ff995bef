package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

func treeFixture(t *testing.T) ([]pivot.Node, []string) {
	t.Helper()
	txns := []model.Transaction{
		{TransactionID: "a", Amount: 100, YearMonth: "202403", ServiceParent: "POOJA", ServiceID: "archana", ServiceDisplay: "Archana", BookedDate: "2024-03-15"},
		{TransactionID: "b", Amount: 50, YearMonth: "202401", ServiceParent: "POOJA", ServiceID: "homam", ServiceDisplay: "Homam", BookedDate: "2024-01-02"},
		{TransactionID: "c", Amount: 75, YearMonth: "202305", ServiceParent: "EVENTS", ServiceID: "diwali", ServiceDisplay: "Diwali", BookedDate: "2023-05-05"},
	}
	forest := pivot.ByYear(txns)
	return forest, pivot.TopLevelIDs(forest)
}

func TestTreeInitialExpansionShowsCategories(t *testing.T) {
	forest, initial := treeFixture(t)
	tree := NewTree(forest, initial, themes.Default)

	// Years open, categories closed: 2 year rows + 2 category rows.
	assert.Equal(t, 4, tree.VisibleCount())
	assert.True(t, tree.Expanded("2024"))
	assert.True(t, tree.Expanded("2023"))
	assert.False(t, tree.Expanded("2024-POOJA"))
}

func TestTreeToggleCollapsesAndExpands(t *testing.T) {
	forest, initial := treeFixture(t)
	tree := NewTree(forest, initial, themes.Default)
	tree.Resize(80, 30)

	// Enter on the first year collapses it.
	tree, _ = tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, tree.Expanded("2024"))
	assert.Equal(t, 3, tree.VisibleCount())

	// Enter again restores it.
	tree, _ = tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, tree.Expanded("2024"))
	assert.Equal(t, 4, tree.VisibleCount())

	// Expanding the category under 2024 reveals its service leaves.
	tree, _ = tree.Update(keyRune('j'))
	node, ok := tree.Cursor()
	require.True(t, ok)
	require.Equal(t, "2024-POOJA", node.ID)

	tree, _ = tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, tree.Expanded("2024-POOJA"))
	assert.Equal(t, 6, tree.VisibleCount())
}

func TestTreeLeafOpensDrawer(t *testing.T) {
	forest, initial := treeFixture(t)
	tree := NewTree(forest, initial, themes.Default)
	tree.Resize(80, 30)

	tree, _ = tree.Update(keyRune('j'))
	tree, _ = tree.Update(tea.KeyMsg{Type: tea.KeyEnter}) // expand 2024-POOJA
	tree, _ = tree.Update(keyRune('j'))

	node, ok := tree.Cursor()
	require.True(t, ok)
	require.Equal(t, "2024-POOJA-archana", node.ID)

	tree, cmd := tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(OpenDrawerMsg)
	require.True(t, ok)
	assert.Equal(t, "2024-POOJA-archana", msg.Node.ID)
	require.Len(t, msg.Node.Transactions, 1)
	assert.Equal(t, "a", msg.Node.Transactions[0].TransactionID)
}

func TestTreeSetForestKeepsExpansionState(t *testing.T) {
	forest, initial := treeFixture(t)
	tree := NewTree(forest, initial, themes.Default)

	tree.Toggle("2024") // collapse
	require.False(t, tree.Expanded("2024"))

	// Swapping in a different forest and back keeps the collapsed state.
	tree.SetForest(nil)
	tree.SetForest(forest)
	assert.False(t, tree.Expanded("2024"))
	assert.Equal(t, 3, tree.VisibleCount())
}

func TestTreeAmountsShowMagnitudeOnly(t *testing.T) {
	txns := []model.Transaction{
		{TransactionID: "r1", Amount: 30, IsReversal: true, YearMonth: "202403", ServiceParent: "POOJA", ServiceID: "archana", BookedDate: "2024-03-15"},
	}
	forest := pivot.ByYear(txns)
	tree := NewTree(forest, pivot.TopLevelIDs(forest), themes.Default)
	tree.Resize(80, 30)

	view := tree.View()
	assert.Contains(t, view, "$30.00")
	// The sign is carried by color alone, never a leading minus.
	assert.NotContains(t, view, "-$")
}

func TestRenderAmountColorCarriesSign(t *testing.T) {
	theme := themes.Default

	assert.Equal(t, theme.AmountNegative.Render("$30.00"), renderAmount(theme, -30))
	assert.Equal(t, theme.AmountPositive.Render("$30.00"), renderAmount(theme, 30))
	assert.Equal(t, theme.AmountPositive.Render("$0.00"), renderAmount(theme, 0))
}

func TestCategoryColorSubstringMatch(t *testing.T) {
	assert.Equal(t, themes.CategoryColor("2024-POOJA-archana"), themes.CategoryColor("cat-POOJA"))
	assert.NotEqual(t, themes.CategoryColor("cat-POOJA"), themes.CategoryColor("cat-EVENTS"))
	// Unknown categories fall back to the general color.
	assert.Equal(t, themes.CategoryColor("cat-GENERAL_DONATIONS"), themes.CategoryColor("cat-MYSTERY"))
}
