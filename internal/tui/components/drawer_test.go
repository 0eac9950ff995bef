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

func TestDrawerOpenAndClose(t *testing.T) {
	drawer := NewDrawer(themes.Default)
	assert.False(t, drawer.IsOpen())

	drawer.Open(pivot.Node{
		ID:    "2024-POOJA-archana",
		Label: "Archana",
		Transactions: []model.Transaction{
			{TransactionID: "a", DevoteeName: "Asha", Amount: 100, BookedDate: "2024-03-15"},
		},
		Amount: 100,
		Count:  1,
		Level:  3,
	})
	require.True(t, drawer.IsOpen())

	node, ok := drawer.Node()
	require.True(t, ok)
	assert.Equal(t, "Archana", node.Label)

	drawer, cmd := drawer.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, isClose := cmd().(CloseDrawerMsg)
	assert.True(t, isClose)

	// Closing clears the contents so nothing stale shows on reopen.
	assert.False(t, drawer.IsOpen())
	_, ok = drawer.Node()
	assert.False(t, ok)
	assert.Equal(t, "", drawer.View())
}

func TestDrawerHeaderShowsSignedAggregateByColor(t *testing.T) {
	drawer := NewDrawer(themes.Default)
	drawer.Resize(80, 24)

	drawer.Open(pivot.Node{
		ID:    "2024-POOJA-archana",
		Label: "Archana",
		Transactions: []model.Transaction{
			{TransactionID: "r1", DevoteeName: "Asha", Amount: 30, IsReversal: true, BookedDate: "2024-03-15"},
		},
		Amount: -30,
		Count:  1,
		Level:  3,
	})

	view := drawer.View()
	// The header aggregate shows the magnitude with the sign carried by
	// color, same as the tree rows.
	assert.Contains(t, view, renderAmount(themes.Default, -30))
	assert.Contains(t, view, "1 transactions")
}

func TestDrawerIgnoresKeysWhenClosed(t *testing.T) {
	drawer := NewDrawer(themes.Default)

	drawer, cmd := drawer.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, drawer.IsOpen())
}
