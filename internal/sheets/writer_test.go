package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svtemple/ledgerdesk/internal/pivot"
)

func TestPrepareRollupDataFlattensForest(t *testing.T) {
	w := &Writer{config: DefaultConfig()}

	forest := []pivot.Node{
		{
			ID: "2024", Label: "2024", Level: 1, Count: 3, Amount: 170,
			Children: []pivot.Node{
				{
					ID: "2024-POOJA", Label: "Pooja", Level: 2, Count: 3, Amount: 170,
					Children: []pivot.Node{
						{ID: "2024-POOJA-archana", Label: "Archana", Level: 3, Count: 3, Amount: 170},
					},
				},
			},
		},
	}
	stats := pivot.Stats{TotalAmount: 170, Count: 3}

	values := w.prepareRollupData(pivot.ViewByYear, forest, stats, "2024-06-01 09:00 AM")

	// Header block, then one row per node in depth-first order.
	require.Len(t, values, 10)
	assert.Equal(t, []any{"Donation Rollup", "byYear"}, values[0])
	assert.Equal(t, []any{"Total Amount", 170.0}, values[2])
	assert.Equal(t, []any{"Last Sync", "2024-06-01 09:00 AM"}, values[4])
	assert.Equal(t, []any{"Group", "Transactions", "Amount"}, values[6])
	assert.Equal(t, []any{"2024", 3, 170.0}, values[7])
	assert.Equal(t, []any{"    Pooja", 3, 170.0}, values[8])
	assert.Equal(t, []any{"        Archana", 3, 170.0}, values[9])
}

func TestPrepareRollupDataOmitsLastSyncWhenUnknown(t *testing.T) {
	w := &Writer{config: DefaultConfig()}

	values := w.prepareRollupData(pivot.ViewByDevotee, nil, pivot.Stats{}, "")

	require.Len(t, values, 6)
	assert.Equal(t, []any{"Total Transactions", 0}, values[3])
}
