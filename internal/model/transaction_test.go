package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want float64
	}{
		{
			name: "regular transaction",
			txn:  Transaction{Amount: 100},
			want: 100,
		},
		{
			name: "reversal with positive amount",
			txn:  Transaction{Amount: 30, IsReversal: true},
			want: -30,
		},
		{
			name: "reversal with stray negative sign is normalized",
			txn:  Transaction{Amount: -30, IsReversal: true},
			want: -30,
		},
		{
			name: "zero amount",
			txn:  Transaction{Amount: 0, IsReversal: true},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.txn.SignedAmount(), 1e-9)
		})
	}
}

func TestYearFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		yearMonth string
		want      string
	}{
		{"normal", "202401", "2024"},
		{"year only", "2024", "2024"},
		{"empty", "", UnknownKey},
		{"too short", "202", UnknownKey},
		{"non numeric", "abcd01", UnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transaction{YearMonth: tt.yearMonth}.Year())
		})
	}
}

func TestCategoryAndServiceFallbacks(t *testing.T) {
	empty := Transaction{}
	assert.Equal(t, DefaultCategory, empty.Category())
	assert.Equal(t, UnknownKey, empty.Service())
	assert.Equal(t, UnknownKey, empty.Devotee())

	full := Transaction{
		ServiceParent:  "POOJA",
		ServiceID:      "archana",
		ServiceDisplay: "Archana",
		ServiceType:    "Legacy Archana",
		DevoteeName:    "Asha",
	}
	assert.Equal(t, "POOJA", full.Category())
	assert.Equal(t, "archana", full.Service())
	assert.Equal(t, "Archana", full.ServiceLabel())
	assert.Equal(t, "Asha", full.Devotee())

	legacy := Transaction{ServiceType: "Legacy Archana"}
	assert.Equal(t, "Legacy Archana", legacy.ServiceLabel())
}

func TestSortByBookedDateDesc(t *testing.T) {
	txns := []Transaction{
		{TransactionID: "a", BookedDate: "2024-01-02"},
		{TransactionID: "b", BookedDate: "2024-03-15"},
		{TransactionID: "unparseable", BookedDate: "sometime last spring"},
		{TransactionID: "c", BookedDate: "2023-12-31"},
	}

	SortByBookedDateDesc(txns)

	require.Len(t, txns, 4)
	assert.Equal(t, "b", txns[0].TransactionID)
	assert.Equal(t, "a", txns[1].TransactionID)
	assert.Equal(t, "c", txns[2].TransactionID)
	// Records with unparseable dates sort after all parseable ones.
	assert.Equal(t, "unparseable", txns[3].TransactionID)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatUSD(1234.56))
	assert.Equal(t, "$1,234.56", FormatUSD(-1234.56))
	assert.Equal(t, "$0.00", FormatUSD(0))
	assert.Equal(t, "$100.00", FormatUSD(100))
}
