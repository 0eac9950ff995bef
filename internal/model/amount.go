package model

import (
	"math"

	"github.com/Rhymond/go-money"
)

// FormatUSD renders the magnitude of an amount with two-decimal precision
// and grouping separators, e.g. 1234.5 -> "$1,234.56". The sign is dropped;
// callers convey it through color or a separate indicator.
func FormatUSD(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	return money.New(cents, money.USD).Display()
}
