package components

import (
	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

// renderAmount renders an aggregate as its absolute magnitude; the sign is
// conveyed by color alone, red for negative and green otherwise.
func renderAmount(theme themes.Theme, amount float64) string {
	formatted := model.FormatUSD(amount)
	if amount < 0 {
		return theme.AmountNegative.Render(formatted)
	}
	return theme.AmountPositive.Render(formatted)
}
