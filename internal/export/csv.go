// Package export serializes the flat transaction list to CSV.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/svtemple/ledgerdesk/internal/model"
)

// Header is the fixed CSV column order. No column is ever omitted.
var Header = []string{
	"Transaction ID",
	"Date",
	"Name",
	"Email",
	"Amount",
	"Service",
	"Payment Type",
	"Is Reversal",
}

// Filename returns the dated export filename, e.g.
// Transactions_2024-06-01.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("Transactions_%s.csv", now.Format("2006-01-02"))
}

// Write serializes the full flat list to w, independent of any rollup or
// view filter. onRow, if non-nil, is invoked after each data row (used for
// progress reporting). The Name and Service columns are always quoted so
// embedded commas survive; the Amount column carries the signed value,
// negative for reversals.
func Write(w io.Writer, txns []model.Transaction, onRow func()) error {
	if _, err := io.WriteString(w, strings.Join(Header, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, t := range txns {
		if _, err := io.WriteString(w, row(t)+"\n"); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", t.TransactionID, err)
		}
		if onRow != nil {
			onRow()
		}
	}
	return nil
}

func row(t model.Transaction) string {
	reversal := "No"
	if t.IsReversal {
		reversal = "Yes"
	}

	fields := []string{
		t.TransactionID,
		t.BookedDate,
		quote(t.DevoteeName),
		t.DevoteeEmail,
		strconv.FormatFloat(t.SignedAmount(), 'f', -1, 64),
		quote(t.ServiceLabel()),
		t.PaymentType,
		reversal,
	}
	return strings.Join(fields, ",")
}

// quote wraps a field in double quotes, doubling any embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
