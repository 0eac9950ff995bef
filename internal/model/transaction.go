// Package model defines the core domain types shared across the application.
package model

import (
	"math"
	"sort"
	"time"
)

// Transaction represents a single ledger record as delivered by the
// snapshot service. Older records predate the structured service fields,
// so ServiceParent, ServiceDisplay and ServiceID may all be empty.
type Transaction struct {
	TransactionID  string  `json:"TransactionId"`
	DevoteeName    string  `json:"DevoteeName"`
	DevoteeEmail   string  `json:"DevoteeEmail"`
	Amount         float64 `json:"Amount"`
	BookedDate     string  `json:"BookedDate"`
	PaymentType    string  `json:"PaymentType"`
	ServiceType    string  `json:"ServiceType"`
	YearMonth      string  `json:"YearMonth"`
	ServiceParent  string  `json:"service_parent,omitempty"`
	ServiceDisplay string  `json:"service_display,omitempty"`
	ServiceID      string  `json:"service_id,omitempty"`
	IsReversal     bool    `json:"IsReversal,omitempty"`
}

// Fallback keys for records missing structured fields.
const (
	UnknownKey      = "Unknown"
	DefaultCategory = "GENERAL_DONATIONS"
)

// SignedAmount returns the transaction's contribution to any aggregate.
// Reversals always deduct: the stored amount is normalized to its absolute
// value and negated, regardless of any sign already present.
func (t Transaction) SignedAmount() float64 {
	if t.IsReversal {
		return -math.Abs(t.Amount)
	}
	return t.Amount
}

// Year derives the four-digit grouping year from YearMonth.
func (t Transaction) Year() string {
	if len(t.YearMonth) < 4 {
		return UnknownKey
	}
	year := t.YearMonth[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return UnknownKey
		}
	}
	return year
}

// Category returns the coarse service category code.
func (t Transaction) Category() string {
	if t.ServiceParent == "" {
		return DefaultCategory
	}
	return t.ServiceParent
}

// Service returns the fine-grained service key.
func (t Transaction) Service() string {
	if t.ServiceID == "" {
		return UnknownKey
	}
	return t.ServiceID
}

// ServiceLabel returns the human-readable service name, falling back to
// the legacy free-text label for older records.
func (t Transaction) ServiceLabel() string {
	if t.ServiceDisplay != "" {
		return t.ServiceDisplay
	}
	return t.ServiceType
}

// Devotee returns the payer name used as a grouping key.
func (t Transaction) Devotee() string {
	if t.DevoteeName == "" {
		return UnknownKey
	}
	return t.DevoteeName
}

var bookedDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BookedTime parses BookedDate. The second return is false when the value
// matches none of the known formats.
func (t Transaction) BookedTime() (time.Time, bool) {
	for _, layout := range bookedDateFormats {
		if parsed, err := time.Parse(layout, t.BookedDate); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// SortByBookedDateDesc orders transactions most recent first. Parseable
// dates sort before unparseable ones; unparseable dates fall back to
// descending lexicographic comparison among themselves.
func SortByBookedDateDesc(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		ti, oki := txns[i].BookedTime()
		tj, okj := txns[j].BookedTime()
		if oki && okj {
			return ti.After(tj)
		}
		if oki != okj {
			return oki
		}
		return txns[i].BookedDate > txns[j].BookedDate
	})
}
