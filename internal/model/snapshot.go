package model

import "time"

// Snapshot is one fetched copy of the full transaction list, plus the
// metadata needed to cache and identify it locally.
type Snapshot struct {
	FetchedAt    time.Time
	ID           string
	LastUpdated  string // service-reported sync time, verbatim
	Transactions []Transaction
}
