package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/svtemple/ledgerdesk/internal/common"
	"github.com/svtemple/ledgerdesk/internal/model"
)

// SaveSnapshot persists a snapshot and its transactions atomically. A
// snapshot without an ID is assigned one. The stored row order preserves
// the snapshot's sort order.
func (s *Store) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, fetched_at, last_updated, txn_count)
		VALUES (?, ?, ?, ?)
	`, snap.ID, snap.FetchedAt, snap.LastUpdated, len(snap.Transactions))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_transactions (
			snapshot_id, position, transaction_id, devotee_name, devotee_email,
			amount, booked_date, payment_type, service_type, year_month,
			service_parent, service_display, service_id, is_reversal
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, txn := range snap.Transactions {
		_, err = stmt.ExecContext(ctx,
			snap.ID,
			i,
			txn.TransactionID,
			txn.DevoteeName,
			txn.DevoteeEmail,
			txn.Amount,
			txn.BookedDate,
			txn.PaymentType,
			txn.ServiceType,
			txn.YearMonth,
			txn.ServiceParent,
			txn.ServiceDisplay,
			txn.ServiceID,
			txn.IsReversal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
		}
	}

	return tx.Commit()
}

// LatestSnapshot loads the most recently fetched snapshot, or
// common.ErrNotFound when the cache is empty.
func (s *Store) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, fetched_at, last_updated, txn_count
		FROM snapshots
		ORDER BY fetched_at DESC
		LIMIT 1
	`).Scan(&snap.ID, &snap.FetchedAt, &snap.LastUpdated, new(int))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no cached snapshot", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, devotee_name, devotee_email, amount, booked_date,
		       payment_type, service_type, year_month, service_parent,
		       service_display, service_id, is_reversal
		FROM snapshot_transactions
		WHERE snapshot_id = ?
		ORDER BY position
	`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(
			&txn.TransactionID,
			&txn.DevoteeName,
			&txn.DevoteeEmail,
			&txn.Amount,
			&txn.BookedDate,
			&txn.PaymentType,
			&txn.ServiceType,
			&txn.YearMonth,
			&txn.ServiceParent,
			&txn.ServiceDisplay,
			&txn.ServiceID,
			&txn.IsReversal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		snap.Transactions = append(snap.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return snap, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (s *Store) PruneSnapshots(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY fetched_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		DELETE FROM snapshot_transactions WHERE snapshot_id NOT IN (
			SELECT id FROM snapshots
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prune snapshot transactions: %w", err)
	}
	return nil
}
