package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/svtemple/ledgerdesk/internal/common"
	"github.com/svtemple/ledgerdesk/internal/config"
	"github.com/svtemple/ledgerdesk/internal/ledger"
	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/storage"
)

// newClient builds the booking-service client from configuration.
func newClient() (*ledger.Client, error) {
	cfg := ledger.Config{
		BaseURL:       viper.GetString("api.base_url"),
		SessionCookie: viper.GetString("api.session_cookie"),
		Timeout:       viper.GetDuration("api.timeout"),
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: set api.base_url or LEDGERDESK_API_BASE_URL", common.ErrMissingConfig)
	}
	return ledger.New(cfg)
}

// openStore opens the snapshot cache and applies migrations.
func openStore(ctx context.Context) (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	store, err := storage.New(config.ExpandPath(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate snapshot cache: %w", err)
	}
	return store, nil
}

// loadSnapshot returns transaction data, either from the live service or
// the local cache. Live fetches are cached best-effort.
func loadSnapshot(ctx context.Context, store *storage.Store, offline bool) (*model.Snapshot, error) {
	if offline {
		snapshot, err := store.LatestSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("no cached snapshot available: %w", err)
		}
		slog.Info("loaded cached snapshot",
			"fetched_at", snapshot.FetchedAt.Format(time.RFC3339),
			"transactions", len(snapshot.Transactions))
		return snapshot, nil
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}

	snapshot, err := client.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", common.UserMessage(err), err)
	}

	if store != nil {
		if saveErr := store.SaveSnapshot(ctx, snapshot); saveErr != nil {
			slog.Warn("failed to cache snapshot", "error", saveErr)
		}
	}
	return snapshot, nil
}
