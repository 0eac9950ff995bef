package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest transactions and cache them locally",
		RunE:  runFetch,
	}

	cmd.Flags().Int("keep", 5, "number of cached snapshots to keep")
	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	keep, _ := cmd.Flags().GetInt("keep")

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snapshot, err := loadSnapshot(ctx, store, false)
	if err != nil {
		return err
	}

	if keep > 0 {
		if err := store.PruneSnapshots(ctx, keep); err != nil {
			slog.Warn("failed to prune old snapshots", "error", err)
		}
	}

	slog.Info("snapshot cached",
		"id", snapshot.ID,
		"transactions", len(snapshot.Transactions),
		"last_updated", snapshot.LastUpdated)
	return nil
}
