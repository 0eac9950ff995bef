package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/svtemple/ledgerdesk/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions to CSV",
		Long: `Export the full transaction list to a CSV file.

The export always covers every transaction in the snapshot, regardless of
any rollup view. Reversals are written with negative amounts.`,
		RunE: runExport,
	}

	cmd.Flags().Bool("offline", false, "export from the last cached snapshot")
	cmd.Flags().StringP("output", "o", "", "output file (default: Transactions_YYYY-MM-DD.csv)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	offline, _ := cmd.Flags().GetBool("offline")
	output, _ := cmd.Flags().GetString("output")

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snapshot, err := loadSnapshot(ctx, store, offline)
	if err != nil {
		return err
	}

	if output == "" {
		output = export.Filename(time.Now())
	}

	f, err := os.Create(output) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer func() { _ = f.Close() }()

	bar := progressbar.Default(int64(len(snapshot.Transactions)), "Exporting")
	err = export.Write(f, snapshot.Transactions, func() {
		_ = bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	_ = bar.Finish()

	slog.Info("export complete", "file", output, "rows", len(snapshot.Transactions))
	return nil
}
