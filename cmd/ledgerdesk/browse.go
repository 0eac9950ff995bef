package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/svtemple/ledgerdesk/internal/tui"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse donation rollups interactively",
		Long: `Open the interactive transaction browser.

The Detailed tab shows three-level rollups (by year, category, or devotee);
the Recent tab shows the newest transactions first. Press ? inside the
browser for keyboard shortcuts.`,
		RunE: runBrowse,
	}

	cmd.Flags().Bool("offline", false, "browse the last cached snapshot without contacting the service")
	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	offline, _ := cmd.Flags().GetBool("offline")

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snapshot, err := loadSnapshot(ctx, store, offline)
	if err != nil {
		return err
	}

	cfg := tui.Config{
		Snapshot: snapshot,
		Saver:    store,
		Logger:   slog.Default(),
		Theme:    themes.GetTheme(viper.GetString("tui.theme")),
	}
	if !offline {
		client, clientErr := newClient()
		if clientErr != nil {
			return clientErr
		}
		cfg.Fetcher = client
	}

	return tui.Run(ctx, cfg)
}
