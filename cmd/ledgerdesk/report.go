package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/sheets"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a rollup report, optionally uploading to Google Sheets",
		RunE:  runReport,
	}

	cmd.Flags().Bool("offline", false, "report from the last cached snapshot")
	cmd.Flags().String("view", "year", "rollup view (year, category, devotee)")
	cmd.Flags().Bool("sheets", false, "upload the rollup to Google Sheets")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	offline, _ := cmd.Flags().GetBool("offline")
	view, _ := cmd.Flags().GetString("view")
	upload, _ := cmd.Flags().GetBool("sheets")

	mode, err := parseViewMode(view)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snapshot, err := loadSnapshot(ctx, store, offline)
	if err != nil {
		return err
	}

	forest := pivot.Build(mode, snapshot.Transactions)
	stats := pivot.Totals(snapshot.Transactions)
	printReport(os.Stdout, mode, forest, stats, snapshot.LastUpdated)

	if upload {
		cfg := sheets.DefaultConfig()
		if err := cfg.LoadFromEnv(); err != nil {
			return err
		}

		writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
		if err != nil {
			return err
		}
		if err := writer.WriteRollup(ctx, mode, forest, stats, snapshot.LastUpdated); err != nil {
			return fmt.Errorf("sheets upload failed: %w", err)
		}
	}
	return nil
}

func parseViewMode(view string) (pivot.ViewMode, error) {
	switch strings.ToLower(view) {
	case "year":
		return pivot.ViewByYear, nil
	case "category":
		return pivot.ViewByCategory, nil
	case "devotee":
		return pivot.ViewByDevotee, nil
	default:
		return 0, fmt.Errorf("invalid view %q: expected year, category, or devotee", view)
	}
}

// printReport writes a styled rollup tree. Amounts show their absolute
// magnitude; negative aggregates are distinguished by color only.
func printReport(w io.Writer, mode pivot.ViewMode, forest []pivot.Node, stats pivot.Stats, lastUpdated string) {
	theme := themes.Default

	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("Donation Rollup (%s)", mode)))
	fmt.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("Total %s across %d transactions",
		model.FormatUSD(stats.TotalAmount), stats.Count)))
	if lastUpdated != "" {
		fmt.Fprintln(w, theme.Subtitle.Render("Updated "+lastUpdated))
	}
	fmt.Fprintln(w)

	var walk func(nodes []pivot.Node)
	walk = func(nodes []pivot.Node) {
		for _, node := range nodes {
			indent := strings.Repeat("  ", node.Level-1)

			var style lipgloss.Style
			switch node.Level {
			case 1:
				style = theme.Level1
			case 2:
				style = theme.Level2
			default:
				style = theme.Level3
			}

			amountStyle := theme.AmountPositive
			if node.Amount < 0 {
				amountStyle = theme.AmountNegative
			}
			amount := amountStyle.Render(model.FormatUSD(node.Amount))

			fmt.Fprintf(w, "%s%s (%d)  %s\n",
				indent, style.Render(node.Label), node.Count, amount)
			walk(node.Children)
		}
	}
	walk(forest)
}
