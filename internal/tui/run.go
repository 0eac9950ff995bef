package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

// Run starts the browse TUI and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}
	if cfg.Theme.Primary == "" {
		cfg.Theme = themes.Default
	}

	program := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
