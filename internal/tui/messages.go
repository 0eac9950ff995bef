package tui

import "github.com/svtemple/ledgerdesk/internal/model"

// Data loading messages.
type snapshotLoadedMsg struct {
	err      error
	snapshot *model.Snapshot
}

// Async operation messages.
type exportDoneMsg struct {
	err  error
	path string
	rows int
}

type statusMsg struct {
	text  string
	isErr bool
}
