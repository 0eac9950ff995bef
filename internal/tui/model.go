package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/svtemple/ledgerdesk/internal/common"
	"github.com/svtemple/ledgerdesk/internal/export"
	"github.com/svtemple/ledgerdesk/internal/model"
	"github.com/svtemple/ledgerdesk/internal/pivot"
	"github.com/svtemple/ledgerdesk/internal/tui/components"
	"github.com/svtemple/ledgerdesk/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

const (
	StateBrowse State = iota
	StateRefreshing
	StateHelp
)

// Tab represents the active top-level tab.
type Tab int

const (
	TabDetailed Tab = iota
	TabRecent
)

// Fetcher pulls a fresh snapshot from the booking service.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.Snapshot, error)
}

// SnapshotSaver caches snapshots for offline browsing.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) error
}

// Config holds the dependencies for the browse TUI.
type Config struct {
	Snapshot *model.Snapshot
	Fetcher  Fetcher
	Saver    SnapshotSaver
	Logger   *slog.Logger
	Theme    themes.Theme
}

// Model holds the main TUI state.
type Model struct {
	ctx         context.Context
	theme       themes.Theme
	logger      *slog.Logger
	snapshot    *model.Snapshot
	forests     map[pivot.ViewMode][]pivot.Node
	filtered    []model.Transaction
	filterInput textinput.Model
	tree        components.TreeModel
	feed        components.FeedModel
	drawer      components.DrawerModel
	statsBar    components.StatsModel
	config      Config
	keymap      KeyMap
	status      string
	filter      string
	stats       pivot.Stats
	width       int
	height      int
	state       State
	tab         Tab
	viewMode    pivot.ViewMode
	statusIsErr bool
	filtering   bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	filterInput := textinput.New()
	filterInput.Placeholder = "Devotee name or email..."
	filterInput.CharLimit = 50

	m := Model{
		ctx:         ctx,
		config:      cfg,
		theme:       cfg.Theme,
		logger:      cfg.Logger,
		keymap:      DefaultKeyMap(),
		state:       StateBrowse,
		tab:         TabDetailed,
		viewMode:    pivot.ViewByYear,
		filterInput: filterInput,
		drawer:      components.NewDrawer(cfg.Theme),
		width:       80,
		height:      24,
	}
	m.applySnapshot(cfg.Snapshot)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case snapshotLoadedMsg:
		m.state = StateBrowse
		if msg.err != nil {
			m.setStatus(common.UserMessage(msg.err), true)
			return m, nil
		}
		m.applySnapshot(msg.snapshot)
		m.setStatus("Refreshed "+time.Now().Format("3:04:05 PM"), false)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus("Export failed: "+msg.err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path), false)
		}
		return m, nil

	case statusMsg:
		m.setStatus(msg.text, msg.isErr)
		return m, nil

	case components.OpenDrawerMsg:
		m.drawer.Open(msg.Node)
		return m, nil

	case components.CloseDrawerMsg:
		return m, nil
	}

	// Delegate everything else to the active component.
	cmds = append(cmds, m.updateActiveComponent(msg))
	return m, tea.Batch(cmds...)
}

// handleKey routes key presses by UI state: the filter input, then the
// drawer, then global shortcuts, then the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	if m.drawer.IsOpen() {
		newDrawer, cmd := m.drawer.Update(msg)
		m.drawer = newDrawer
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		if m.state == StateHelp {
			m.state = StateBrowse
		} else {
			m.state = StateHelp
		}
		return m, nil

	case "esc":
		if m.state == StateHelp {
			m.state = StateBrowse
			return m, nil
		}
		if m.filter != "" {
			m.filter = ""
			m.filterInput.SetValue("")
			m.rebuild()
			m.setStatus("Filter cleared", false)
		}
		return m, nil

	case "tab":
		if m.tab == TabDetailed {
			m.tab = TabRecent
		} else {
			m.tab = TabDetailed
		}
		return m, nil

	case "1":
		return m.switchView(pivot.ViewByYear)

	case "2":
		return m.switchView(pivot.ViewByCategory)

	case "3":
		return m.switchView(pivot.ViewByDevotee)

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "e":
		return m, m.exportCSV()

	case "ctrl+r":
		if m.config.Fetcher == nil {
			m.setStatus("Refresh unavailable in offline mode", true)
			return m, nil
		}
		m.state = StateRefreshing
		m.setStatus("Refreshing...", false)
		return m, m.refresh()
	}

	cmd := m.updateActiveComponent(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter = m.filterInput.Value()
		m.filtering = false
		m.filterInput.Blur()
		m.rebuild()
		return m, nil

	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue(m.filter)
		return m, nil

	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateActiveComponent(msg tea.Msg) tea.Cmd {
	if m.drawer.IsOpen() {
		newDrawer, cmd := m.drawer.Update(msg)
		m.drawer = newDrawer
		return cmd
	}

	switch m.tab {
	case TabDetailed:
		newTree, cmd := m.tree.Update(msg)
		m.tree = newTree
		return cmd
	case TabRecent:
		newFeed, cmd := m.feed.Update(msg)
		m.feed = newFeed
		return cmd
	}
	return nil
}

func (m Model) switchView(mode pivot.ViewMode) (tea.Model, tea.Cmd) {
	if m.viewMode != mode {
		m.viewMode = mode
		m.tree.SetForest(m.forests[mode])
	}
	m.tab = TabDetailed
	return m, nil
}

// applySnapshot recomputes every rollup from a new snapshot.
func (m *Model) applySnapshot(snapshot *model.Snapshot) {
	m.snapshot = snapshot
	m.rebuild()
}

// rebuild recomputes the filtered list, all three rollup forests, and the
// components that render them.
func (m *Model) rebuild() {
	var txns []model.Transaction
	if m.snapshot != nil {
		txns = m.snapshot.Transactions
	}
	m.filtered = filterTransactions(txns, m.filter)

	m.forests = map[pivot.ViewMode][]pivot.Node{
		pivot.ViewByYear:     pivot.ByYear(m.filtered),
		pivot.ViewByCategory: pivot.ByCategory(m.filtered),
		pivot.ViewByDevotee:  pivot.ByDevotee(m.filtered),
	}
	m.stats = pivot.Totals(m.filtered)

	initial := pivot.TopLevelIDs(
		m.forests[pivot.ViewByYear],
		m.forests[pivot.ViewByCategory],
		m.forests[pivot.ViewByDevotee],
	)

	lastUpdated := ""
	if m.snapshot != nil {
		lastUpdated = m.snapshot.LastUpdated
	}

	m.tree = components.NewTree(m.forests[m.viewMode], initial, m.theme)
	m.feed = components.NewFeed(m.filtered, m.theme)
	m.statsBar = components.NewStats(m.stats, lastUpdated, m.theme)
	m.drawer.Close()
	m.handleResize()
}

// filterTransactions keeps transactions whose devotee name or email
// contains the filter, case-insensitively.
func filterTransactions(txns []model.Transaction, filter string) []model.Transaction {
	if filter == "" {
		return txns
	}
	needle := strings.ToLower(filter)
	var out []model.Transaction
	for _, t := range txns {
		if strings.Contains(strings.ToLower(t.DevoteeName), needle) ||
			strings.Contains(strings.ToLower(t.DevoteeEmail), needle) {
			out = append(out, t)
		}
	}
	return out
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	bodyHeight := max(4, m.height-7)
	m.tree.Resize(m.width, bodyHeight)
	m.feed.Resize(m.width, bodyHeight)
	m.drawer.Resize(m.width, m.height-2)
	m.statsBar.Resize(m.width)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

// exportCSV writes the current filtered list to a dated file in the
// working directory.
func (m Model) exportCSV() tea.Cmd {
	txns := m.filtered
	return func() tea.Msg {
		path := export.Filename(time.Now())
		f, err := os.Create(path) // #nosec G304
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer func() { _ = f.Close() }()

		if err := export.Write(f, txns, nil); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, rows: len(txns)}
	}
}

// refresh fetches a fresh snapshot and caches it when a store is
// configured.
func (m Model) refresh() tea.Cmd {
	ctx := m.ctx
	fetcher := m.config.Fetcher
	saver := m.config.Saver
	logger := m.logger
	return func() tea.Msg {
		snapshot, err := fetcher.Fetch(ctx)
		if err != nil {
			return snapshotLoadedMsg{err: err}
		}
		if saver != nil {
			if saveErr := saver.SaveSnapshot(ctx, snapshot); saveErr != nil && logger != nil {
				logger.Warn("failed to cache snapshot", "error", saveErr)
			}
		}
		return snapshotLoadedMsg{snapshot: snapshot}
	}
}
