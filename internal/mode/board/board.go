// Package board implements the main record-keeping mode: the record table,
// the stats panel, and the modals that drive record and column changes.
package board

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/engitrack/engitrack/internal/keys"
	"github.com/engitrack/engitrack/internal/mode"
	"github.com/engitrack/engitrack/internal/pubsub"
	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
	"github.com/engitrack/engitrack/internal/ui/modal"
	"github.com/engitrack/engitrack/internal/ui/recordform"
	"github.com/engitrack/engitrack/internal/ui/table"
	"github.com/engitrack/engitrack/internal/ui/toaster"
)

// ViewMode represents overlay states within board mode.
type ViewMode int

const (
	ViewBoard ViewMode = iota
	ViewHelp
	ViewRecordForm
	ViewAddColumn
	ViewDeleteRecord
	ViewDeleteColumn
	ViewExtract
	ViewExtractWait
	ViewStatsFields
)

const toastDuration = 3 * time.Second

// Model holds the board mode state.
type Model struct {
	services mode.Services
	keys     keys.KeyMap

	// Table state
	table       table.Model
	records     []record.Record
	columns     []schema.Column
	selectedRow int
	selectedCol int

	// Stats panel
	showStats bool

	// Overlays
	view         ViewMode
	form         recordform.Form
	colModal     modal.Model
	confirm      modal.Model
	extractModal modal.Model
	statsModal   modal.Model
	helpView     string

	// Pending destructive targets
	pendingRecordID  string
	pendingColumnKey string

	toast    toaster.Model
	listener *pubsub.ContinuousListener[record.Record]

	width  int
	height int
}

// extractResultMsg carries the outcome of an AI extraction call.
type extractResultMsg struct {
	fields map[string]any
	err    error
}

// exportDoneMsg carries the outcome of a CSV export.
type exportDoneMsg struct {
	path string
	err  error
}

// reloadDoneMsg carries the outcome of a manual or watcher-driven reload.
type reloadDoneMsg struct {
	err error
}

// New creates a new board mode controller.
func New(services mode.Services) Model {
	m := Model{
		services:  services,
		keys:      services.Keys,
		table:     table.New(),
		showStats: services.Config.UI.ShowStats,
		toast:     toaster.New(),
		listener: pubsub.NewContinuousListener(
			context.Background(), services.Tracker.Store().Broker()),
	}
	m.refresh()
	return m
}

// Init starts listening for record change events.
func (m Model) Init() tea.Cmd {
	return m.listener.Listen()
}

// refresh re-reads records and columns from the tracker and clamps cursors.
func (m *Model) refresh() {
	m.records = m.services.Tracker.Records()
	m.columns = m.services.Tracker.Columns()
	m.table = m.table.SetData(m.columns, m.records)

	if m.selectedRow >= len(m.records) {
		m.selectedRow = len(m.records) - 1
	}
	if m.selectedRow < 0 && len(m.records) > 0 {
		m.selectedRow = 0
	}
	if m.selectedCol >= len(m.columns) {
		m.selectedCol = len(m.columns) - 1
	}
	if m.selectedCol < 0 {
		m.selectedCol = 0
	}
}

// SetSize handles terminal resize events.
func (m Model) SetSize(width, height int) mode.Controller {
	m.width = width
	m.height = height
	m.helpView = "" // rerender at the new width

	m.table = m.table.SetSize(width, m.tableHeight())
	m.form.SetSize(width, height)
	m.colModal.SetSize(width, height)
	m.confirm.SetSize(width, height)
	m.extractModal.SetSize(width, height)
	m.statsModal.SetSize(width, height)
	return m
}
