// Package table renders the record grid: schema-driven columns over the
// record list, with scrolling, selection, and clickable rows.
package table

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
)

// Meta column headers shown before the schema columns.
const (
	CreatorHeader = "录入人"
	CreatedHeader = "录入时间"
)

// ZonePrefix namespaces bubblezone row marks.
const ZonePrefix = "record:"

// Model holds table rendering state. Selection and column cursor are
// external; pass them to View.
type Model struct {
	columns []schema.Column
	records []record.Record

	width    int
	height   int
	viewport viewport.Model
	yOffset  int
	xOffset  int // first visible schema column
}

// New creates an empty record table.
func New() Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return Model{viewport: vp}
}

// SetData replaces the column schema and record rows.
func (m Model) SetData(columns []schema.Column, records []record.Record) Model {
	m.columns = columns
	m.records = records
	m.yOffset = m.clampYOffset(m.yOffset)
	return m
}

// SetSize sets the available dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	// Inside the border and padding, minus the header row
	m.viewport.Width = max(0, width-4)
	m.viewport.Height = max(0, height-3)
	m.yOffset = m.clampYOffset(m.yOffset)
	return m
}

// RowCount returns the number of record rows.
func (m Model) RowCount() int {
	return len(m.records)
}

// ColumnCount returns the number of schema columns (meta columns excluded).
func (m Model) ColumnCount() int {
	return len(m.columns)
}

// Update handles scroll wheel events.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// EnsureColVisible shifts the horizontal window so the given schema column
// is rendered.
func (m Model) EnsureColVisible(col int) Model {
	if col < 0 || col >= len(m.columns) {
		return m
	}
	if col < m.xOffset {
		m.xOffset = col
		return m
	}
	for m.xOffset < col {
		_, end := m.visibleCols(m.width - 4)
		if col < end {
			break
		}
		m.xOffset++
	}
	return m
}

// EnsureVisible scrolls so the given row index is on screen.
func (m Model) EnsureVisible(rowIndex int) Model {
	if rowIndex < 0 || rowIndex >= len(m.records) {
		return m
	}

	if rowIndex < m.yOffset {
		m.yOffset = m.clampYOffset(rowIndex)
	}
	if h := m.viewport.Height; h > 0 && rowIndex >= m.yOffset+h {
		m.yOffset = m.clampYOffset(rowIndex - h + 1)
	}
	return m
}

func (m Model) clampYOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	maxOffset := max(len(m.records)-m.viewport.Height, 0)
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}
