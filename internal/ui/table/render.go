package table

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
	"github.com/engitrack/engitrack/internal/ui/styles"
)

const (
	minColWidth  = 8
	metaColWidth = 10
	emptyMessage = "暂无记录，按 n 新增"
)

// View renders the table with the given row selected and the given schema
// column highlighted. selectedRow -1 means no selection; selectedCol indexes
// into the schema columns (meta columns are not selectable).
func (m Model) View(selectedRow, selectedCol int, focused bool) string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	// PanelStyle spends two cells on the border and two on horizontal
	// padding, so content lines get m.width-4.
	innerWidth := m.width - 4
	innerHeight := m.height - 2
	if innerWidth <= 0 || innerHeight <= 0 {
		return ""
	}

	start, end := m.visibleCols(innerWidth)

	var lines []string
	lines = append(lines, m.renderHeader(start, end, selectedCol))

	if len(m.records) == 0 {
		lines = append(lines, renderEmptyState(emptyMessage, innerWidth, innerHeight-1))
	} else {
		viewportHeight := innerHeight - 1
		rowEnd := m.yOffset + viewportHeight
		if rowEnd > len(m.records) {
			rowEnd = len(m.records)
		}
		for i := m.yOffset; i < rowEnd; i++ {
			line := m.renderRow(m.records[i], start, end, i == selectedRow, innerWidth)
			lines = append(lines, zone.Mark(ZonePrefix+m.records[i].ID, line))
		}
		for i := rowEnd - m.yOffset; i < viewportHeight; i++ {
			lines = append(lines, "")
		}
	}

	panel := styles.PanelStyle
	if focused {
		panel = styles.FocusedPanelStyle
	}
	return panel.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

// colWidth returns the display width for a schema column: at least
// minColWidth, widened to fit a CJK label plus its required marker.
func colWidth(col schema.Column) int {
	w := runewidth.StringWidth(col.Label)
	if col.Required {
		w++
	}
	if w < minColWidth {
		w = minColWidth
	}
	return w
}

// visibleCols returns the half-open schema column range that fits in
// innerWidth after the two meta columns. At least one column is always
// shown when any exist.
func (m Model) visibleCols(innerWidth int) (int, int) {
	if len(m.columns) == 0 {
		return 0, 0
	}

	start := m.xOffset
	if start < 0 {
		start = 0
	}
	if start >= len(m.columns) {
		start = len(m.columns) - 1
	}

	used := 2*metaColWidth + 2 // meta columns and their separators
	end := start
	for end < len(m.columns) {
		need := colWidth(m.columns[end])
		if end > start {
			need++ // separator
		}
		if used+need > innerWidth && end > start {
			break
		}
		used += need
		end++
	}
	return start, end
}

func (m Model) renderHeader(start, end, selectedCol int) string {
	parts := []string{
		styles.TableHeaderStyle.Render(pad(CreatorHeader, metaColWidth)),
		styles.TableHeaderStyle.Render(pad(CreatedHeader, metaColWidth)),
	}

	for i := start; i < end; i++ {
		col := m.columns[i]
		label := col.Label
		if col.Required {
			label += "*"
		}
		cell := pad(label, colWidth(col))
		if i == selectedCol {
			cell = styles.TableHeaderStyle.Underline(true).Render(cell)
		} else {
			cell = styles.TableHeaderStyle.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, " ")
}

func (m Model) renderRow(rec record.Record, start, end int, selected bool, fullWidth int) string {
	parts := []string{
		pad(rec.CreatedBy, metaColWidth),
		pad(rec.CreatedAt.Format("2006-01-02"), metaColWidth),
	}

	for i := start; i < end; i++ {
		col := m.columns[i]
		parts = append(parts, pad(CellText(rec.Field(col.Key)), colWidth(col)))
	}

	line := strings.Join(parts, " ")
	if selected {
		if w := lipgloss.Width(line); w < fullWidth {
			line += strings.Repeat(" ", fullWidth-w)
		}
		return styles.SelectedRowStyle.Render(line)
	}
	return line
}

// CellText converts a stored field value into display text.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// pad truncates or right-pads text to exactly width display cells.
func pad(s string, width int) string {
	if width < 1 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func renderEmptyState(msg string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	styled := styles.SubtitleStyle.Render(msg)
	msgWidth := lipgloss.Width(styled)
	if msgWidth > width {
		styled = pad(msg, width)
		msgWidth = width
	}

	leftPad := max((width-msgWidth)/2, 0)
	centered := strings.Repeat(" ", leftPad) + styled
	topPad := max((height-1)/2, 0)

	var lines []string
	for range topPad {
		lines = append(lines, "")
	}
	lines = append(lines, centered)
	for range height - topPad - 1 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// ColumnAt maps a schema-column index to its column, guarding bounds.
func (m Model) ColumnAt(i int) (schema.Column, bool) {
	if i < 0 || i >= len(m.columns) {
		return schema.Column{}, false
	}
	return m.columns[i], true
}
