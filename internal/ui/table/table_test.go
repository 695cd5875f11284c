package table

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func testRecords() []record.Record {
	return []record.Record{
		{
			ID:        "r1",
			CreatedBy: "王工",
			CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Fields:    map[string]any{"projectName": "兰新铁路", "outlineQty": float64(12.5)},
		},
		{
			ID:        "r2",
			CreatedBy: "李工",
			CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			Fields:    map[string]any{"projectName": "隧道勘察"},
		},
	}
}

func TestView_ContainsHeadersAndCells(t *testing.T) {
	m := New().
		SetData(schema.InitialColumns(), testRecords()).
		SetSize(120, 20)

	out := m.View(0, 0, true)

	assert.Contains(t, out, CreatorHeader)
	assert.Contains(t, out, CreatedHeader)
	assert.Contains(t, out, "项目名称")
	assert.Contains(t, out, "王工")
	assert.Contains(t, out, "兰新铁路")
	assert.Contains(t, out, "2024-03-01")
}

func TestView_FitsRequestedSize(t *testing.T) {
	m := New().
		SetData(schema.InitialColumns(), testRecords()).
		SetSize(120, 20)

	out := zone.Scan(m.View(0, 0, true))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 20, "panel must fill exactly the requested height")
	for i, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 120, "line %d overflows the requested width", i)
	}

	// Empty table keeps the same contract
	empty := zone.Scan(New().
		SetData(schema.InitialColumns(), nil).
		SetSize(80, 12).
		View(-1, 0, false))
	assert.Len(t, strings.Split(empty, "\n"), 12)
}

func TestView_EmptyState(t *testing.T) {
	m := New().
		SetData(schema.InitialColumns(), nil).
		SetSize(80, 12)

	out := m.View(-1, 0, false)
	assert.Contains(t, out, "暂无记录")
}

func TestVisibleCols_FitsWindow(t *testing.T) {
	m := New().
		SetData(schema.InitialColumns(), testRecords()).
		SetSize(60, 20)

	start, end := m.visibleCols(58)
	assert.Equal(t, 0, start)
	assert.Less(t, end, 15, "narrow window should not fit all columns")
	assert.Greater(t, end, 0, "at least one column is always visible")
}

func TestEnsureColVisible_ShiftsWindow(t *testing.T) {
	m := New().
		SetData(schema.InitialColumns(), testRecords()).
		SetSize(60, 20)

	m = m.EnsureColVisible(14)
	start, end := m.visibleCols(58)
	assert.Greater(t, start, 0)
	assert.Equal(t, 15, end)
}

func TestEnsureVisible_ScrollsRows(t *testing.T) {
	recs := make([]record.Record, 30)
	for i := range recs {
		recs[i] = record.Record{ID: string(rune('a' + i)), CreatedAt: time.Now()}
	}
	m := New().
		SetData(schema.InitialColumns(), recs).
		SetSize(80, 10)

	m = m.EnsureVisible(25)
	assert.Greater(t, m.yOffset, 0)

	m = m.EnsureVisible(0)
	assert.Equal(t, 0, m.yOffset)
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", CellText(nil))
	assert.Equal(t, "abc", CellText("abc"))
	assert.Equal(t, "12.5", CellText(float64(12.5)))
	assert.Equal(t, "7", CellText(7))
	assert.Equal(t, "true", CellText(true))
}

func TestPad_CJKWidth(t *testing.T) {
	assert.Equal(t, "abc       ", pad("abc", 10))

	// CJK labels count as two cells each
	out := pad("项目名称", 6)
	assert.LessOrEqual(t, runewidth.StringWidth(out), 6)
	assert.True(t, strings.HasSuffix(out, "…"))
}
