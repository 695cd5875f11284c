package recordform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
)

func testColumns() []schema.Column {
	return []schema.Column{
		{Key: "projectName", Label: "项目名称", Type: schema.TypeText, Required: true},
		{Key: "outlineQty", Label: "物探大纲量(km)", Type: schema.TypeNumber},
		{Key: "completionTime", Label: "完成时间", Type: schema.TypeDate},
	}
}

func TestNewCreate(t *testing.T) {
	f := NewCreate(testColumns())

	assert.Empty(t, f.RecordID())
	assert.False(t, f.IsEdit())
}

func TestNewEdit(t *testing.T) {
	rec := record.Record{
		ID:        "abc",
		CreatedBy: "王工",
		CreatedAt: time.Now(),
		Fields: map[string]any{
			"projectName": "兰新铁路",
			"outlineQty":  float64(12.5),
		},
	}

	f := NewEdit(testColumns(), rec)

	assert.Equal(t, "abc", f.RecordID())
	assert.True(t, f.IsEdit())
}

func TestParseValues_TypedConversion(t *testing.T) {
	f := NewCreate(testColumns())

	fields := f.ParseValues(map[string]string{
		"projectName":    "  兰新铁路  ",
		"outlineQty":     "12.5",
		"completionTime": "2024-03-01",
	})

	require.Equal(t, "兰新铁路", fields["projectName"])
	require.Equal(t, 12.5, fields["outlineQty"])
	require.Equal(t, "2024-03-01", fields["completionTime"])
}

func TestParseValues_BlankOmitted(t *testing.T) {
	f := NewCreate(testColumns())

	fields := f.ParseValues(map[string]string{
		"projectName": "隧道勘察",
		"outlineQty":  "   ",
	})

	_, ok := fields["outlineQty"]
	assert.False(t, ok)
}

func TestParseValues_UnparseableNumberKeptVerbatim(t *testing.T) {
	f := NewCreate(testColumns())

	fields := f.ParseValues(map[string]string{
		"projectName": "隧道勘察",
		"outlineQty":  "约12公里",
	})

	assert.Equal(t, "约12公里", fields["outlineQty"])
}
