package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
)

func TestFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	require.Equal(t, "Engineering_Projects_2026-09-01.csv", Filename(now))
}

func TestWrite_HeaderAndRows(t *testing.T) {
	cols := []schema.Column{
		{Key: "projectName", Label: "项目名称", Type: schema.TypeText, Required: true},
		{Key: "outlineQty", Label: "物探大纲量(km)", Type: schema.TypeNumber},
	}
	records := []record.Record{
		{
			ID:        "1",
			CreatedBy: "wutan",
			CreatedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
			Fields:    map[string]any{"projectName": "隧道A", "outlineQty": 12.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, cols))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"录入人", "录入时间", "项目名称", "物探大纲量(km)"},
		{"wutan", "2026-08-30", "隧道A", "12.5"},
	}, rows)
}

func TestWrite_MissingFieldIsBlank(t *testing.T) {
	cols := []schema.Column{
		{Key: "projectName", Label: "项目名称", Type: schema.TypeText},
		{Key: "remark1", Label: "备注1", Type: schema.TypeText},
	}
	records := []record.Record{
		{ID: "1", CreatedBy: "u", Fields: map[string]any{"projectName": "p"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, cols))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, "", rows[1][3])
}

func TestWrite_RemovedColumnNotExported(t *testing.T) {
	// Record keeps a field whose column was removed from the registry
	r := schema.NewRegistry()
	require.True(t, r.Remove("remark1"))
	records := []record.Record{
		{ID: "1", CreatedBy: "u", Fields: map[string]any{"projectName": "p", "remark1": "stale"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, r.Columns()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	for _, h := range rows[0] {
		require.NotEqual(t, "备注1", h)
	}
	for _, cell := range rows[1] {
		require.NotEqual(t, "stale", cell)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, nil, schema.InitialColumns(), now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Engineering_Projects_2026-09-01.csv"), path)

	data, err := os.ReadFile(path) //nolint:gosec // test reads its own output
	require.NoError(t, err)
	require.Contains(t, string(data), "录入人")
}
