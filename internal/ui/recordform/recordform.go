// Package recordform builds record create/edit modals from the live column
// schema and converts submitted text back into typed field values.
package recordform

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
	"github.com/engitrack/engitrack/internal/ui/modal"
)

// Form is a modal whose inputs mirror the current column schema.
type Form struct {
	modal.Model

	columns  []schema.Column
	recordID string // empty when creating
}

// NewCreate builds an empty form for a new record.
func NewCreate(columns []schema.Column) Form {
	return newForm("新增记录", columns, nil, "")
}

// NewCreateWithFields builds a create form pre-filled with extracted values.
func NewCreateWithFields(columns []schema.Column, fields map[string]any) Form {
	return newForm("新增记录", columns, fields, "")
}

// NewEdit builds a form pre-filled from an existing record.
func NewEdit(columns []schema.Column, rec record.Record) Form {
	return newForm("编辑记录", columns, rec.Fields, rec.ID)
}

func newForm(title string, columns []schema.Column, fields map[string]any, recordID string) Form {
	inputs := make([]modal.InputConfig, len(columns))
	for i, col := range columns {
		inputs[i] = modal.InputConfig{
			Key:         col.Key,
			Label:       col.Label,
			Placeholder: placeholderFor(col.Type),
			Value:       formatValue(fields[col.Key]),
			Required:    col.Required,
		}
	}

	return Form{
		Model: modal.New(modal.Config{
			Title:    title,
			Inputs:   inputs,
			MinWidth: 48,
		}),
		columns:  columns,
		recordID: recordID,
	}
}

// Update forwards messages to the underlying modal.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	m, cmd := f.Model.Update(msg)
	f.Model = m
	return f, cmd
}

// RecordID returns the record being edited, or "" for a create form.
func (f Form) RecordID() string {
	return f.recordID
}

// IsEdit reports whether the form edits an existing record.
func (f Form) IsEdit() bool {
	return f.recordID != ""
}

// ParseValues converts submitted input text into typed field values.
// Number columns parse to float64; unparseable text is kept verbatim so
// nothing the user typed is silently discarded.
func (f Form) ParseValues(values map[string]string) map[string]any {
	fields := make(map[string]any, len(f.columns))
	for _, col := range f.columns {
		raw := strings.TrimSpace(values[col.Key])
		if raw == "" {
			continue
		}
		if col.Type == schema.TypeNumber {
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				fields[col.Key] = n
				continue
			}
		}
		fields[col.Key] = raw
	}
	return fields
}

func placeholderFor(t schema.ColumnType) string {
	switch t {
	case schema.TypeNumber:
		return "数字"
	case schema.TypeDate:
		return "YYYY-MM-DD"
	default:
		return ""
	}
}

func formatValue(v any) string {
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
