// Package schema holds the ordered column registry that drives the record
// table, the entry form, exports, and extraction schemas.
package schema

import (
	"strconv"
	"strings"
	"time"
)

// ColumnType constrains how a column's values are entered and rendered.
type ColumnType string

const (
	TypeText   ColumnType = "text"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
)

// Column describes one field of the record table.
type Column struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Type     ColumnType `json:"type"`
	Required bool       `json:"required,omitempty"`
}

// InitialColumns returns the seed column set for a fresh installation.
func InitialColumns() []Column {
	return []Column{
		{Key: "projectName", Label: "项目名称", Type: TypeText, Required: true},
		{Key: "projectCode", Label: "项目编码", Type: TypeText},
		{Key: "stageName", Label: "阶段名称", Type: TypeText},
		{Key: "outlineQty", Label: "物探大纲量(km)", Type: TypeNumber},
		{Key: "siteName", Label: "工点名称", Type: TypeText},
		{Key: "difficultyCoef", Label: "特殊困难系数", Type: TypeNumber},
		{Key: "method", Label: "实施方法", Type: TypeText},
		{Key: "length", Label: "测线长度(m)", Type: TypeNumber},
		{Key: "area", Label: "面积(m^2)", Type: TypeNumber},
		{Key: "standardPoints", Label: "标准点(点)", Type: TypeNumber},
		{Key: "completionTime", Label: "完成时间", Type: TypeDate},
		{Key: "convertedMethod", Label: "折算后物探方法", Type: TypeText},
		{Key: "convertedLength", Label: "折算测线长度(km)", Type: TypeNumber},
		{Key: "remark1", Label: "备注1", Type: TypeText},
		{Key: "remark2", Label: "备注2", Type: TypeText},
	}
}

// Registry is an ordered collection of columns. It is not safe for
// concurrent use; the tracker serializes access through the update loop.
type Registry struct {
	columns []Column
	// lastKeyMillis guards against two Add calls landing in the same
	// millisecond and minting the same key.
	lastKeyMillis int64
}

// NewRegistry creates a registry seeded with the initial column set.
func NewRegistry() *Registry {
	return &Registry{columns: InitialColumns()}
}

// NewRegistryWith creates a registry from a previously persisted column
// sequence. An empty sequence falls back to the initial set.
func NewRegistryWith(columns []Column) *Registry {
	if len(columns) == 0 {
		return NewRegistry()
	}
	r := &Registry{columns: make([]Column, len(columns))}
	copy(r.columns, columns)
	return r
}

// Columns returns a copy of the ordered column sequence.
func (r *Registry) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Get looks up a column by key.
func (r *Registry) Get(key string) (Column, bool) {
	for _, c := range r.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Len returns the number of columns.
func (r *Registry) Len() int {
	return len(r.columns)
}

// Add appends a new text column with the given label. The label is trimmed;
// a whitespace-only label is rejected. The generated key is unique across
// the registry's lifetime. Returns the new column and whether it was added.
func (r *Registry) Add(label string) (Column, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Column{}, false
	}

	col := Column{
		Key:   r.nextKey(),
		Label: label,
		Type:  TypeText,
	}
	r.columns = append(r.columns, col)
	return col, true
}

// Remove deletes the column with the given key. Unknown keys are a no-op
// and required columns are never removable. Returns whether a column was
// removed.
func (r *Registry) Remove(key string) bool {
	for i, c := range r.columns {
		if c.Key != key {
			continue
		}
		if c.Required {
			return false
		}
		r.columns = append(r.columns[:i], r.columns[i+1:]...)
		return true
	}
	return false
}

func (r *Registry) nextKey() string {
	millis := time.Now().UnixMilli()
	if millis <= r.lastKeyMillis {
		millis = r.lastKeyMillis + 1
	}
	r.lastKeyMillis = millis
	return "custom_" + strconv.FormatInt(millis, 10)
}
