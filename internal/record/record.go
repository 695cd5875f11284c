// Package record holds project records and their in-memory store.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Record is one row of the project table. Fields is an open mapping keyed by
// column key; records keep whatever fields they were saved with even after
// the column registry changes (schema-on-read).
type Record struct {
	ID        string         `json:"id"`
	CreatedBy string         `json:"createdBy"`
	CreatedAt time.Time      `json:"createdAt"`
	Fields    map[string]any `json:"fields"`
}

// Field returns the value stored under the given column key, or nil when the
// record has no value for it.
func (r Record) Field(key string) any {
	return r.Fields[key]
}

// clone returns a deep-enough copy: the Fields map is copied, values are
// shared (they are JSON scalars in practice).
func (r Record) clone() Record {
	out := r
	out.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

func newRecord(fields map[string]any, creator string, now time.Time) Record {
	r := Record{
		ID:        uuid.NewString(),
		CreatedBy: creator,
		CreatedAt: now,
		Fields:    make(map[string]any, len(fields)),
	}
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}
