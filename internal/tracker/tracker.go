// Package tracker owns the application state: session, column registry, and
// record store, persisted through a storage.Adapter. Mutations commit in
// memory first and then save; save failures are logged but never roll back
// or fail the mutation.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
	"github.com/engitrack/engitrack/internal/stats"
	"github.com/engitrack/engitrack/internal/storage"
)

// ErrBadPassword is returned by Login when the password does not match the
// configured access secret.
var ErrBadPassword = errors.New("访问密码错误，请重试")

// ErrEmptyUsername is returned by Login when the username is blank.
var ErrEmptyUsername = errors.New("请输入您的姓名")

var tracer = otel.Tracer("engitrack/tracker")

// Tracker wires the session, registry, and store to a persistence adapter.
type Tracker struct {
	adapter  storage.Adapter
	registry *schema.Registry
	store    *record.Store
	session  Session
	secret   string
}

// New creates a tracker over the given adapter. Call Load before use.
func New(adapter storage.Adapter, secret string) *Tracker {
	return &Tracker{
		adapter:  adapter,
		registry: schema.NewRegistry(),
		store:    record.NewStore(),
		secret:   secret,
	}
}

// Load restores session, columns, and records from the adapter. Absent keys
// fall back to defaults: no session, the initial column set, no records.
func (t *Tracker) Load() error {
	if raw, found, err := t.adapter.Get(storage.KeySession); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	} else if found {
		if err := json.Unmarshal(raw, &t.session); err != nil {
			return fmt.Errorf("failed to decode session: %w", err)
		}
	}

	if raw, found, err := t.adapter.Get(storage.KeyColumns); err != nil {
		return fmt.Errorf("failed to load columns: %w", err)
	} else if found {
		var cols []schema.Column
		if err := json.Unmarshal(raw, &cols); err != nil {
			return fmt.Errorf("failed to decode columns: %w", err)
		}
		t.registry = schema.NewRegistryWith(cols)
	}

	if raw, found, err := t.adapter.Get(storage.KeyRecords); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	} else if found {
		var records []record.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("failed to decode records: %w", err)
		}
		t.store = record.NewStoreWith(records)
	}

	log.Info(log.CatSession, "state loaded",
		"records", t.store.Len(),
		"columns", t.registry.Len(),
		"loggedIn", t.session.IsLoggedIn)
	return nil
}

// Reload re-reads records and columns from the adapter, e.g. after the store
// file changed externally. The current session is kept.
func (t *Tracker) Reload() error {
	if raw, found, err := t.adapter.Get(storage.KeyColumns); err != nil {
		return fmt.Errorf("failed to reload columns: %w", err)
	} else if found {
		var cols []schema.Column
		if err := json.Unmarshal(raw, &cols); err != nil {
			return fmt.Errorf("failed to decode columns: %w", err)
		}
		t.registry = schema.NewRegistryWith(cols)
	}

	if raw, found, err := t.adapter.Get(storage.KeyRecords); err != nil {
		return fmt.Errorf("failed to reload records: %w", err)
	} else if found {
		var records []record.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("failed to decode records: %w", err)
		}
		t.store.Replace(records)
	}
	return nil
}

// Close shuts down the store's event broker and the adapter.
func (t *Tracker) Close() error {
	t.store.Close()
	return t.adapter.Close()
}

// Store exposes the record store, mainly for event subscription.
func (t *Tracker) Store() *record.Store {
	return t.store
}

// --- Session ---

// Session returns the current session.
func (t *Tracker) Session() Session {
	return t.session
}

// Login validates the shared secret and establishes a session. The username
// is trimmed; a blank username or wrong password is rejected.
func (t *Tracker) Login(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if password != t.secret {
		log.Warn(log.CatSession, "login rejected", "username", username)
		return ErrBadPassword
	}

	t.session = Session{Username: username, IsLoggedIn: true}
	t.saveSession()
	log.Info(log.CatSession, "login", "username", username)
	return nil
}

// Logout clears the session and removes it from the store.
func (t *Tracker) Logout() {
	log.Info(log.CatSession, "logout", "username", t.session.Username)
	t.session = Session{}
	if err := t.adapter.Delete(storage.KeySession); err != nil {
		log.ErrorErr(log.CatSession, "failed to delete persisted session", err)
	}
}

// --- Columns ---

// Columns returns the live ordered column sequence.
func (t *Tracker) Columns() []schema.Column {
	return t.registry.Columns()
}

// AddColumn appends a new text column and persists the registry.
func (t *Tracker) AddColumn(label string) (schema.Column, bool) {
	col, added := t.registry.Add(label)
	if !added {
		return col, false
	}
	log.Info(log.CatSchema, "column added", "key", col.Key, "label", col.Label)
	t.saveColumns()
	return col, true
}

// RemoveColumn removes an optional column and persists the registry.
// Record payloads are untouched; the data simply stops rendering.
func (t *Tracker) RemoveColumn(key string) bool {
	if !t.registry.Remove(key) {
		return false
	}
	log.Info(log.CatSchema, "column removed", "key", key)
	t.saveColumns()
	return true
}

// --- Records ---

// Records returns the ordered record sequence, newest first.
func (t *Tracker) Records() []record.Record {
	return t.store.List()
}

// GetRecord looks up a record by id.
func (t *Tracker) GetRecord(id string) (record.Record, bool) {
	return t.store.Get(id)
}

// CreateRecord adds a record credited to the logged-in user and persists.
func (t *Tracker) CreateRecord(fields map[string]any) record.Record {
	_, span := tracer.Start(context.Background(), "tracker.create_record")
	defer span.End()

	r := t.store.Create(fields, t.session.Username)
	span.SetAttributes(attribute.String("record.id", r.ID))
	t.saveRecords()
	return r
}

// UpdateRecord replaces a record's fields and persists. Unknown ids are a
// no-op.
func (t *Tracker) UpdateRecord(id string, fields map[string]any) (record.Record, bool) {
	_, span := tracer.Start(context.Background(), "tracker.update_record")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	r, ok := t.store.Update(id, fields)
	if ok {
		t.saveRecords()
	}
	return r, ok
}

// DeleteRecord removes a record and persists. Unknown ids are a no-op.
func (t *Tracker) DeleteRecord(id string) bool {
	_, span := tracer.Start(context.Background(), "tracker.delete_record")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	ok := t.store.Delete(id)
	if ok {
		t.saveRecords()
	}
	return ok
}

// --- Stats ---

// Stats computes a fresh aggregation snapshot.
func (t *Tracker) Stats(opts stats.Options) stats.Summary {
	return stats.Compute(t.store.List(), opts)
}

// --- Persistence ---

func (t *Tracker) saveSession() {
	data, err := json.Marshal(t.session)
	if err != nil {
		log.ErrorErr(log.CatSession, "failed to encode session", err)
		return
	}
	if err := t.adapter.Put(storage.KeySession, data); err != nil {
		log.ErrorErr(log.CatSession, "failed to save session", err)
	}
}

func (t *Tracker) saveColumns() {
	data, err := json.Marshal(t.registry.Columns())
	if err != nil {
		log.ErrorErr(log.CatSchema, "failed to encode columns", err)
		return
	}
	if err := t.adapter.Put(storage.KeyColumns, data); err != nil {
		log.ErrorErr(log.CatSchema, "failed to save columns", err)
	}
}

func (t *Tracker) saveRecords() {
	data, err := json.Marshal(t.store.List())
	if err != nil {
		log.ErrorErr(log.CatStore, "failed to encode records", err)
		return
	}
	if err := t.adapter.Put(storage.KeyRecords, data); err != nil {
		log.ErrorErr(log.CatStore, "failed to save records", err)
	}
}
