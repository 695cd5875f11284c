package record

import (
	"time"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/pubsub"
)

// Store keeps the ordered record list, newest first. Mutations publish
// change events so the UI can refresh reactively. The store is not safe for
// concurrent use; the tracker serializes access through the update loop.
type Store struct {
	records []Record
	broker  *pubsub.Broker[Record]
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return NewStoreWith(nil)
}

// NewStoreWith restores a store from a persisted record sequence, preserving
// order.
func NewStoreWith(records []Record) *Store {
	s := &Store{
		broker: pubsub.NewBroker[Record](),
		now:    time.Now,
	}
	if len(records) > 0 {
		s.records = make([]Record, len(records))
		copy(s.records, records)
	}
	return s
}

// Broker exposes the change event broker for subscribers.
func (s *Store) Broker() *pubsub.Broker[Record] {
	return s.broker
}

// Close shuts down the change event broker.
func (s *Store) Close() {
	s.broker.Close()
}

// List returns a copy of the ordered record sequence, newest first.
func (s *Store) List() []Record {
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Get looks up a record by id.
func (s *Store) Get(id string) (Record, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r.clone(), true
		}
	}
	return Record{}, false
}

// Create mints a new record from the given fields, stamps provenance, and
// prepends it so the newest record renders first.
func (s *Store) Create(fields map[string]any, creator string) Record {
	r := newRecord(fields, creator, s.now())
	s.records = append([]Record{r}, s.records...)

	log.Debug(log.CatStore, "record created", "id", r.ID, "creator", creator)
	s.broker.Publish(pubsub.CreatedEvent, r.clone())
	return r.clone()
}

// Update replaces the record's fields wholesale while preserving its
// identity, provenance, and position. Unknown ids are a silent no-op.
func (s *Store) Update(id string, fields map[string]any) (Record, bool) {
	for i, r := range s.records {
		if r.ID != id {
			continue
		}
		updated := Record{
			ID:        r.ID,
			CreatedBy: r.CreatedBy,
			CreatedAt: r.CreatedAt,
			Fields:    make(map[string]any, len(fields)),
		}
		for k, v := range fields {
			updated.Fields[k] = v
		}
		s.records[i] = updated

		log.Debug(log.CatStore, "record updated", "id", id)
		s.broker.Publish(pubsub.UpdatedEvent, updated.clone())
		return updated.clone(), true
	}

	log.Warn(log.CatStore, "update for unknown record", "id", id)
	return Record{}, false
}

// Delete removes the record with the given id. Unknown ids are a no-op.
// Confirmation is the caller's responsibility.
func (s *Store) Delete(id string) bool {
	for i, r := range s.records {
		if r.ID != id {
			continue
		}
		s.records = append(s.records[:i], s.records[i+1:]...)

		log.Debug(log.CatStore, "record deleted", "id", id)
		s.broker.Publish(pubsub.DeletedEvent, r.clone())
		return true
	}

	log.Warn(log.CatStore, "delete for unknown record", "id", id)
	return false
}

// Replace swaps the whole record sequence, e.g. after an external reload.
func (s *Store) Replace(records []Record) {
	s.records = make([]Record, len(records))
	copy(s.records, records)
	s.broker.Publish(pubsub.ChangedEvent, Record{})
}
