// Package storage defines the key-value persistence boundary. All durable
// state is stored as JSON documents under well-known keys, so any adapter
// that can round-trip bytes by string key can back the tracker.
package storage

// Well-known document keys.
const (
	KeySession = "session"
	KeyRecords = "records"
	KeyColumns = "columns"
)

// Adapter is the persistence boundary. Get reports found=false for absent
// keys; callers fall back to defaults in that case.
type Adapter interface {
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
