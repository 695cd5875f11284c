package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/engitrack/engitrack/internal/storage"
)

// DB is the SQLite-backed key-value adapter.
type DB struct {
	db *sql.DB
}

var _ storage.Adapter = (*DB)(nil)

// Get retrieves the document stored under key.
func (d *DB) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores the document under key, replacing any previous value.
func (d *DB) Put(key string, value []byte) error {
	_, err := d.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}
	return nil
}

// Delete removes the document under key. Absent keys are not an error.
func (d *DB) Delete(key string) error {
	if _, err := d.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}
