package sqlite

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/engitrack/engitrack/internal/schema"
	"github.com/engitrack/engitrack/internal/storage"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "engitrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_GetAbsentKey(t *testing.T) {
	db := setupTestDB(t)

	_, found, err := db.Get(storage.KeyRecords)
	require.NoError(t, err)
	require.False(t, found)
}

func TestDB_PutGetRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Put("k", []byte(`{"a":1}`)))

	v, found, err := db.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"a":1}`, string(v))
}

func TestDB_PutOverwrites(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Put("k", []byte(`1`)))
	require.NoError(t, db.Put("k", []byte(`2`)))

	v, found, err := db.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", string(v))
}

func TestDB_Delete(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Put("k", []byte(`1`)))
	require.NoError(t, db.Delete("k"))

	_, found, err := db.Get("k")
	require.NoError(t, err)
	require.False(t, found)

	// Deleting an absent key is not an error
	require.NoError(t, db.Delete("k"))
}

func TestDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engitrack.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Put("k", []byte(`"v"`)))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	v, found, err := db.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `"v"`, string(v))
}

func TestDB_ReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engitrack.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	require.NoError(t, db.db.QueryRow(
		`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestMigrationVersion(t *testing.T) {
	v, err := migrationVersion("migrations/000001_create_kv.up.sql")
	require.NoError(t, err)
	require.Equal(t, int64(1), v)

	_, err = migrationVersion("create_kv.up.sql")
	require.Error(t, err)
}

func TestDB_ColumnsRoundTripPreservesOrder(t *testing.T) {
	db := setupTestDB(t)

	cols := schema.InitialColumns()
	data, err := json.Marshal(cols)
	require.NoError(t, err)
	require.NoError(t, db.Put(storage.KeyColumns, data))

	raw, found, err := db.Get(storage.KeyColumns)
	require.NoError(t, err)
	require.True(t, found)

	var got []schema.Column
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, cols, got)
}
