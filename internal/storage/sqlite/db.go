// Package sqlite implements the storage.Adapter interface over a local
// SQLite database file.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/engitrack/engitrack/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (creating if necessary) the store file at path and brings its
// schema up to date.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug(log.CatDB, "store opened", "path", path)
	return &DB{db: db}, nil
}

// migrateUp applies the embedded up-migrations in version order, recording
// applied versions in schema_migrations so reopening skips them.
func migrateUp(db *sql.DB) error {
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`,
	); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		version, err := migrationVersion(name)
		if err != nil {
			return err
		}

		var applied bool
		if err := db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)`, version,
		).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}
		if applied {
			continue
		}

		script, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version) VALUES (?)`, version,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}

		log.Debug(log.CatDB, "migration applied", "version", version)
	}
	return nil
}

// migrationVersion parses the numeric prefix of a migration file name,
// e.g. 000001_create_kv.up.sql -> 1.
func migrationVersion(name string) (int64, error) {
	base := path.Base(name)
	idx := strings.IndexByte(base, '_')
	if idx <= 0 {
		return 0, fmt.Errorf("malformed migration name %q", base)
	}
	version, err := strconv.ParseInt(base[:idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed migration version in %q: %w", base, err)
	}
	return version, nil
}
