// Package sqlite implements the repository ports on an embedded SQLite file.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// there is no CGo and no C toolchain involved; cross-compiling the binary
// stays trivial. Use ":memory:" as the path for a throwaway database in tests.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/codespark/internal/model"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, applies the pragmas the store relies
// on, and runs migrations. The caller owns the returned DB and must Close it.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every pooled connection to ":memory:" gets its own empty database,
	// so the schema would vanish between queries. One connection fixes that.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open doesn't touch the file; Ping surfaces bad paths immediately.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Snippets reference libraries; keep that enforced.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema and seeds the default libraries.
// Everything here is idempotent — safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS libraries (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			category     TEXT NOT NULL,
			is_read_only INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("creating libraries table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			body         TEXT NOT NULL,
			shortcut     TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			tags         TEXT NOT NULL DEFAULT '[]',
			language     TEXT NOT NULL DEFAULT '',
			is_favorite  INTEGER NOT NULL DEFAULT 0,
			usage_count  INTEGER NOT NULL DEFAULT 0,
			last_used_at DATETIME,
			library_id   TEXT NOT NULL REFERENCES libraries(id),
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_library_id ON snippets(library_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_updated_at ON snippets(updated_at);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	// Single-row preferences table. The CHECK pins the row id so a plain
	// upsert on id=1 is the whole save path.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			id                       INTEGER PRIMARY KEY CHECK (id = 1),
			default_library_id       TEXT NOT NULL DEFAULT '',
			theme                    TEXT NOT NULL DEFAULT 'system',
			global_shortcut          TEXT NOT NULL DEFAULT '',
			command_palette_shortcut TEXT NOT NULL DEFAULT '',
			data_directory           TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating preferences table: %w", err)
	}

	return db.seedLibraries()
}

// seedLibraries inserts the default libraries if they are not present.
// INSERT OR IGNORE keeps user edits to existing rows intact.
func (db *DB) seedLibraries() error {
	for _, lib := range model.DefaultLibraries() {
		_, err := db.conn.Exec(
			`INSERT OR IGNORE INTO libraries (id, name, description, category, is_read_only)
			 VALUES (?, ?, ?, ?, ?)`,
			lib.ID, lib.Name, lib.Description, string(lib.Category), lib.IsReadOnly,
		)
		if err != nil {
			return fmt.Errorf("seeding library %s: %w", lib.ID, err)
		}
	}
	return nil
}
