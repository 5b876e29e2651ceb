// Package db provides SQLite database access for crewcommd.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database handle.
type DB struct {
	*sql.DB
}

// Open opens (and creates if needed) the SQLite database at path and
// applies the schema.
func Open(path string, maxConnections, busyTimeoutMs int) (*DB, error) {
	if maxConnections < 1 {
		maxConnections = 1
	}
	if busyTimeoutMs <= 0 {
		busyTimeoutMs = 5000
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path, busyTimeoutMs)
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	handle.SetMaxOpenConns(maxConnections)

	db := &DB{DB: handle}
	if err := db.migrate(context.Background()); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens an in-memory database, used by tests.
func OpenMemory() (*DB, error) {
	handle, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps every statement on the same in-memory store.
	handle.SetMaxOpenConns(1)

	db := &DB{DB: handle}
	if err := db.migrate(context.Background()); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	crew_id    TEXT,
	full_name  TEXT NOT NULL,
	role       TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id       TEXT PRIMARY KEY,
	from_id  TEXT NOT NULL,
	to_id    TEXT NOT NULL,
	content  TEXT NOT NULL,
	sent_at  TEXT NOT NULL,
	status   TEXT NOT NULL DEFAULT 'sent',
	priority TEXT NOT NULL DEFAULT 'normal'
);

CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(from_id, to_id, sent_at);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(to_id, status);
`

func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Transaction runs fn inside a transaction, rolling back on error.
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
