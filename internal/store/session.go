package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/draftbill/draftbill/internal/catalog"
)

//go:embed schema.sql
var schemaSQL string

// DB provides durable storage for payload batches across conversational
// turns. Uses SQLite with WAL mode for concurrent read access.
type DB struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// SaveSession persists the store's full ordered record list under a session
// id, replacing whatever that session held before. The write is atomic.
func (d *DB) SaveSession(ctx context.Context, sessionID string, s *Store, turn int) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, saved_turn) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_turn = excluded.saved_turn
	`, sessionID, turn); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM payloads WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	for seq, r := range s.records {
		wire, err := r.MarshalWire()
		if err != nil {
			return fmt.Errorf("save session: record %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payloads (session_id, seq, payload_id, kind, record)
			VALUES (?, ?, ?, ?, ?)
		`, sessionID, seq, r.ID, string(r.Kind), string(wire)); err != nil {
			return fmt.Errorf("save session: record %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession rebuilds a store from a persisted session, preserving append
// order, positional indices, and placeholder sets. The known predicate
// (normally schema.Registry.Knows) re-splits schema fields from extensions.
// A session id that was never saved yields an empty store.
func (d *DB) LoadSession(ctx context.Context, sessionID string, known func(catalog.EntityKind, string) bool) (*Store, int, error) {
	var turn int
	err := d.db.QueryRowContext(ctx, `SELECT saved_turn FROM sessions WHERE id = ?`, sessionID).Scan(&turn)
	if err == sql.ErrNoRows {
		return New(), 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load session: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT record FROM payloads WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	s := New()
	for rows.Next() {
		var wire string
		if err := rows.Scan(&wire); err != nil {
			return nil, 0, fmt.Errorf("load session: %w", err)
		}
		r, err := catalog.UnmarshalWire([]byte(wire), known)
		if err != nil {
			return nil, 0, fmt.Errorf("load session: %w", err)
		}
		s.restore(r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("load session: %w", err)
	}
	return s, turn, nil
}
