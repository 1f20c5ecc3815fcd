// Package storage gives the client durable local state: a small SQLite
// key/value table holding the persisted store subset as a versioned JSON
// envelope. Serialization lives here, outside the store core, so the
// store stays testable without any database.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/skycast-app/skycast/internal/store"
)

// StateKey is the key the persisted envelope lives under, kept from the
// web client's localStorage contract so exported state stays portable.
const StateKey = "weather-storage"

// EnvelopeVersion tags the persisted JSON shape for future migrations.
const EnvelopeVersion = 1

// envelope wraps the persisted subset with a schema version.
type envelope struct {
	State   store.PersistedState `json:"state"`
	Version int                  `json:"version"`
}

// DB is a key/value wrapper over a single-file SQLite database.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path. ":memory:" is supported
// for tests.
func Open(path string, logger *slog.Logger) (*DB, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection is plenty for one synchronous writer and
	// keeps in-memory databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveState serializes the persisted subset and writes it synchronously
// under StateKey, replacing any previous envelope.
func (d *DB) SaveState(state store.PersistedState) error {
	raw, err := json.Marshal(envelope{State: state, Version: EnvelopeVersion})
	if err != nil {
		return fmt.Errorf("encode state envelope: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		StateKey, string(raw),
	)
	if err != nil {
		return fmt.Errorf("write state envelope: %w", err)
	}
	return nil
}

// LoadState reads the persisted subset back. A missing, garbled, or
// wrong-version envelope yields the zero state with ok=false: corrupt
// local state is discarded with a warning, never fatal.
func (d *DB) LoadState() (store.PersistedState, bool) {
	var raw string
	err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, StateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return store.PersistedState{}, false
	}
	if err != nil {
		d.logger.Warn("reading persisted state failed", "error", err)
		return store.PersistedState{}, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		d.logger.Warn("discarding garbled persisted state", "error", err)
		return store.PersistedState{}, false
	}
	if env.Version != EnvelopeVersion {
		d.logger.Warn("discarding persisted state with unknown version", "version", env.Version)
		return store.PersistedState{}, false
	}

	return env.State, true
}
