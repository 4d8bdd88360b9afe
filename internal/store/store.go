// Package store provides the SQLite persistence layer for daily metrics and
// procrastination events.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS daily_metrics (
	date                    TEXT PRIMARY KEY,
	start_time              TEXT,
	work_hours              REAL NOT NULL DEFAULT 0,
	total_hours             REAL NOT NULL DEFAULT 0,
	procrastination_minutes INTEGER NOT NULL DEFAULT 0,
	dispersion_minutes      INTEGER NOT NULL DEFAULT 0,
	mindfulness_moments     INTEGER NOT NULL DEFAULT 0,
	meditation_time         REAL,
	meditation_quality      REAL,
	meditation_comment      TEXT,
	sleep_quality           REAL,
	sleep_comment           TEXT,
	mood_score              REAL,
	mood_sentiment          TEXT NOT NULL DEFAULT '',
	mood_comment            TEXT,
	textual_info            TEXT NOT NULL DEFAULT '{}',
	raw_ai_output           TEXT NOT NULL DEFAULT '',
	is_workday              INTEGER NOT NULL DEFAULT 1,
	note_checksum           TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS procrastination_events (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	date             TEXT NOT NULL,
	time             TEXT,
	type             TEXT NOT NULL DEFAULT 'Procrastination',
	duration_minutes REAL NOT NULL DEFAULT 0,
	activity         TEXT NOT NULL DEFAULT '',
	"trigger"        TEXT NOT NULL DEFAULT '',
	feeling          TEXT NOT NULL DEFAULT '',
	action_taken     TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_source ON procrastination_events(source);
CREATE INDEX IF NOT EXISTS idx_events_order ON procrastination_events(date DESC, time DESC);
`

// DB wraps a sql.DB with metrics-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
