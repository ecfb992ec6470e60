package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations are applied in order on every open. Statements are written
// to be re-runnable (IF NOT EXISTS / tolerated duplicate-column errors).
var migrations = []string{
	// The active session is the single not-yet-completed run. The
	// singleton CHECK keeps the table at most one row: exactly the
	// "active session record" of the persisted layout.
	`CREATE TABLE IF NOT EXISTS active_session (
		singleton  INTEGER PRIMARY KEY CHECK (singleton = 1),
		id         TEXT NOT NULL,
		mode       TEXT NOT NULL CHECK (mode IN ('work','play','rest','sleep')),
		start_time TEXT NOT NULL,
		points     INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS active_session_badges (
		id         TEXT PRIMARY KEY,
		seq        INTEGER NOT NULL,
		emoji      TEXT NOT NULL,
		category   TEXT NOT NULL CHECK (category IN ('trees','leaves_fungi','animals')),
		earned_at  TEXT NOT NULL
	)`,

	// Single-row profile record, present after first launch.
	`CREATE TABLE IF NOT EXISTS user_profile (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		avatar       BLOB,
		total_points INTEGER NOT NULL DEFAULT 0
	)`,

	// Completed sessions, ordered by completion.
	`CREATE TABLE IF NOT EXISTS sessions (
		id            TEXT PRIMARY KEY,
		completed_seq INTEGER NOT NULL,
		mode          TEXT NOT NULL CHECK (mode IN ('work','play','rest','sleep')),
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		points        INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS session_badges (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		emoji      TEXT NOT NULL,
		category   TEXT NOT NULL,
		earned_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_completed ON sessions(completed_seq)`,
	`CREATE INDEX IF NOT EXISTS idx_session_badges_session ON session_badges(session_id, seq)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
