package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ddl lists the statements applied on every Open. Statements must be idempotent.
//
// Timestamps are unix milliseconds. Session rows carry the local calendar
// day they were recorded on so per-day aggregation does not depend on the
// reader's time zone.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at    INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_created_at ON llm_events (created_at)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at  INTEGER NOT NULL,
		session_id  TEXT NOT NULL,
		scene_id    TEXT NOT NULL,
		action      TEXT NOT NULL,
		day         TEXT NOT NULL,
		words       INTEGER NOT NULL DEFAULT 0,
		points      INTEGER NOT NULL DEFAULT 0,
		fallback    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_day ON session_events (day)`,
}

// migrate applies the schema. The tables are also declared as ent schemas
// in ent/schema; a test keeps the two in step.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
