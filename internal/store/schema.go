package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableLLMEvents  = "llm_events"
	tableTurnEvents = "turn_events"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     INTEGER NOT NULL,
		session_id    TEXT    NOT NULL DEFAULT '',
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_events_sequence ON llm_events (sequence)`,
	`CREATE TABLE IF NOT EXISTS turn_events (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence        INTEGER NOT NULL,
		timestamp       INTEGER NOT NULL,
		session_id      TEXT    NOT NULL,
		topic           TEXT    NOT NULL DEFAULT '',
		event           TEXT    NOT NULL,
		command         TEXT    NOT NULL DEFAULT '',
		phase_from      TEXT    NOT NULL,
		phase_to        TEXT    NOT NULL,
		directive       TEXT    NOT NULL DEFAULT '',
		question_index  INTEGER NOT NULL,
		score           INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		needs_attention INTEGER NOT NULL DEFAULT 0,
		attempts        INTEGER NOT NULL DEFAULT 0,
		outcome         TEXT    NOT NULL,
		error_message   TEXT    NOT NULL DEFAULT '',
		latency_ms      INTEGER NOT NULL DEFAULT 0,
		title           TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS turn_events_session ON turn_events (session_id, sequence)`,
}

// migrate creates the event tables. Events are append-only, so schema
// changes are additive and IF NOT EXISTS is enough.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
