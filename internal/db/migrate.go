package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

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
	if err := migrateBackfillSeq(db); err != nil {
		return fmt.Errorf("backfilling seq values: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_items (
		id           TEXT PRIMARY KEY,
		seq          INTEGER NOT NULL DEFAULT 0,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'todo'
		             CHECK(status IN ('todo','in_progress','done','archived')),
		priority     INTEGER NOT NULL DEFAULT 1,
		planned_min  INTEGER NOT NULL DEFAULT 0 CHECK(planned_min >= 0),
		logged_min   INTEGER NOT NULL DEFAULT 0 CHECK(logged_min >= 0),
		due_date     TEXT,
		not_before   TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_status ON work_items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_due ON work_items(due_date)`,

	`CREATE TABLE IF NOT EXISTS work_session_logs (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		started_at   TEXT NOT NULL,
		minutes      INTEGER NOT NULL CHECK(minutes > 0),
		note         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_work_item ON work_session_logs(work_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started ON work_session_logs(started_at)`,

	`CREATE TABLE IF NOT EXISTS user_profile (
		id             TEXT PRIMARY KEY,
		work_days      TEXT NOT NULL,
		work_start_min INTEGER NOT NULL,
		work_end_min   INTEGER NOT NULL,
		bin_minutes    INTEGER NOT NULL,
		timezone       TEXT NOT NULL DEFAULT 'UTC',
		updated_at     TEXT NOT NULL
	)`,

	// Columns added after the first release.
	`ALTER TABLE work_items ADD COLUMN completed_at TEXT`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_items_seq ON work_items(seq) WHERE seq > 0`,
}

// migrateBackfillSeq numbers rows created before seq existed, in creation
// order, continuing after the highest assigned seq.
func migrateBackfillSeq(db *sql.DB) error {
	ctx := context.Background()

	var pending int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_items WHERE seq = 0`).Scan(&pending); err != nil {
		return fmt.Errorf("checking work_items seq: %w", err)
	}
	if pending == 0 {
		return nil
	}

	var maxSeq int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM work_items`).Scan(&maxSeq); err != nil {
		return fmt.Errorf("loading max seq: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM work_items WHERE seq = 0 ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("listing work items for seq backfill: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning work item id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := db.ExecContext(ctx,
			`UPDATE work_items SET seq = ? WHERE id = ? AND seq = 0`, maxSeq+i+1, id); err != nil {
			return fmt.Errorf("updating work item seq: %w", err)
		}
	}
	return nil
}
