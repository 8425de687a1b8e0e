package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/domain"
)

const sessionColumns = `id, work_item_id, started_at, minutes, note, created_at`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.WorkSessionLog) error {
	query := `INSERT INTO work_session_logs (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.WorkItemID,
		timeToString(s.StartedAt, time.RFC3339),
		s.Minutes,
		s.Note,
		timeToString(s.CreatedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work session log: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkSessionLog, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_session_logs WHERE id = ?`
	s, err := scanSessionRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work session log: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSessionRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.WorkSessionLog, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_session_logs WHERE work_item_id = ? ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, workItemID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by work item: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListSince returns sessions started at or after since, newest first.
func (r *SQLiteSessionRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.WorkSessionLog, error) {
	query := `SELECT ` + sessionColumns + `
		FROM work_session_logs
		WHERE started_at >= ?
		ORDER BY started_at DESC`
	rows, err := r.db.QueryContext(ctx, query, timeToString(since, time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing recent sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_session_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work session log: %w", err)
	}
	return requireAffected(res, "work session log")
}

func scanSessions(rows *sql.Rows) ([]*domain.WorkSessionLog, error) {
	var sessions []*domain.WorkSessionLog
	for rows.Next() {
		s, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanSessionRow(row rowScanner) (*domain.WorkSessionLog, error) {
	var s domain.WorkSessionLog
	var startedAtStr, createdAtStr string

	if err := row.Scan(&s.ID, &s.WorkItemID, &startedAtStr, &s.Minutes, &s.Note, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work session log: %w", err)
	}

	var err error
	if s.StartedAt, err = parseTime(startedAtStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}
