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

// workItemColumns is the canonical SELECT column list for work_items.
const workItemColumns = `id, seq, title, description, status, priority,
		planned_min, logged_min, due_date, not_before,
		created_at, updated_at, completed_at`

// schedulingOrder mirrors scheduler.CanonicalSort.
const schedulingOrder = `ORDER BY due_date IS NULL, due_date, priority DESC, seq, id`

// SQLiteWorkItemRepo implements WorkItemRepo using a SQLite database.
type SQLiteWorkItemRepo struct {
	db db.DBTX
}

// NewSQLiteWorkItemRepo creates a new SQLiteWorkItemRepo.
func NewSQLiteWorkItemRepo(conn db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: conn}
}

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	query := `INSERT INTO work_items (` + workItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Seq,
		w.Title,
		w.Description,
		string(w.Status),
		w.Priority,
		w.PlannedMin,
		w.LoggedMin,
		nullableTimeToString(w.DueDate, time.RFC3339),
		nullableTimeToString(w.NotBefore, time.RFC3339),
		timeToString(w.CreatedAt, time.RFC3339),
		timeToString(w.UpdatedAt, time.RFC3339),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return nil
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = ?`
	return scanWorkItem(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkItemRepo) GetBySeq(ctx context.Context, seq int) (*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE seq = ?`
	return scanWorkItem(r.db.QueryRowContext(ctx, query, seq))
}

func (r *SQLiteWorkItemRepo) List(ctx context.Context, includeTerminal bool) ([]*domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items`
	if !includeTerminal {
		query += ` WHERE status IN ('todo', 'in_progress')`
	}
	query += ` ` + schedulingOrder

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work items: %w", err)
	}
	defer rows.Close()
	return scanWorkItems(rows)
}

func (r *SQLiteWorkItemRepo) ListPending(ctx context.Context, now time.Time, limit int) ([]domain.WorkItem, error) {
	query := `SELECT ` + workItemColumns + `
		FROM work_items
		WHERE status IN ('todo', 'in_progress')
		  AND due_date IS NOT NULL
		  AND due_date > ?
		  AND planned_min > logged_min
		` + schedulingOrder
	args := []any{timeToString(now, time.RFC3339)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pending work items: %w", err)
	}
	defer rows.Close()

	items, err := scanWorkItems(rows)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WorkItem, len(items))
	for i, w := range items {
		out[i] = *w
	}
	return out, nil
}

// NextSeq returns the sequence number for the next created item.
func (r *SQLiteWorkItemRepo) NextSeq(ctx context.Context) (int, error) {
	var seq int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM work_items`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocating work item seq: %w", err)
	}
	return seq, nil
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	query := `UPDATE work_items SET seq = ?, title = ?, description = ?, status = ?, priority = ?,
		planned_min = ?, logged_min = ?, due_date = ?, not_before = ?,
		updated_at = ?, completed_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Seq,
		w.Title,
		w.Description,
		string(w.Status),
		w.Priority,
		w.PlannedMin,
		w.LoggedMin,
		nullableTimeToString(w.DueDate, time.RFC3339),
		nullableTimeToString(w.NotBefore, time.RFC3339),
		timeToString(w.UpdatedAt, time.RFC3339),
		nullableTimeToString(w.CompletedAt, time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	return requireAffected(res, "work item")
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return requireAffected(res, "work item")
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(row *sql.Row) (*domain.WorkItem, error) {
	w, err := scanWorkItemRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work item: %w", ErrNotFound)
		}
		return nil, err
	}
	return w, nil
}

func scanWorkItems(rows *sql.Rows) ([]*domain.WorkItem, error) {
	var items []*domain.WorkItem
	for rows.Next() {
		w, err := scanWorkItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

func scanWorkItemRow(row rowScanner) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var statusStr, createdAtStr, updatedAtStr string
	var dueDateStr, notBeforeStr, completedAtStr sql.NullString

	err := row.Scan(
		&w.ID, &w.Seq, &w.Title, &w.Description, &statusStr, &w.Priority,
		&w.PlannedMin, &w.LoggedMin, &dueDateStr, &notBeforeStr,
		&createdAtStr, &updatedAtStr, &completedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work item: %w", err)
	}

	w.Status = domain.WorkItemStatus(statusStr)
	w.DueDate = parseNullableTime(dueDateStr, time.RFC3339)
	w.NotBefore = parseNullableTime(notBeforeStr, time.RFC3339)
	w.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)

	if w.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if w.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &w, nil
}
