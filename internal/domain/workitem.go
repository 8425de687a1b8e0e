package domain

import (
	"fmt"
	"strings"
	"time"
)

type WorkItem struct {
	ID          string
	Seq         int // insertion order, stable tie-break for scheduling
	Title       string
	Description string
	Status      WorkItemStatus
	Priority    int // higher is more important

	// Effort
	PlannedMin int
	LoggedMin  int

	// Constraints
	DueDate   *time.Time
	NotBefore *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// IsTerminal reports whether the item no longer takes part in scheduling.
func (w *WorkItem) IsTerminal() bool {
	return w.Status == WorkItemDone || w.Status == WorkItemArchived
}

// RemainingMin returns the effort still to be done, never negative.
func (w *WorkItem) RemainingMin() int {
	if rem := w.PlannedMin - w.LoggedMin; rem > 0 {
		return rem
	}
	return 0
}

// Validate checks the invariants a stored work item must satisfy.
func (w *WorkItem) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if w.PlannedMin < 0 {
		return fmt.Errorf("planned minutes must not be negative, got %d", w.PlannedMin)
	}
	if w.LoggedMin < 0 {
		return fmt.Errorf("logged minutes must not be negative, got %d", w.LoggedMin)
	}
	if w.DueDate != nil && w.NotBefore != nil && !w.NotBefore.Before(*w.DueDate) {
		return fmt.Errorf("not-before %s must be before due %s",
			w.NotBefore.Format(time.RFC3339), w.DueDate.Format(time.RFC3339))
	}
	return nil
}

// MarkDone transitions the item to done. Completing an already done item is a no-op.
func (w *WorkItem) MarkDone(now time.Time) error {
	switch w.Status {
	case WorkItemDone:
		return nil
	case WorkItemArchived:
		return fmt.Errorf("cannot complete archived work item %s", w.ID)
	}
	w.Status = WorkItemDone
	w.CompletedAt = &now
	w.UpdatedAt = now
	return nil
}

// MarkInProgress transitions a todo item to in_progress.
func (w *WorkItem) MarkInProgress(now time.Time) error {
	switch w.Status {
	case WorkItemInProgress:
		return nil
	case WorkItemDone, WorkItemArchived:
		return fmt.Errorf("cannot start %s work item %s", w.Status, w.ID)
	}
	w.Status = WorkItemInProgress
	w.UpdatedAt = now
	return nil
}

// Reopen moves a done item back to todo.
func (w *WorkItem) Reopen(now time.Time) error {
	if w.Status != WorkItemDone {
		return fmt.Errorf("cannot reopen %s work item %s", w.Status, w.ID)
	}
	w.Status = WorkItemTodo
	w.CompletedAt = nil
	w.UpdatedAt = now
	return nil
}

// ApplySession records logged minutes and moves a todo item to in_progress.
func (w *WorkItem) ApplySession(minutes int, now time.Time) error {
	if minutes <= 0 {
		return fmt.Errorf("session minutes must be positive, got %d", minutes)
	}
	if w.IsTerminal() {
		return fmt.Errorf("cannot log time on %s work item %s", w.Status, w.ID)
	}
	w.LoggedMin += minutes
	if w.Status == WorkItemTodo {
		w.Status = WorkItemInProgress
	}
	w.UpdatedAt = now
	return nil
}
