package scheduler

import (
	"time"

	"github.com/alexanderramin/laststart/internal/domain"
)

// NormalizedItem is the minimal, immutable view of a work item the engine
// places. Identity is ItemID.
type NormalizedItem struct {
	ItemID    string
	Deadline  time.Time
	NotBefore *time.Time
	Bins      int
}

// Normalize converts w into a NormalizedItem. It reports false for items
// that cannot be scheduled: no deadline, no remaining effort, or a terminal
// status.
//
// Remaining effort is floored to whole bins, except that any positive
// remainder asks for at least one bin.
func Normalize(w domain.WorkItem, binMinutes int) (NormalizedItem, bool) {
	if w.DueDate == nil || w.IsTerminal() {
		return NormalizedItem{}, false
	}
	rem := w.RemainingMin()
	if rem <= 0 || binMinutes <= 0 {
		return NormalizedItem{}, false
	}
	bins := rem / binMinutes
	if bins == 0 {
		bins = 1
	}
	n := NormalizedItem{
		ItemID:   w.ID,
		Deadline: *w.DueDate,
		Bins:     bins,
	}
	if w.NotBefore != nil {
		nb := *w.NotBefore
		n.NotBefore = &nb
	}
	return n, true
}

// NormalizeAll normalizes items in order, dropping unschedulable items and
// later snapshots of an ID already seen.
func NormalizeAll(items []domain.WorkItem, binMinutes int) []NormalizedItem {
	seen := make(map[string]bool, len(items))
	out := make([]NormalizedItem, 0, len(items))
	for _, w := range items {
		if seen[w.ID] {
			continue
		}
		n, ok := Normalize(w, binMinutes)
		if !ok {
			continue
		}
		seen[w.ID] = true
		out = append(out, n)
	}
	return out
}
