package scheduler

import (
	"sort"

	"github.com/alexanderramin/laststart/internal/domain"
)

// CanonicalSort orders work items the way the placement engine must consume them:
// 1. Due date: earliest first (nil last)
// 2. Priority: higher first
// 3. Seq: ascending
// 4. Work item ID: lexical ascending
func CanonicalSort(items []domain.WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		// 1. Due date (earliest first, nil last)
		if (a.DueDate == nil) != (b.DueDate == nil) {
			return a.DueDate != nil
		}
		if a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}

		// 2. Priority (higher first)
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}

		// 3. Insertion order
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}

		// 4. Work item ID (lexical)
		return a.ID < b.ID
	})
}
