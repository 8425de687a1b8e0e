package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/laststart/internal/domain"
)

// FormatWorkItemList renders items as a table, styled unless plain is set.
func FormatWorkItemList(items []*domain.WorkItem, now time.Time, loc *time.Location, plain bool) string {
	if len(items) == 0 {
		if plain {
			return ""
		}
		return Dim("No work items.") + "\n"
	}

	headers := []string{"ID", "TITLE", "STATUS", "DUE", "LEFT", "PRIORITY"}
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		if plain {
			due := ""
			if w.DueDate != nil {
				due = w.DueDate.In(loc).Format(time.RFC3339)
			}
			rows = append(rows, []string{
				strconv.Itoa(w.Seq), w.Title, string(w.Status), due,
				strconv.Itoa(w.RemainingMin()), strconv.Itoa(w.Priority),
			})
			continue
		}
		due := Dim("--")
		if w.DueDate != nil {
			due = RelativeDateFrom(*w.DueDate, now) + Dim(" "+Stamp(*w.DueDate, loc))
		}
		rows = append(rows, []string{
			Bold(fmt.Sprintf("#%d", w.Seq)),
			StyleFg.Render(w.Title),
			WorkItemStatusPill(w.Status),
			due,
			FormatMinutes(w.RemainingMin()),
			PriorityLabel(w.Priority),
		})
	}
	if plain {
		return RenderPlainTable(headers, rows)
	}
	return RenderTable(headers, rows)
}

// FormatWorkItem renders one item's details in a box.
func FormatWorkItem(w *domain.WorkItem, sessions []*domain.WorkSessionLog, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(w.Title), Dim(fmt.Sprintf("#%d", w.Seq))))
	if w.Description != "" {
		b.WriteString(StyleFg.Render(w.Description) + "\n\n")
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("STATUS  "), WorkItemStatusPill(w.Status)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("ID      "), TruncID(w.ID)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("PRIORITY"), PriorityLabel(w.Priority)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("EFFORT  "), RenderEffort(w.LoggedMin, w.PlannedMin, 20)))
	if w.DueDate != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("DUE     "), Stamp(*w.DueDate, loc)))
	}
	if w.NotBefore != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("AFTER   "), Stamp(*w.NotBefore, loc)))
	}
	if w.CompletedAt != nil {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("DONE    "), Stamp(*w.CompletedAt, loc)))
	}

	if len(sessions) > 0 {
		b.WriteString("\n" + Header("Sessions") + "\n")
		for _, s := range sessions {
			line := fmt.Sprintf("  %s  %s", Stamp(s.StartedAt, loc), FormatMinutes(s.Minutes))
			if s.Note != "" {
				line += "  " + Dim(s.Note)
			}
			b.WriteString(line + "\n")
		}
	}

	return RenderBox("Work Item", b.String())
}
