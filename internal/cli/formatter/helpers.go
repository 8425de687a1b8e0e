package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// Until describes how long until t, or how long ago it passed, rounded
// down to whole minutes.
func Until(t, now time.Time) string {
	d := t.Sub(now)
	if d < 0 {
		return FormatMinutes(int(-d/time.Minute)) + " ago"
	}
	if d < time.Minute {
		return "now"
	}
	return "in " + FormatMinutes(int(d/time.Minute))
}

// Stamp formats t in loc as a short weekday timestamp.
func Stamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Mon Jan 2 15:04")
}

// WorkItemStatusPill returns a colored status indicator for work item status.
func WorkItemStatusPill(status domain.WorkItemStatus) string {
	switch status {
	case domain.WorkItemTodo:
		return StyleBlue.Render("○ Todo")
	case domain.WorkItemInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.WorkItemDone:
		return StyleDim.Render("✔ Done")
	case domain.WorkItemArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityLabel names the CLI priority levels and falls back to the number.
func PriorityLabel(p int) string {
	switch p {
	case domain.PriorityLow:
		return "low"
	case domain.PriorityNormal:
		return "normal"
	case domain.PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("%d", p)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
