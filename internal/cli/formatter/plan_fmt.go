package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/laststart/internal/app"
)

// FormatLatestStart renders a plan as a styled dashboard. Times are shown in
// loc.
func FormatLatestStart(resp *app.LatestStartResponse, now time.Time, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(FeasibilityBadge(resp.IsFeasible, resp.Complete()))
	b.WriteString(Dim(fmt.Sprintf("  as of %s, %d-minute bins", Stamp(resp.GeneratedAt, loc), resp.BinMinutes)))
	b.WriteString("\n\n")

	if len(resp.Entries) == 0 {
		b.WriteString(Dim("Nothing to plan."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(resp.Entries))
		for _, e := range resp.Entries {
			style := StartStyle(e.LatestStart, now)
			effort := FormatMinutes(e.AllocatedMin)
			if e.AllocatedMin < e.NeededMin {
				effort = StyleRed.Render(fmt.Sprintf("%s of %s", effort, FormatMinutes(e.NeededMin)))
			}
			rows = append(rows, []string{
				Bold(fmt.Sprintf("#%d", e.Seq)),
				style.Render(Stamp(e.LatestStart, loc)),
				style.Render(Until(e.LatestStart, now)),
				Stamp(e.DueDate, loc),
				effort,
				StyleFg.Render(e.Title),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "START BY", "WHEN", "DUE", "EFFORT", "TITLE"}, rows))
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render(fmt.Sprintf("  WARNING: %s", w)) + "\n")
		}
	}

	return RenderBox("Latest Start", b.String())
}

// FormatLatestStartPlain renders a plan without styling. Times are RFC 3339
// in loc so the output can be parsed.
func FormatLatestStartPlain(resp *app.LatestStartResponse, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "feasible: %t\n", resp.IsFeasible)
	fmt.Fprintf(&b, "complete: %t\n", resp.Complete())

	if len(resp.Entries) > 0 {
		rows := make([][]string, 0, len(resp.Entries))
		for _, e := range resp.Entries {
			rows = append(rows, []string{
				strconv.Itoa(e.Seq),
				e.LatestStart.In(loc).Format(time.RFC3339),
				e.DueDate.In(loc).Format(time.RFC3339),
				strconv.Itoa(e.AllocatedMin),
				strconv.Itoa(e.NeededMin),
				e.Title,
			})
		}
		b.WriteString(RenderPlainTable([]string{"SEQ", "START_BY", "DUE", "ALLOCATED_MIN", "NEEDED_MIN", "TITLE"}, rows))
	}
	for _, w := range resp.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	return b.String()
}
