package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
)

// FormatProfile renders the working calendar, styled unless plain is set.
func FormatProfile(p *domain.UserProfile, plain bool) string {
	days := calendar.FormatWeekdays(p.WorkDays)
	window := calendar.FormatClock(p.WorkStartMin) + "-" + calendar.FormatClock(p.WorkEndMin)
	if plain {
		return fmt.Sprintf("work_days: %s\nwork_hours: %s\nbin_minutes: %d\ntimezone: %s\n",
			days, window, p.BinMinutes, p.Timezone)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("DAYS    "), StyleFg.Render(days)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("HOURS   "), StyleFg.Render(window)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("BINS    "), StyleBlue.Render(FormatMinutes(p.BinMinutes))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("TIMEZONE"), StyleFg.Render(p.Timezone)))
	return RenderBox("Work Calendar", b.String())
}
