package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
)

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// parseTimeFlag accepts RFC 3339, "YYYY-MM-DD HH:MM" in loc, or a bare date.
// A bare date means the start of that day, or its end when endOfDay is set,
// so "--due 2025-03-14" means by the end of the 14th.
func parseTimeFlag(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339", s)
	}
	if endOfDay {
		return d.AddDate(0, 0, 1), nil
	}
	return d, nil
}

// weekdaysValue is a pflag.Value for comma-separated weekday lists.
type weekdaysValue struct {
	days *[]time.Weekday
}

var _ pflag.Value = (*weekdaysValue)(nil)

func newWeekdaysValue(days *[]time.Weekday) *weekdaysValue {
	return &weekdaysValue{days: days}
}

func (v *weekdaysValue) String() string {
	if v.days == nil {
		return ""
	}
	return calendar.FormatWeekdays(*v.days)
}

func (v *weekdaysValue) Set(s string) error {
	days, err := calendar.ParseWeekdays(strings.Split(s, ","))
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return fmt.Errorf("at least one weekday is required")
	}
	*v.days = days
	return nil
}

func (v *weekdaysValue) Type() string { return "weekdays" }

// priorityValue is a pflag.Value accepting low, normal, high or an integer.
type priorityValue struct {
	p *int
}

var _ pflag.Value = (*priorityValue)(nil)

func (v *priorityValue) String() string {
	if v.p == nil {
		return ""
	}
	return fmt.Sprint(*v.p)
}

func (v *priorityValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		*v.p = domain.PriorityLow
	case "normal":
		*v.p = domain.PriorityNormal
	case "high":
		*v.p = domain.PriorityHigh
	default:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid priority %q: use low, normal, high or a number", s)
		}
		*v.p = n
	}
	return nil
}

func (v *priorityValue) Type() string { return "priority" }
