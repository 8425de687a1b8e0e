package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by New when the calendar cannot produce any
// work slot.
var ErrInvalidConfig = errors.New("invalid work calendar config")

const (
	minutesPerDay = 24 * 60
	secondsPerDay = minutesPerDay * 60
)

// Slot is a count of fixed-size bins since the wall-clock epoch of the
// calendar's location.
type Slot int64

// Config describes the user's working time.
type Config struct {
	WorkDays     []time.Weekday
	WorkStartMin int // minutes since midnight
	WorkEndMin   int // minutes since midnight, exclusive
	BinMinutes   int
	Location     *time.Location
}

// WorkCalendar maps between instants and slots and navigates work time.
type WorkCalendar struct {
	loc         *time.Location
	binMin      int
	binSec      int64
	slotsPerDay int64
	firstOfDay  int64 // slot offset within a day
	lastOfDay   int64 // slot offset within a day, inclusive
	workDays    [7]bool
}

// New validates cfg and builds a WorkCalendar.
func New(cfg Config) (*WorkCalendar, error) {
	if cfg.BinMinutes <= 0 || 60%cfg.BinMinutes != 0 {
		return nil, fmt.Errorf("%w: bin size %d must divide 60", ErrInvalidConfig, cfg.BinMinutes)
	}
	if cfg.WorkStartMin < 0 || cfg.WorkEndMin > minutesPerDay {
		return nil, fmt.Errorf("%w: work window %d-%d outside the day", ErrInvalidConfig, cfg.WorkStartMin, cfg.WorkEndMin)
	}
	if cfg.WorkStartMin >= cfg.WorkEndMin {
		return nil, fmt.Errorf("%w: work start %s not before work end %s",
			ErrInvalidConfig, FormatClock(cfg.WorkStartMin), FormatClock(cfg.WorkEndMin))
	}

	c := &WorkCalendar{
		loc:         cfg.Location,
		binMin:      cfg.BinMinutes,
		binSec:      int64(cfg.BinMinutes) * 60,
		slotsPerDay: int64(minutesPerDay / cfg.BinMinutes),
	}
	if c.loc == nil {
		c.loc = time.UTC
	}

	for _, d := range cfg.WorkDays {
		if d < time.Sunday || d > time.Saturday {
			return nil, fmt.Errorf("%w: unknown weekday %d", ErrInvalidConfig, d)
		}
		c.workDays[d] = true
	}
	if !c.hasWorkDay() {
		return nil, fmt.Errorf("%w: no work weekdays", ErrInvalidConfig)
	}

	// Only bins lying entirely inside [start, end) are work time.
	c.firstOfDay = int64((cfg.WorkStartMin + cfg.BinMinutes - 1) / cfg.BinMinutes)
	c.lastOfDay = int64(cfg.WorkEndMin/cfg.BinMinutes) - 1
	if c.firstOfDay > c.lastOfDay {
		return nil, fmt.Errorf("%w: no %d-minute bin fits between %s and %s", ErrInvalidConfig,
			cfg.BinMinutes, FormatClock(cfg.WorkStartMin), FormatClock(cfg.WorkEndMin))
	}
	return c, nil
}

func (c *WorkCalendar) hasWorkDay() bool {
	for _, ok := range c.workDays {
		if ok {
			return true
		}
	}
	return false
}

// BinMinutes returns the slot width in minutes.
func (c *WorkCalendar) BinMinutes() int { return c.binMin }

// BinDuration returns the slot width.
func (c *WorkCalendar) BinDuration() time.Duration {
	return time.Duration(c.binMin) * time.Minute
}

// Location returns the location work hours are expressed in.
func (c *WorkCalendar) Location() *time.Location { return c.loc }

// SlotOf truncates t to the slot containing it.
func (c *WorkCalendar) SlotOf(t time.Time) Slot {
	_, offset := t.In(c.loc).Zone()
	wall := t.Unix() + int64(offset)
	return Slot(floorDiv(wall, c.binSec))
}

// Instant returns the start of slot s in the calendar's location.
func (c *WorkCalendar) Instant(s Slot) time.Time {
	w := time.Unix(int64(s)*c.binSec, 0).UTC()
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), 0, 0, c.loc)
}

// IsWorkSlot reports whether s falls on a work weekday inside the daily window
// and its wall-clock start exists in the location.
func (c *WorkCalendar) IsWorkSlot(s Slot) bool {
	return c.inWindow(s) && c.exists(s)
}

func (c *WorkCalendar) inWindow(s Slot) bool {
	day, off := c.split(s)
	return c.workDays[weekdayOf(day)] && off >= c.firstOfDay && off <= c.lastOfDay
}

// exists is false for slots whose wall-clock start is skipped by a forward
// clock change, such as 02:00-03:00 on a spring-forward night.
func (c *WorkCalendar) exists(s Slot) bool {
	return c.SlotOf(c.Instant(s)) == s
}

// FirstSlotOfDay returns the first work-window slot on the day containing t.
// The weekday is not checked.
func (c *WorkCalendar) FirstSlotOfDay(t time.Time) Slot {
	day, _ := c.split(c.SlotOf(t))
	return Slot(day*c.slotsPerDay + c.firstOfDay)
}

// LastSlotOfDay returns the last work-window slot on the day containing t.
// The weekday is not checked.
func (c *WorkCalendar) LastSlotOfDay(t time.Time) Slot {
	day, _ := c.split(c.SlotOf(t))
	return Slot(day*c.slotsPerDay + c.lastOfDay)
}

// PreviousWorkSlot returns the closest work slot strictly before s.
func (c *WorkCalendar) PreviousWorkSlot(s Slot) Slot {
	p := c.previousWindowSlot(s)
	for !c.exists(p) {
		p = c.previousWindowSlot(p)
	}
	return p
}

func (c *WorkCalendar) previousWindowSlot(s Slot) Slot {
	cand := s - 1
	// New guarantees a work day within any seven consecutive days.
	for i := 0; i < 8; i++ {
		day, off := c.split(cand)
		if c.workDays[weekdayOf(day)] {
			if off > c.lastOfDay {
				return Slot(day*c.slotsPerDay + c.lastOfDay)
			}
			if off >= c.firstOfDay {
				return cand
			}
		}
		cand = Slot(day*c.slotsPerDay - 1)
	}
	panic("calendar: no work slot within a week")
}

// NextOrSameWorkSlot returns the smallest work slot at or after s.
func (c *WorkCalendar) NextOrSameWorkSlot(s Slot) Slot {
	n := c.nextOrSameWindowSlot(s)
	for !c.exists(n) {
		n = c.nextOrSameWindowSlot(n + 1)
	}
	return n
}

func (c *WorkCalendar) nextOrSameWindowSlot(s Slot) Slot {
	cand := s
	for i := 0; i < 8; i++ {
		day, off := c.split(cand)
		if c.workDays[weekdayOf(day)] {
			if off < c.firstOfDay {
				return Slot(day*c.slotsPerDay + c.firstOfDay)
			}
			if off <= c.lastOfDay {
				return cand
			}
		}
		cand = Slot((day + 1) * c.slotsPerDay)
	}
	panic("calendar: no work slot within a week")
}

// split returns the wall-clock day index of s and its offset within that day.
func (c *WorkCalendar) split(s Slot) (day, off int64) {
	day = floorDiv(int64(s), c.slotsPerDay)
	return day, int64(s) - day*c.slotsPerDay
}

// weekdayOf maps a day index since 1970-01-01 (a Thursday) to its weekday.
func weekdayOf(day int64) time.Weekday {
	return time.Weekday(floorMod(day+int64(time.Thursday), 7))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
