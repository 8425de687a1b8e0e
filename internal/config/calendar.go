package config

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
)

// CalendarConfig seeds the user profile the first time the database is used.
// Later edits go through the calendar command and live in the database.
type CalendarConfig struct {
	// WorkDays is a comma-separated weekday list, e.g. "mon,tue,wed".
	WorkDays   string `json:"work_days"`
	WorkStart  string `json:"work_start"` // HH:MM
	WorkEnd    string `json:"work_end"`   // HH:MM
	BinMinutes int    `json:"bin_minutes"`
	Timezone   string `json:"timezone"`
}

func (c *CalendarConfig) SetDefaults() {
	c.WorkDays = domain.CoalesceStr(c.WorkDays, "mon,tue,wed,thu,fri")
	c.WorkStart = domain.CoalesceStr(c.WorkStart, "09:00")
	c.WorkEnd = domain.CoalesceStr(c.WorkEnd, "17:00")
	if c.BinMinutes == 0 {
		c.BinMinutes = 15
	}
	c.Timezone = domain.CoalesceStr(c.Timezone, "UTC")
}

// Validate builds a calendar from the section so bad windows fail at startup.
func (c CalendarConfig) Validate() error {
	p, err := c.Profile()
	if err != nil {
		return err
	}
	loc, err := p.LoadLocation()
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	_, err = calendar.New(calendar.Config{
		WorkDays:     p.WorkDays,
		WorkStartMin: p.WorkStartMin,
		WorkEndMin:   p.WorkEndMin,
		BinMinutes:   p.BinMinutes,
		Location:     loc,
	})
	return err
}

// Profile converts the section into the default user profile.
func (c CalendarConfig) Profile() (*domain.UserProfile, error) {
	days, err := calendar.ParseWeekdays(strings.Split(c.WorkDays, ","))
	if err != nil {
		return nil, fmt.Errorf("work_days: %w", err)
	}
	start, err := calendar.ParseClock(c.WorkStart)
	if err != nil {
		return nil, fmt.Errorf("work_start: %w", err)
	}
	end, err := calendar.ParseClock(c.WorkEnd)
	if err != nil {
		return nil, fmt.Errorf("work_end: %w", err)
	}
	return &domain.UserProfile{
		ID:           domain.DefaultProfileID,
		WorkDays:     days,
		WorkStartMin: start,
		WorkEndMin:   end,
		BinMinutes:   c.BinMinutes,
		Timezone:     c.Timezone,
	}, nil
}
