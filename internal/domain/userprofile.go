package domain

import "time"

// UserProfile holds the user's working calendar preferences.
type UserProfile struct {
	ID           string
	WorkDays     []time.Weekday
	WorkStartMin int // minutes since midnight
	WorkEndMin   int // minutes since midnight, exclusive
	BinMinutes   int
	Timezone     string // IANA name
}

// DefaultProfileID is the single profile row every installation owns.
const DefaultProfileID = "default"

// LoadLocation resolves Timezone, defaulting to UTC.
func (p *UserProfile) LoadLocation() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(p.Timezone)
}
