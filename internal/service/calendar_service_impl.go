package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/alexanderramin/laststart/internal/repository"
)

type calendarService struct {
	profiles repository.UserProfileRepo
	defaults domain.UserProfile
}

// NewCalendarService serves the user's work calendar. defaults is stored the
// first time the profile is read from an empty database.
func NewCalendarService(profiles repository.UserProfileRepo, defaults domain.UserProfile) CalendarService {
	defaults.ID = domain.DefaultProfileID
	return &calendarService{profiles: profiles, defaults: defaults}
}

func (s *calendarService) Get(ctx context.Context) (*domain.UserProfile, error) {
	p, err := s.profiles.Get(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	seed := s.defaults
	seed.WorkDays = append([]time.Weekday(nil), s.defaults.WorkDays...)
	if err := s.Set(ctx, &seed); err != nil {
		return nil, fmt.Errorf("seeding profile: %w", err)
	}
	return &seed, nil
}

// Set validates p by building a calendar from it before storing it.
func (s *calendarService) Set(ctx context.Context, p *domain.UserProfile) error {
	p.ID = domain.DefaultProfileID
	if _, err := BuildCalendar(p); err != nil {
		return err
	}
	return s.profiles.Upsert(ctx, p)
}

func (s *calendarService) Calendar(ctx context.Context) (*calendar.WorkCalendar, error) {
	p, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCalendar(p)
}

// BuildCalendar turns stored preferences into a work calendar. An unknown
// time zone is reported as an invalid calendar.
func BuildCalendar(p *domain.UserProfile) (*calendar.WorkCalendar, error) {
	loc, err := p.LoadLocation()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", calendar.ErrInvalidConfig, err)
	}
	return calendar.New(calendar.Config{
		WorkDays:     p.WorkDays,
		WorkStartMin: p.WorkStartMin,
		WorkEndMin:   p.WorkEndMin,
		BinMinutes:   p.BinMinutes,
		Location:     loc,
	})
}
