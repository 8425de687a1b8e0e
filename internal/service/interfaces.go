package service

import (
	"context"

	"github.com/alexanderramin/laststart/internal/app"
	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
)

type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	// Resolve accepts a sequence number ("3" or "#3") or a full ID.
	Resolve(ctx context.Context, ref string) (*domain.WorkItem, error)
	List(ctx context.Context, includeTerminal bool) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	MarkDone(ctx context.Context, id string) error
	// Start moves a todo item to in_progress.
	Start(ctx context.Context, id string) error
	// Reopen moves a done item back to todo so it is planned again.
	Reopen(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SessionService interface {
	LogSession(ctx context.Context, s *domain.WorkSessionLog) error
	GetByID(ctx context.Context, id string) (*domain.WorkSessionLog, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.WorkSessionLog, error)
	ListRecent(ctx context.Context, days int) ([]*domain.WorkSessionLog, error)
	Delete(ctx context.Context, id string) error
}

type CalendarService interface {
	// Get returns the stored profile, seeding it from the configured
	// defaults on first use.
	Get(ctx context.Context) (*domain.UserProfile, error)
	Set(ctx context.Context, p *domain.UserProfile) error
	Calendar(ctx context.Context) (*calendar.WorkCalendar, error)
}

type LatestStartService interface {
	app.LatestStartUseCase
}
