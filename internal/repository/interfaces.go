package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/laststart/internal/domain"
)

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	GetBySeq(ctx context.Context, seq int) (*domain.WorkItem, error)
	List(ctx context.Context, includeTerminal bool) ([]*domain.WorkItem, error)
	// ListPending returns non-terminal items due after now with effort left,
	// in scheduling order. limit <= 0 means no limit.
	ListPending(ctx context.Context, now time.Time, limit int) ([]domain.WorkItem, error)
	NextSeq(ctx context.Context) (int, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.WorkSessionLog) error
	GetByID(ctx context.Context, id string) (*domain.WorkSessionLog, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.WorkSessionLog, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.WorkSessionLog, error)
	Delete(ctx context.Context, id string) error
}

type UserProfileRepo interface {
	Get(ctx context.Context) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}
