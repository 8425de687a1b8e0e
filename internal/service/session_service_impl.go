package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSessionService(sessions repository.SessionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SessionService {
	return &sessionService{sessions: sessions, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// LogSession stores s and adds its minutes to the work item in one
// transaction, which shrinks the item's remaining effort.
func (s *sessionService) LogSession(ctx context.Context, session *domain.WorkSessionLog) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"work_item_id": session.WorkItemID,
		"minutes":      session.Minutes,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "log-session",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = startedAt
	if session.StartedAt.IsZero() {
		session.StartedAt = startedAt.Add(-time.Duration(session.Minutes) * time.Minute)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)

		wi, err := txWorkItems.GetByID(ctx, session.WorkItemID)
		if err != nil {
			return err
		}
		if err := wi.ApplySession(session.Minutes, time.Now().UTC()); err != nil {
			return err
		}
		if err := txWorkItems.Update(ctx, wi); err != nil {
			return err
		}
		fields["remaining_min"] = wi.RemainingMin()

		return txSessions.Create(ctx, session)
	})
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*domain.WorkSessionLog, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *sessionService) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.WorkSessionLog, error) {
	return s.sessions.ListByWorkItem(ctx, workItemID)
}

func (s *sessionService) ListRecent(ctx context.Context, days int) ([]*domain.WorkSessionLog, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.sessions.ListSince(ctx, since)
}

// Delete removes a session and gives its minutes back to the work item.
func (s *sessionService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)

		session, err := txSessions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		wi, err := txWorkItems.GetByID(ctx, session.WorkItemID)
		if err != nil {
			return err
		}
		wi.LoggedMin -= session.Minutes
		if wi.LoggedMin < 0 {
			wi.LoggedMin = 0
		}
		wi.UpdatedAt = time.Now().UTC()
		if err := txWorkItems.Update(ctx, wi); err != nil {
			return err
		}
		return txSessions.Delete(ctx, id)
	})
}
