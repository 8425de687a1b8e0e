package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/google/uuid"
)

type workItemService struct {
	workItems repository.WorkItemRepo
	uow       db.UnitOfWork
}

func NewWorkItemService(workItems repository.WorkItemRepo, uow db.UnitOfWork) WorkItemService {
	return &workItemService{workItems: workItems, uow: uow}
}

// Create assigns an ID, timestamps, a default status and the next sequence
// number. The sequence is allocated in the same transaction as the insert.
func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Status == "" {
		w.Status = domain.WorkItemTodo
	}
	if err := w.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWorkItems := repository.NewSQLiteWorkItemRepo(tx)
		if w.Seq == 0 {
			seq, err := txWorkItems.NextSeq(ctx)
			if err != nil {
				return err
			}
			w.Seq = seq
		}
		return txWorkItems.Create(ctx, w)
	})
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) Resolve(ctx context.Context, ref string) (*domain.WorkItem, error) {
	ref = strings.TrimSpace(ref)
	if seq, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return s.workItems.GetBySeq(ctx, seq)
	}
	return s.workItems.GetByID(ctx, ref)
}

func (s *workItemService) List(ctx context.Context, includeTerminal bool) ([]*domain.WorkItem, error) {
	return s.workItems.List(ctx, includeTerminal)
}

func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) error {
	if err := w.Validate(); err != nil {
		return err
	}
	w.UpdatedAt = time.Now().UTC()
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) MarkDone(ctx context.Context, id string) error {
	return s.transition(ctx, id, "completing", (*domain.WorkItem).MarkDone)
}

func (s *workItemService) Start(ctx context.Context, id string) error {
	return s.transition(ctx, id, "starting", (*domain.WorkItem).MarkInProgress)
}

func (s *workItemService) Reopen(ctx context.Context, id string) error {
	return s.transition(ctx, id, "reopening", (*domain.WorkItem).Reopen)
}

func (s *workItemService) transition(ctx context.Context, id, verb string, apply func(*domain.WorkItem, time.Time) error) error {
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := apply(w, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s work item: %w", verb, err)
	}
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) Delete(ctx context.Context, id string) error {
	return s.workItems.Delete(ctx, id)
}
