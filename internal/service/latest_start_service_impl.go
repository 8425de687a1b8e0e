package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/app"
	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/alexanderramin/laststart/internal/scheduler"
)

const useCaseLatestStart = "latest-start"

type latestStartService struct {
	workItems repository.WorkItemRepo
	calendars CalendarService
	opts      scheduler.Options
	observer  UseCaseObserver
}

func NewLatestStartService(
	workItems repository.WorkItemRepo,
	calendars CalendarService,
	opts scheduler.Options,
	observers ...UseCaseObserver,
) LatestStartService {
	if opts.MaxItems <= 0 {
		opts.MaxItems = scheduler.DefaultMaxItems
	}
	return &latestStartService{
		workItems: workItems,
		calendars: calendars,
		opts:      opts,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Compute loads the pending items and places them backwards from their
// deadlines. Cancellation is checked before and after loading; Schedule
// checks it once per item.
func (s *latestStartService) Compute(ctx context.Context, req app.LatestStartRequest) (resp *app.LatestStartResponse, err error) {
	startedAt := time.Now().UTC()
	now := startedAt
	if req.Now != nil {
		now = *req.Now
	}
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      useCaseLatestStart,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = ctx.Err(); err != nil {
		return nil, mapLatestStartError(fmt.Errorf("%w before loading work items: %w", scheduler.ErrCancelled, err))
	}

	var cal *calendar.WorkCalendar
	cal, err = s.calendars.Calendar(ctx)
	if err != nil {
		return nil, mapLatestStartError(err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.MaxItems
	}
	var items []domain.WorkItem
	// One extra row tells whether the cap dropped anything.
	items, err = s.workItems.ListPending(ctx, now, limit+1)
	if err != nil {
		return nil, fmt.Errorf("loading pending work items: %w", err)
	}
	truncated := len(items) > limit
	if truncated {
		items = items[:limit]
	}
	fields["items"] = len(items)

	if err = ctx.Err(); err != nil {
		return nil, mapLatestStartError(fmt.Errorf("%w after loading work items: %w", scheduler.ErrCancelled, err))
	}

	scheduler.CanonicalSort(items)
	opts := s.opts
	opts.MaxItems = limit

	var res *scheduler.Result
	res, err = scheduler.Schedule(ctx, now, cal, items, opts)
	if err != nil {
		return nil, mapLatestStartError(err)
	}

	resp = buildLatestStartResponse(now, res, items)
	if truncated {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("only the %d most urgent items were planned", limit))
	}
	fields["entries"] = len(resp.Entries)
	fields["shortfalls"] = len(resp.Shortfalls)
	fields["feasible"] = resp.IsFeasible
	return resp, nil
}

func buildLatestStartResponse(now time.Time, res *scheduler.Result, items []domain.WorkItem) *app.LatestStartResponse {
	byID := make(map[string]*domain.WorkItem, len(items))
	for i := range items {
		if _, ok := byID[items[i].ID]; !ok {
			byID[items[i].ID] = &items[i]
		}
	}

	resp := &app.LatestStartResponse{
		GeneratedAt: now,
		IsFeasible:  res.IsFeasible,
		BinMinutes:  res.BinMinutes,
		Entries:     make([]app.LatestStartEntry, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		entry := app.LatestStartEntry{
			WorkItemID:   e.ItemID,
			LatestStart:  e.LatestStart,
			AllocatedMin: e.Bins * res.BinMinutes,
			NeededMin:    e.Needed * res.BinMinutes,
		}
		if w, ok := byID[e.ItemID]; ok {
			entry.Seq = w.Seq
			entry.Title = w.Title
			entry.DueDate = *w.DueDate
		}
		resp.Entries = append(resp.Entries, entry)
	}
	for _, sf := range res.Shortfalls {
		short := app.LatestStartShortfall{
			WorkItemID: sf.ItemID,
			MissingMin: sf.MissingBins * res.BinMinutes,
		}
		if w, ok := byID[sf.ItemID]; ok {
			short.Seq = w.Seq
			short.Title = w.Title
		}
		resp.Shortfalls = append(resp.Shortfalls, short)
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("#%d %s is short %d min of work time before its deadline", short.Seq, short.Title, short.MissingMin))
	}
	if !resp.IsFeasible {
		resp.Warnings = append(resp.Warnings, "the earliest latest start is already in the past")
	}
	return resp
}

func mapLatestStartError(err error) error {
	switch {
	case errors.Is(err, calendar.ErrInvalidConfig):
		return &app.LatestStartError{Code: app.LatestStartErrInvalidCalendar, Message: err.Error(), Err: err}
	case errors.Is(err, scheduler.ErrNoSchedulableItems):
		return &app.LatestStartError{Code: app.LatestStartErrNoSchedulableItems, Message: "no pending item has a future deadline and remaining effort", Err: err}
	case errors.Is(err, scheduler.ErrCancelled):
		return &app.LatestStartError{Code: app.LatestStartErrCancelled, Message: err.Error(), Err: err}
	case errors.Is(err, scheduler.ErrInternal):
		return &app.LatestStartError{Code: app.LatestStartErrInternal, Message: err.Error(), Err: err}
	}
	return err
}
