package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/laststart/internal/app"
	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/alexanderramin/laststart/internal/scheduler"
	"github.com/alexanderramin/laststart/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}

type latestStartFixture struct {
	svc       LatestStartService
	workItems repository.WorkItemRepo
	profiles  repository.UserProfileRepo
	observer  *recordingObserver
}

// Wednesday 2025-03-12, 10:00 UTC, inside the default 09:00-17:00 window.
var planNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func setupLatestStart(t *testing.T) latestStartFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	workItems := repository.NewSQLiteWorkItemRepo(database)
	profiles := repository.NewSQLiteUserProfileRepo(database)
	calendars := NewCalendarService(profiles, *testutil.NewTestProfile())
	obs := &recordingObserver{}
	return latestStartFixture{
		svc:       NewLatestStartService(workItems, calendars, scheduler.DefaultOptions(), obs),
		workItems: workItems,
		profiles:  profiles,
		observer:  obs,
	}
}

func (f latestStartFixture) add(t *testing.T, w *domain.WorkItem) *domain.WorkItem {
	t.Helper()
	require.NoError(t, f.workItems.Create(context.Background(), w))
	return w
}

func planAt(now time.Time) app.LatestStartRequest {
	req := app.NewLatestStartRequest()
	req.Now = &now
	return req
}

func TestLatestStart_PlacesItemsBackFromDeadline(t *testing.T) {
	f := setupLatestStart(t)
	due := time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)
	a := f.add(t, testutil.NewTestWorkItem("Write report", testutil.WithDueDate(due), testutil.WithPlannedMin(60)))
	b := f.add(t, testutil.NewTestWorkItem("Review slides", testutil.WithDueDate(due), testutil.WithPlannedMin(30)))

	resp, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.NoError(t, err)

	assert.True(t, resp.IsFeasible)
	assert.True(t, resp.Complete())
	assert.Equal(t, 15, resp.BinMinutes)
	require.Len(t, resp.Entries, 2)

	assert.Equal(t, b.ID, resp.Entries[0].WorkItemID)
	assert.Equal(t, "Review slides", resp.Entries[0].Title)
	assert.Equal(t, b.Seq, resp.Entries[0].Seq)
	assert.Equal(t, time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC), resp.Entries[0].LatestStart.UTC())
	assert.Equal(t, 30, resp.Entries[0].AllocatedMin)

	assert.Equal(t, a.ID, resp.Entries[1].WorkItemID)
	assert.Equal(t, time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC), resp.Entries[1].LatestStart.UTC())
	assert.Equal(t, 60, resp.Entries[1].AllocatedMin)
	assert.Equal(t, 60, resp.Entries[1].NeededMin)
	assert.True(t, resp.Entries[1].DueDate.Equal(due))
	assert.Empty(t, resp.Warnings)
}

func TestLatestStart_IgnoresItemsOutsidePlanning(t *testing.T) {
	f := setupLatestStart(t)
	due := time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)
	kept := f.add(t, testutil.NewTestWorkItem("Kept", testutil.WithDueDate(due)))
	f.add(t, testutil.NewTestWorkItem("Done", testutil.WithDueDate(due), testutil.WithStatus(domain.WorkItemDone)))
	f.add(t, testutil.NewTestWorkItem("Overdue", testutil.WithDueDate(planNow.Add(-time.Hour))))
	f.add(t, testutil.NewTestWorkItem("Undated"))
	f.add(t, testutil.NewTestWorkItem("Finished effort", testutil.WithDueDate(due), testutil.WithLoggedMin(60)))

	resp, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, kept.ID, resp.Entries[0].WorkItemID)
}

func TestLatestStart_ReportsShortfallAndInfeasibility(t *testing.T) {
	f := setupLatestStart(t)
	item := f.add(t, testutil.NewTestWorkItem("Migration",
		testutil.WithNotBefore(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)),
		testutil.WithDueDate(time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)),
		testutil.WithPlannedMin(600),
	))

	resp, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.NoError(t, err)

	assert.False(t, resp.IsFeasible)
	require.Len(t, resp.Shortfalls, 1)
	assert.Equal(t, item.ID, resp.Shortfalls[0].WorkItemID)
	assert.Equal(t, 60, resp.Shortfalls[0].MissingMin)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 540, resp.Entries[0].AllocatedMin)
	assert.Equal(t, 600, resp.Entries[0].NeededMin)
	assert.Equal(t, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), resp.Entries[0].LatestStart.UTC())
	assert.Len(t, resp.Warnings, 2)
}

func TestLatestStart_LimitCapsItems(t *testing.T) {
	f := setupLatestStart(t)
	for i := 0; i < 3; i++ {
		due := time.Date(2025, 3, 17+i, 17, 0, 0, 0, time.UTC)
		f.add(t, testutil.NewTestWorkItem("Task", testutil.WithDueDate(due)))
	}

	req := planAt(planNow)
	req.Limit = 2
	resp, err := f.svc.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "2 most urgent")
}

func TestLatestStart_NoSchedulableItems(t *testing.T) {
	f := setupLatestStart(t)
	f.add(t, testutil.NewTestWorkItem("Undated"))

	_, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.Error(t, err)
	assert.Equal(t, app.LatestStartErrNoSchedulableItems, app.LatestStartCode(err))
	assert.True(t, errors.Is(err, scheduler.ErrNoSchedulableItems))
	assert.False(t, f.observer.last(t).Success)
}

func TestLatestStart_CancelledBeforeFetch(t *testing.T) {
	f := setupLatestStart(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Compute(ctx, planAt(planNow))
	require.Error(t, err)
	assert.Equal(t, app.LatestStartErrCancelled, app.LatestStartCode(err))
	assert.True(t, errors.Is(err, scheduler.ErrCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "before loading work items")
}

// cancelOnListPending cancels the run's context once pending items are loaded.
type cancelOnListPending struct {
	repository.WorkItemRepo
	cancel  context.CancelFunc
	fetched int
}

func (r *cancelOnListPending) ListPending(ctx context.Context, now time.Time, limit int) ([]domain.WorkItem, error) {
	items, err := r.WorkItemRepo.ListPending(ctx, now, limit)
	r.fetched = len(items)
	r.cancel()
	return items, err
}

func TestLatestStart_CancelledWhileFetching(t *testing.T) {
	f := setupLatestStart(t)
	f.add(t, testutil.NewTestWorkItem("Task", testutil.WithDueDate(planNow.Add(48*time.Hour))))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := &cancelOnListPending{WorkItemRepo: f.workItems, cancel: cancel}
	calendars := NewCalendarService(f.profiles, *testutil.NewTestProfile())
	svc := NewLatestStartService(repo, calendars, scheduler.DefaultOptions(), f.observer)

	resp, err := svc.Compute(ctx, planAt(planNow))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 1, repo.fetched)
	assert.Equal(t, app.LatestStartErrCancelled, app.LatestStartCode(err))
	assert.True(t, errors.Is(err, scheduler.ErrCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "after loading work items")
	assert.False(t, f.observer.last(t).Success)
}

func TestLatestStart_InvalidStoredCalendar(t *testing.T) {
	f := setupLatestStart(t)
	require.NoError(t, f.profiles.Upsert(context.Background(), testutil.NewTestProfile(testutil.WithBinMinutes(7))))
	f.add(t, testutil.NewTestWorkItem("Task", testutil.WithDueDate(planNow.Add(48*time.Hour))))

	_, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.Error(t, err)
	assert.Equal(t, app.LatestStartErrInvalidCalendar, app.LatestStartCode(err))
}

func TestLatestStart_ObserverFields(t *testing.T) {
	f := setupLatestStart(t)
	f.add(t, testutil.NewTestWorkItem("Task", testutil.WithDueDate(planNow.Add(48*time.Hour))))

	_, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.NoError(t, err)

	ev := f.observer.last(t)
	assert.Equal(t, "latest-start", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Fields["items"])
	assert.Equal(t, 1, ev.Fields["entries"])
	assert.Equal(t, 0, ev.Fields["shortfalls"])
	assert.Equal(t, true, ev.Fields["feasible"])
}

func TestLatestStart_IdempotentForSameNow(t *testing.T) {
	f := setupLatestStart(t)
	for i := 0; i < 4; i++ {
		f.add(t, testutil.NewTestWorkItem("Task",
			testutil.WithDueDate(time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC)),
			testutil.WithPlannedMin(90)))
	}

	first, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.NoError(t, err)
	second, err := f.svc.Compute(context.Background(), planAt(planNow))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
