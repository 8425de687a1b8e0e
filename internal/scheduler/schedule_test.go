package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var everyDay = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

// at returns a UTC instant on Wednesday 2025-03-12.
func at(h, m int) time.Time {
	return time.Date(2025, 3, 12, h, m, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func morningCalendar(t *testing.T) *calendar.WorkCalendar {
	t.Helper()
	cal, err := calendar.New(calendar.Config{
		WorkDays:     everyDay,
		WorkStartMin: 8 * 60,
		WorkEndMin:   18 * 60,
		BinMinutes:   5,
	})
	require.NoError(t, err)
	return cal
}

func item(id string, due time.Time, planned int) domain.WorkItem {
	return domain.WorkItem{ID: id, Title: id, Status: domain.WorkItemTodo, DueDate: &due, PlannedMin: planned}
}

func withNotBefore(w domain.WorkItem, nb time.Time) domain.WorkItem {
	w.NotBefore = &nb
	return w
}

func latestStarts(res *Result) map[string]time.Time {
	out := make(map[string]time.Time, len(res.Entries))
	for _, e := range res.Entries {
		out[e.ItemID] = e.LatestStart
	}
	return out
}

func TestSchedule_CompactsEarlierDeadlinesLeft(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{
		item("first", at(8, 55), 25),
		item("second", at(9, 5), 25),
		item("tight", at(8, 35), 10),
	}
	CanonicalSort(items)

	res, err := Schedule(context.Background(), at(0, 0), cal, items, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, res.IsFeasible)
	assert.True(t, res.Complete())
	require.Len(t, res.Entries, 3)

	assert.Equal(t, Entry{ItemID: "tight", LatestStart: at(8, 5), Bins: 2, Needed: 2}, res.Entries[0])
	assert.Equal(t, Entry{ItemID: "first", LatestStart: at(8, 15), Bins: 5, Needed: 5}, res.Entries[1])
	assert.Equal(t, Entry{ItemID: "second", LatestStart: at(8, 40), Bins: 5, Needed: 5}, res.Entries[2])
	assert.Equal(t, 5, res.BinMinutes)
}

func TestSchedule_EarliestStartConflictShiftsOtherItem(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{
		item("tight", at(8, 35), 10),
		withNotBefore(item("first", at(8, 55), 25), at(8, 25)),
		withNotBefore(item("second", at(9, 5), 25), at(8, 25)),
	}
	CanonicalSort(items)

	e, missing := runEngine(t, cal, items)
	res, err := e.assemble(at(0, 0), missing)
	require.NoError(t, err)

	starts := latestStarts(res)
	assert.Equal(t, at(8, 15), starts["tight"], "unconstrained item shifted strictly earlier")
	assert.Equal(t, at(8, 25), starts["first"])
	assert.Equal(t, at(8, 50), starts["second"])

	// Neither constrained item may start before 08:25.
	for s, occ := range e.store.slots {
		if e.items[occ.item].NotBefore != nil {
			assert.False(t, cal.Instant(s).Before(at(8, 25)), "slot %s", cal.Instant(s))
		}
	}

	assert.True(t, res.IsFeasible)
	assert.False(t, res.Complete())
	assert.Equal(t, []Shortfall{{ItemID: "second", MissingBins: 2}}, res.Shortfalls)

	// The pinned run of "first" was proven unmovable.
	for m := 25; m <= 45; m += 5 {
		assert.True(t, e.store.isFinal(cal.SlotOf(at(8, m))), "08:%02d should be final", m)
	}
}

func TestSchedule_NoDeadlinesIsNoSchedulableItems(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{
		{ID: "a", Title: "a", PlannedMin: 30},
		{ID: "b", Title: "b", PlannedMin: 60},
	}

	res, err := Schedule(context.Background(), at(0, 0), cal, items, DefaultOptions())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNoSchedulableItems)

	_, err = Schedule(context.Background(), at(0, 0), cal, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoSchedulableItems)
}

func TestSchedule_EmptyWeekdaysRejectedBeforePlacement(t *testing.T) {
	cal, err := calendar.New(calendar.Config{WorkStartMin: 8 * 60, WorkEndMin: 18 * 60, BinMinutes: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrInvalidConfig)

	_, err = Schedule(context.Background(), at(0, 0), cal, []domain.WorkItem{item("a", at(9, 0), 10)}, DefaultOptions())
	assert.ErrorIs(t, err, calendar.ErrInvalidConfig)
}

func TestSchedule_InfeasibleWhenEarliestStartIsPast(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{item("a", at(9, 0), 30)}

	res, err := Schedule(context.Background(), at(8, 40), cal, items, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, at(8, 30), res.Entries[0].LatestStart)
	assert.False(t, res.IsFeasible)
}

func TestSchedule_OneSlotTolerance(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{item("a", at(9, 0), 30)}

	// Latest start 08:30; now inside that slot is still feasible.
	res, err := Schedule(context.Background(), at(8, 34), cal, items, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.IsFeasible)

	res, err = Schedule(context.Background(), at(8, 35), cal, items, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.IsFeasible, "boundary is inclusive")

	res, err = Schedule(context.Background(), at(8, 36), cal, items, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.IsFeasible)
}

func TestSchedule_SkipsNonWorkTime(t *testing.T) {
	cal, err := calendar.New(calendar.Config{
		WorkDays:     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		WorkStartMin: 9 * 60,
		WorkEndMin:   17 * 60,
		BinMinutes:   30,
	})
	require.NoError(t, err)

	// Due Monday 10:00 with three hours of work: one hour Monday, two on Friday.
	due := time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC)
	res, err := Schedule(context.Background(), due.AddDate(0, 0, -7), cal,
		[]domain.WorkItem{item("report", due, 180)}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC), res.Entries[0].LatestStart)
	assert.Equal(t, 6, res.Entries[0].Bins)
}

func TestSchedule_LookbackLimitRecordsShortfall(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{item("a", at(12, 0), 50)}

	res, err := Schedule(context.Background(), at(0, 0), cal, items, Options{MaxLookback: 20 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, at(11, 40), res.Entries[0].LatestStart)
	assert.Equal(t, []Shortfall{{ItemID: "a", MissingBins: 6}}, res.Shortfalls)
}

func TestSchedule_NotBeforeAfterDeadlineWindowPlacesNothing(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{
		withNotBefore(item("late-start", at(9, 0), 20), at(8, 58)),
		item("other", at(10, 0), 10),
	}
	CanonicalSort(items)

	res, err := Schedule(context.Background(), at(0, 0), cal, items, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "other", res.Entries[0].ItemID)
	assert.Equal(t, []Shortfall{{ItemID: "late-start", MissingBins: 4}}, res.Shortfalls)
}

func TestSchedule_CapsItemCount(t *testing.T) {
	cal := morningCalendar(t)
	var items []domain.WorkItem
	for i := 0; i < 5; i++ {
		items = append(items, item(string(rune('a'+i)), at(10+i, 0), 10))
	}

	res, err := Schedule(context.Background(), at(0, 0), cal, items, Options{MaxItems: 3})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 3)
	for _, e := range res.Entries {
		assert.Contains(t, []string{"a", "b", "c"}, e.ItemID)
	}
}

func TestSchedule_CancelledBeforeStart(t *testing.T) {
	cal := morningCalendar(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Schedule(ctx, at(0, 0), cal, []domain.WorkItem{item("a", at(9, 0), 10)}, DefaultOptions())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSchedule_DeadlineExceededIsCancelled(t *testing.T) {
	cal := morningCalendar(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := Schedule(ctx, at(0, 0), cal, []domain.WorkItem{item("a", at(9, 0), 10)}, DefaultOptions())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSchedule_IdempotentRerun(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{
		item("tight", at(8, 35), 10),
		withNotBefore(item("first", at(8, 55), 25), at(8, 25)),
		item("second", at(9, 5), 25),
		item("third", at(9, 5), 40),
	}
	CanonicalSort(items)

	first, err := Schedule(context.Background(), at(7, 0), cal, items, DefaultOptions())
	require.NoError(t, err)
	second, err := Schedule(context.Background(), at(7, 0), cal, items, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// cancelAfterCtx reports Canceled once Err has been consulted more than
// allowed times.
type cancelAfterCtx struct {
	context.Context
	allowed int
	calls   int
}

func (c *cancelAfterCtx) Err() error {
	c.calls++
	if c.calls > c.allowed {
		return context.Canceled
	}
	return nil
}

func TestSchedule_CancelledBetweenItemsDiscardsPlacement(t *testing.T) {
	cal := morningCalendar(t)
	items := []domain.WorkItem{
		item("a", at(9, 0), 10),
		item("b", at(10, 0), 10),
	}
	// One check before the loop and one before the first item pass.
	ctx := &cancelAfterCtx{Context: context.Background(), allowed: 2}

	res, err := Schedule(ctx, at(7, 0), cal, items, DefaultOptions())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, ctx.calls, "cancellation must be noticed before the second item")
}

func TestSchedule_NeverPlacesIntoSkippedWallClockHour(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	cal, err := calendar.New(calendar.Config{
		WorkDays:     everyDay,
		WorkStartMin: 0,
		WorkEndMin:   24 * 60,
		BinMinutes:   30,
		Location:     ny,
	})
	require.NoError(t, err)

	// 02:00-03:00 does not exist on 2025-03-09; two hours due 04:00 start at 01:00.
	due := time.Date(2025, 3, 9, 4, 0, 0, 0, ny)
	res, err := Schedule(context.Background(), due.Add(-24*time.Hour), cal,
		[]domain.WorkItem{item("report", due, 120)}, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	assert.True(t, res.Entries[0].LatestStart.Equal(time.Date(2025, 3, 9, 1, 0, 0, 0, ny)),
		"got %s", res.Entries[0].LatestStart)
	assert.Equal(t, 4, res.Entries[0].Bins)
	assert.Empty(t, res.Shortfalls)
}
