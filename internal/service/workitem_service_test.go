package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/alexanderramin/laststart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkItemService(t *testing.T) WorkItemService {
	t.Helper()
	r := setupRepos(t)
	return NewWorkItemService(r.workItems, r.uow)
}

func TestWorkItemService_Create(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Read Chapter 1", testutil.WithPlannedMin(60), testutil.WithSeq(0))
	wi.ID = "" // let service assign ID
	require.NoError(t, svc.Create(ctx, wi))

	assert.NotEmpty(t, wi.ID, "service should assign UUID")
	assert.Equal(t, domain.WorkItemTodo, wi.Status)
	assert.Equal(t, 1, wi.Seq, "first item gets seq 1")
}

func TestWorkItemService_Create_AssignsIncreasingSeq(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		wi := testutil.NewTestWorkItem(fmt.Sprintf("Task %d", i), testutil.WithSeq(0))
		require.NoError(t, svc.Create(ctx, wi))
		assert.Equal(t, i, wi.Seq)
	}
}

func TestWorkItemService_Create_DefaultStatus(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Task")
	wi.Status = "" // blank, service should default to 'todo'
	require.NoError(t, svc.Create(ctx, wi))

	fetched, err := svc.GetByID(ctx, wi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemTodo, fetched.Status)
}

func TestWorkItemService_Create_RejectsInvalid(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	due := time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)
	cases := map[string]*domain.WorkItem{
		"blank title":       testutil.NewTestWorkItem("  "),
		"negative planned":  testutil.NewTestWorkItem("Task", testutil.WithPlannedMin(-5)),
		"not before at due": testutil.NewTestWorkItem("Task", testutil.WithDueDate(due), testutil.WithNotBefore(due)),
	}
	for name, wi := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, svc.Create(ctx, wi))
		})
	}

	items, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWorkItemService_Resolve(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Exercises", testutil.WithSeq(0))
	require.NoError(t, svc.Create(ctx, wi))

	for _, ref := range []string{"1", "#1", " #1 ", wi.ID} {
		got, err := svc.Resolve(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, wi.ID, got.ID, ref)
	}

	_, err := svc.Resolve(ctx, "#99")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestWorkItemService_List_ExcludesTerminal(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	open := testutil.NewTestWorkItem("Open")
	done := testutil.NewTestWorkItem("Done", testutil.WithStatus(domain.WorkItemDone))
	require.NoError(t, svc.Create(ctx, open))
	require.NoError(t, svc.Create(ctx, done))

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWorkItemService_MarkDone(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Task")
	require.NoError(t, svc.Create(ctx, wi))

	require.NoError(t, svc.MarkDone(ctx, wi.ID))

	fetched, err := svc.GetByID(ctx, wi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemDone, fetched.Status)
	require.NotNil(t, fetched.CompletedAt)

	require.NoError(t, svc.MarkDone(ctx, wi.ID), "completing twice is a no-op")
}

func TestWorkItemService_MarkDone_Archived(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Task", testutil.WithStatus(domain.WorkItemArchived))
	require.NoError(t, svc.Create(ctx, wi))

	assert.Error(t, svc.MarkDone(ctx, wi.ID))
}

func TestWorkItemService_StartAndReopen(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Task")
	require.NoError(t, svc.Create(ctx, wi))

	require.NoError(t, svc.Start(ctx, wi.ID))
	fetched, err := svc.GetByID(ctx, wi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemInProgress, fetched.Status)

	assert.Error(t, svc.Reopen(ctx, wi.ID), "only done items reopen")

	require.NoError(t, svc.MarkDone(ctx, wi.ID))
	assert.Error(t, svc.Start(ctx, wi.ID), "done items cannot start")

	require.NoError(t, svc.Reopen(ctx, wi.ID))
	fetched, err = svc.GetByID(ctx, wi.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemTodo, fetched.Status)
	assert.Nil(t, fetched.CompletedAt)
}

func TestWorkItemService_Update(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Task")
	require.NoError(t, svc.Create(ctx, wi))

	wi.Title = "Renamed"
	wi.PlannedMin = 120
	require.NoError(t, svc.Update(ctx, wi))

	fetched, err := svc.GetByID(ctx, wi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Title)
	assert.Equal(t, 120, fetched.PlannedMin)
}

func TestWorkItemService_Delete(t *testing.T) {
	svc := setupWorkItemService(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("Task")
	require.NoError(t, svc.Create(ctx, wi))
	require.NoError(t, svc.Delete(ctx, wi.ID))

	_, err := svc.GetByID(ctx, wi.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, wi.ID), repository.ErrNotFound))
}
