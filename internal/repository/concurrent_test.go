package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createWithNextSeq allocates a seq and inserts the item in one transaction,
// the way the work item service does.
func createWithNextSeq(ctx context.Context, uow db.UnitOfWork, title string, due time.Time) error {
	return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteWorkItemRepo(tx)
		seq, err := repo.NextSeq(ctx)
		if err != nil {
			return err
		}
		return repo.Create(ctx, testutil.NewTestWorkItem(title, testutil.WithSeq(seq), testutil.WithDueDate(due)))
	})
}

// TestConcurrentAccess_ReadDuringWrite runs ListPending readers against a
// writer on a file-backed database, as the watch loop does while CLI
// commands add items.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database, _ := testutil.NewFileTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteWorkItemRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	now := time.Now().UTC()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := createWithNextSeq(ctx, uow, fmt.Sprintf("Item-%d", i), now.Add(time.Duration(i+1)*time.Hour)); err != nil {
				t.Errorf("writer: create work item %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				items, err := repo.ListPending(ctx, now, 0)
				if err != nil {
					t.Errorf("reader %d: list pending: %v", reader, err)
					return
				}
				for _, w := range items {
					if w.ID == "" || w.DueDate == nil {
						t.Errorf("reader %d: got half-populated item", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	items, err := repo.ListPending(ctx, now, 0)
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestConcurrentAccess_NoDuplicateSeq(t *testing.T) {
	database, _ := testutil.NewFileTestDB(t)
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)
	due := time.Now().UTC().Add(24 * time.Hour)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				if err := createWithNextSeq(ctx, uow, fmt.Sprintf("w%d-%d", worker, i), due); err != nil {
					t.Errorf("worker %d: %v", worker, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	all, err := NewSQLiteWorkItemRepo(database).List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 40)

	seen := map[int]bool{}
	for _, w := range all {
		assert.False(t, seen[w.Seq], "seq %d assigned twice", w.Seq)
		seen[w.Seq] = true
	}
}

func TestOpenDB_ReopenKeepsData(t *testing.T) {
	database, path := testutil.NewFileTestDB(t)
	ctx := context.Background()

	wi := testutil.NewTestWorkItem("persisted")
	require.NoError(t, NewSQLiteWorkItemRepo(database).Create(ctx, wi))
	require.NoError(t, database.Close())

	reopened, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := NewSQLiteWorkItemRepo(reopened).GetByID(ctx, wi.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
}
