package service

import (
	"testing"

	"github.com/alexanderramin/laststart/internal/db"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/alexanderramin/laststart/internal/testutil"
)

type testRepos struct {
	workItems repository.WorkItemRepo
	sessions  repository.SessionRepo
	profiles  repository.UserProfileRepo
	uow       db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		workItems: repository.NewSQLiteWorkItemRepo(database),
		sessions:  repository.NewSQLiteSessionRepo(database),
		profiles:  repository.NewSQLiteUserProfileRepo(database),
		uow:       testutil.NewTestUoW(database),
	}
}
