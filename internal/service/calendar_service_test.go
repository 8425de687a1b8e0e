package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/laststart/internal/calendar"
	"github.com/alexanderramin/laststart/internal/repository"
	"github.com/alexanderramin/laststart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarService_GetSeedsDefaults(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	defaults := testutil.NewTestProfile(testutil.WithWorkDays(time.Saturday), testutil.WithTimezone("Europe/Paris"))
	svc := NewCalendarService(r.profiles, *defaults)

	_, err := r.profiles.Get(ctx)
	require.True(t, errors.Is(err, repository.ErrNotFound))

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Saturday}, p.WorkDays)

	stored, err := r.profiles.Get(ctx)
	require.NoError(t, err, "defaults should be persisted on first read")
	assert.Equal(t, "Europe/Paris", stored.Timezone)
}

func TestCalendarService_StoredProfileWins(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, r.profiles.Upsert(ctx, testutil.NewTestProfile(testutil.WithBinMinutes(30))))

	svc := NewCalendarService(r.profiles, *testutil.NewTestProfile())
	cal, err := svc.Calendar(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, cal.BinMinutes())
}

func TestCalendarService_SetValidates(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewCalendarService(r.profiles, *testutil.NewTestProfile())

	bad := testutil.NewTestProfile(testutil.WithWorkWindow(17*60, 9*60))
	err := svc.Set(ctx, bad)
	assert.True(t, errors.Is(err, calendar.ErrInvalidConfig))

	badZone := testutil.NewTestProfile(testutil.WithTimezone("Nowhere/Land"))
	err = svc.Set(ctx, badZone)
	assert.True(t, errors.Is(err, calendar.ErrInvalidConfig))

	good := testutil.NewTestProfile(testutil.WithWorkWindow(8*60, 12*60))
	require.NoError(t, svc.Set(ctx, good))
	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8*60, p.WorkStartMin)
	assert.Equal(t, 12*60, p.WorkEndMin)
}

func TestBuildCalendar_UsesProfileZone(t *testing.T) {
	p := testutil.NewTestProfile(testutil.WithTimezone("America/New_York"))

	cal, err := BuildCalendar(p)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cal.Location().String())
}
