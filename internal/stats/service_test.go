package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/store"
)

func newTestService(t *testing.T, now time.Time) (*Service, store.AttemptRepo) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st.Attempts(), WithClock(func() time.Time { return now })), st.Attempts()
}

func TestServiceSummaryAndDaily(t *testing.T) {
	ctx := context.Background()
	now := day1.AddDate(0, 0, 2)
	svc, repo := newTestService(t, now)

	for _, a := range sample() {
		a := a
		a.Scramble = "R U"
		require.NoError(t, repo.Create(ctx, &a))
	}
	old := attempt(7, 4, ptr(true), nil, nil, day1.AddDate(0, 0, -60))
	old.Scramble = "F"
	require.NoError(t, repo.Create(ctx, &old))

	sum, err := svc.Summary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 7, sum.TotalAttempts)

	windowed, err := svc.Summary(ctx, day1.AddDate(0, 0, 1), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, windowed.TotalAttempts)

	_, err = svc.Summary(ctx, now, day1)
	assert.True(t, apperr.IsValidation(err))

	days, err := svc.Daily(ctx, 0)
	require.NoError(t, err)
	require.Len(t, days, 2, "the 60-day-old attempt is outside the default window")
	assert.Equal(t, "2026-03-15", days[0].Date)

	_, err = svc.Daily(ctx, -1)
	assert.True(t, apperr.IsValidation(err))

	times, err := svc.TimeByDifficulty(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, times, 3)
}

func TestServiceRecentNotes(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, day1)

	notes := []*string{ptr("late pair"), nil, ptr(""), ptr("good")}
	for i, n := range notes {
		a := store.Attempt{Scramble: "R", CrossMoves: 1, Notes: n, CreatedAt: day1.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, &a))
	}

	got, err := svc.RecentNotes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "good", *got[0].Notes)
	assert.Equal(t, "late pair", *got[1].Notes)

	one, err := svc.RecentNotes(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = svc.RecentNotes(ctx, -5)
	assert.True(t, apperr.IsValidation(err))
}
