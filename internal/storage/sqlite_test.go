package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	s, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), internal.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_UserRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.LatestUserID(ctx)
	assert.ErrorIs(t, err, internal.ErrNotFound)

	u := &internal.User{Name: "Reader", DailyGoalMinutes: 20, PreferredTime: internal.Morning}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	id, err := s.LatestUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reader", got.Name)
	assert.Equal(t, internal.Morning, got.PreferredTime)
	assert.Empty(t, got.StreakStartDate)

	_, err = s.GetUser(ctx, u.ID+1)
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestSQLite_UpdateStreakKeepsLongest(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &internal.User{Name: "Reader", DailyGoalMinutes: 20}
	require.NoError(t, s.CreateUser(ctx, u))

	require.NoError(t, s.UpdateStreak(ctx, u.ID, 9, 9, "2026-08-20"))
	require.NoError(t, s.UpdateStreak(ctx, u.ID, 2, 2, "2026-08-27"))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak, "longest_streak never decreases")
	assert.Equal(t, "2026-08-27", got.StreakStartDate)
}

func TestSQLite_DailyTotalsGroupByDate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &internal.User{Name: "Reader", DailyGoalMinutes: 20}
	require.NoError(t, s.CreateUser(ctx, u))

	start := time.Date(2026, 8, 27, 19, 0, 0, 0, time.UTC)
	_, err := s.AppendSession(ctx, u.ID, start, 10.5, "2026-08-27")
	require.NoError(t, err)
	_, err = s.AppendSession(ctx, u.ID, start.Add(2*time.Hour), 9.5, "2026-08-27")
	require.NoError(t, err)
	_, err = s.AppendSession(ctx, u.ID, start.AddDate(0, 0, -3), 30, "2026-08-24")
	require.NoError(t, err)

	totals, err := s.DailyTotals(ctx, u.ID, "")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.InDelta(t, 20.0, totals["2026-08-27"], 0.001)
	assert.InDelta(t, 30.0, totals["2026-08-24"], 0.001)

	totals, err = s.DailyTotals(ctx, u.ID, "2026-08-26")
	require.NoError(t, err)
	require.Len(t, totals, 1)

	day, err := s.DayTotal(ctx, u.ID, "2026-08-27")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, day, 0.001)

	day, err = s.DayTotal(ctx, u.ID, "2026-01-01")
	require.NoError(t, err)
	assert.Zero(t, day)
}

func TestSQLite_AdjustmentLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &internal.User{Name: "Reader", DailyGoalMinutes: 20}
	require.NoError(t, s.CreateUser(ctx, u))

	_, err := s.PendingAdjustment(ctx, u.ID)
	assert.ErrorIs(t, err, internal.ErrNotFound)

	adj := &internal.GoalAdjustment{UserID: u.ID, OldGoal: 20, NewGoal: 25, Reason: "strong fortnight"}
	require.NoError(t, s.CreateAdjustment(ctx, adj))
	require.NotZero(t, adj.ID)

	pending, err := s.PendingAdjustment(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, adj.ID, pending.ID)
	assert.True(t, pending.Pending())

	require.NoError(t, s.MarkAccepted(ctx, adj.ID))
	_, err = s.PendingAdjustment(ctx, u.ID)
	assert.ErrorIs(t, err, internal.ErrNotFound)

	got, err := s.GetAdjustment(ctx, adj.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Accepted)
	assert.False(t, got.Dismissed)

	_, err = s.GetAdjustment(ctx, adj.ID, u.ID+1)
	assert.ErrorIs(t, err, internal.ErrNotFound, "adjustments are scoped to their user")
}

func TestSQLite_SessionAggregates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &internal.User{Name: "Reader", DailyGoalMinutes: 20}
	require.NoError(t, s.CreateUser(ctx, u))

	start := time.Date(2026, 8, 27, 19, 0, 0, 0, time.UTC)
	for i, minutes := range []float64{20, 35, 15} {
		_, err := s.AppendSession(ctx, u.ID, start.AddDate(0, 0, -i), minutes, start.AddDate(0, 0, -i).Format(internal.DateLayout))
		require.NoError(t, err)
	}

	agg, err := s.SessionAggregates(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.TotalSessions)
	assert.InDelta(t, 70.0, agg.TotalMinutes, 0.001)
	assert.InDelta(t, 35.0, agg.LongestSession, 0.001)

	best, err := s.BestWeekMinutes(ctx, u.ID)
	require.NoError(t, err)
	assert.Greater(t, best, 0.0)
}

func TestSQLite_ClearUserData(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &internal.User{Name: "Reader", DailyGoalMinutes: 20}
	require.NoError(t, s.CreateUser(ctx, u))
	_, err := s.AppendSession(ctx, u.ID, time.Now(), 20, "2026-08-27")
	require.NoError(t, err)
	require.NoError(t, s.AddHistoryEntry(ctx, &internal.StreakHistoryEntry{
		UserID: u.ID, StartDate: "2026-08-01", EndDate: "2026-08-05", LengthDays: 5,
	}))

	require.NoError(t, s.ClearUserData(ctx, u.ID))

	_, err = s.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, internal.ErrNotFound)
	sessions, err := s.ListSessions(ctx, u.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
