package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/service"
)

func TestHeatmap_ThirtyDaysWithGaps(t *testing.T) {
	store := newTestStore(t)
	u := newTestUser(t, store, 20, 0)
	now := time.Now()

	logDay(t, store, u.ID, now, 0, 25)
	logDay(t, store, u.ID, now, 3, 10)

	days, err := service.Heatmap(context.Background(), store, store, u.ID, now)
	require.NoError(t, err)
	require.Len(t, days, 30)

	today := days[29]
	assert.Equal(t, now.Format(internal.DateLayout), today.Date)
	assert.True(t, today.Completed)

	assert.False(t, days[26].Completed, "10 minutes is under goal")
	assert.InDelta(t, 10.0, days[26].Minutes, 0.01)

	assert.Zero(t, days[10].Minutes, "absent days fill in as zero")
	assert.False(t, days[10].Completed)
}

func TestComputeStats(t *testing.T) {
	store := newTestStore(t)
	u := newTestUser(t, store, 20, 0)
	now := time.Now()
	ctx := context.Background()

	logDay(t, store, u.ID, now, 0, 30)
	logDay(t, store, u.ID, now, 1, 18)
	logDay(t, store, u.ID, now, 12, 12)

	require.NoError(t, store.AddHistoryEntry(ctx, &internal.StreakHistoryEntry{
		UserID:     u.ID,
		StartDate:  now.AddDate(0, 0, -40).Format(internal.DateLayout),
		EndDate:    now.AddDate(0, 0, -33).Format(internal.DateLayout),
		LengthDays: 8,
	}))

	stats, err := service.ComputeStats(ctx, store, u.ID, now)
	require.NoError(t, err)

	require.Len(t, stats.Weekly, 7)
	assert.InDelta(t, 30.0, stats.Weekly[6].Minutes, 0.01, "weekly is oldest-first, ending today")
	assert.InDelta(t, 18.0, stats.Weekly[5].Minutes, 0.01)

	require.Len(t, stats.Monthly, 4)
	assert.InDelta(t, 48.0, stats.Monthly[3].Minutes, 0.01, "current week bucket")

	assert.Equal(t, 3, stats.TotalSessions)
	assert.InDelta(t, 1.0, stats.TotalHours, 0.01)
	assert.InDelta(t, 20.0, stats.AvgSession, 0.01)
	assert.InDelta(t, 30.0, stats.LongestSession, 0.01)
	// Today and yesterday may straddle a calendar-week boundary, so only the
	// single-day floor is guaranteed.
	assert.GreaterOrEqual(t, stats.BestWeekMinutes, 30.0)

	require.Len(t, stats.StreakHistory, 1)
	assert.Equal(t, 8, stats.StreakHistory[0].LengthDays)
}
