package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), internal.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store storage.Store, goal, shields int) *internal.User {
	t.Helper()
	u := &internal.User{
		Name:             "Test Reader",
		DailyGoalMinutes: goal,
		PreferredTime:    internal.Evening,
		ShieldsAvailable: shields,
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

// logDay records one session of the given minutes on the calendar day daysAgo
// days before now.
func logDay(t *testing.T, store storage.Store, userID int64, now time.Time, daysAgo int, minutes float64) {
	t.Helper()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -daysAgo)
	start := day.Add(19 * time.Hour)
	_, err := store.AppendSession(context.Background(), userID, start, minutes, day.Format(internal.DateLayout))
	require.NoError(t, err)
}
