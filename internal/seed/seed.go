// Package seed populates a realistic demo reader: 45 days of sessions with a
// few misses, a live 12-day streak, and two archived streaks. It exists for
// demos and local development only; nothing in the engines depends on it.
package seed

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

const demoGoal = 25

// Days-ago offsets with no reading at all.
var missedDaysAgo = map[int]bool{14: true, 15: true, 33: true}

var sessionHours = []int{7, 8, 12, 13, 19, 20, 21}

// Seed creates the demo user and their history, returning the generated id.
func Seed(ctx context.Context, store storage.Store, now time.Time) (int64, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	user := &internal.User{
		Name:             "Demo Reader",
		DailyGoalMinutes: demoGoal,
		PreferredTime:    internal.Evening,
		ShieldsAvailable: 2,
		CurrentStreak:    12,
		LongestStreak:    18,
		StreakStartDate:  today.AddDate(0, 0, -11).Format(internal.DateLayout),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return 0, err
	}

	for i := 45; i > 0; i-- {
		if missedDaysAgo[i] {
			continue
		}
		day := today.AddDate(0, 0, -i)

		base := 20 + rand.Float64()*13
		if i <= 12 {
			base = 26 + rand.Float64()*9
		}
		duration := math.Round(math.Max(15, math.Min(35, base))*10) / 10
		if i <= 12 {
			duration = math.Max(demoGoal, duration)
		}

		hour := sessionHours[rand.Intn(len(sessionHours))]
		start := day.Add(time.Duration(hour)*time.Hour + time.Duration(rand.Intn(60))*time.Minute)
		if _, err := store.AppendSession(ctx, user.ID, start, duration, day.Format(internal.DateLayout)); err != nil {
			return 0, err
		}
	}

	past := []internal.StreakHistoryEntry{
		{
			UserID:     user.ID,
			StartDate:  today.AddDate(0, 0, -44).Format(internal.DateLayout),
			EndDate:    today.AddDate(0, 0, -27).Format(internal.DateLayout),
			LengthDays: 18,
		},
		{
			UserID:     user.ID,
			StartDate:  today.AddDate(0, 0, -25).Format(internal.DateLayout),
			EndDate:    today.AddDate(0, 0, -16).Format(internal.DateLayout),
			LengthDays: 10,
		},
	}
	for i := range past {
		if err := store.AddHistoryEntry(ctx, &past[i]); err != nil {
			return 0, err
		}
	}

	return user.ID, nil
}

// Reseed wipes the previous demo user's data and seeds a fresh one.
func Reseed(ctx context.Context, store storage.Store, previousID int64, now time.Time) (int64, error) {
	if previousID != 0 {
		if err := store.ClearUserData(ctx, previousID); err != nil {
			return 0, err
		}
	}
	return Seed(ctx, store, now)
}
