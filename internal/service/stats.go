package service

import (
	"context"
	"math"
	"time"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

type HeatmapDay struct {
	Date      string  `json:"date"`
	Minutes   float64 `json:"minutes"`
	Completed bool    `json:"completed"`
}

// Heatmap returns the trailing 30 days, oldest first, with absent days filled
// in as zero.
func Heatmap(ctx context.Context, users storage.UserRepository, sessions storage.SessionRepository, userID int64, now time.Time) ([]HeatmapDay, error) {
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := midnight(now).AddDate(0, 0, -29)
	totals, err := sessions.DailyTotals(ctx, userID, start.Format(internal.DateLayout))
	if err != nil {
		return nil, err
	}

	goal := float64(user.DailyGoalMinutes)
	days := make([]HeatmapDay, 0, 30)
	for i := 0; i < 30; i++ {
		d := start.AddDate(0, 0, i).Format(internal.DateLayout)
		mins := round1(totals[d])
		days = append(days, HeatmapDay{Date: d, Minutes: mins, Completed: mins >= goal})
	}
	return days, nil
}

type DayMinutes struct {
	Date    string  `json:"date"`
	Minutes float64 `json:"minutes"`
}

type WeekMinutes struct {
	Week    string  `json:"week"`
	Minutes float64 `json:"minutes"`
}

type Stats struct {
	Weekly          []DayMinutes                  `json:"weekly"`
	Monthly         []WeekMinutes                 `json:"monthly"`
	TotalSessions   int                           `json:"total_sessions"`
	TotalHours      float64                       `json:"total_hours"`
	AvgSession      float64                       `json:"avg_session"`
	LongestSession  float64                       `json:"longest_session"`
	BestWeekMinutes float64                       `json:"best_week_minutes"`
	LongestStreak   int                           `json:"longest_streak"`
	StreakHistory   []internal.StreakHistoryEntry `json:"streak_history"`
}

// ComputeStats assembles the aggregate view: last 7 daily totals, 4 trailing
// weekly buckets, whole-history rollups, and completed-streak history.
func ComputeStats(ctx context.Context, store storage.Store, userID int64, now time.Time) (*Stats, error) {
	user, err := store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := midnight(now)

	weekly := make([]DayMinutes, 0, 7)
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, -(6 - i)).Format(internal.DateLayout)
		total, err := store.DayTotal(ctx, userID, d)
		if err != nil {
			return nil, err
		}
		weekly = append(weekly, DayMinutes{Date: d, Minutes: round1(total)})
	}

	monthly := make([]WeekMinutes, 0, 4)
	for i := 3; i >= 0; i-- {
		end := today.AddDate(0, 0, -7*i)
		start := end.AddDate(0, 0, -6)
		total, err := store.RangeTotal(ctx, userID,
			start.Format(internal.DateLayout), end.Format(internal.DateLayout))
		if err != nil {
			return nil, err
		}
		monthly = append(monthly, WeekMinutes{
			Week:    start.Format("Jan 02") + " - " + end.Format("Jan 02"),
			Minutes: round1(total),
		})
	}

	agg, err := store.SessionAggregates(ctx, userID)
	if err != nil {
		return nil, err
	}
	bestWeek, err := store.BestWeekMinutes(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := store.ListHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	avgSession := 0.0
	if agg.TotalSessions > 0 {
		avgSession = round1(agg.TotalMinutes / float64(agg.TotalSessions))
	}

	return &Stats{
		Weekly:          weekly,
		Monthly:         monthly,
		TotalSessions:   agg.TotalSessions,
		TotalHours:      round1(agg.TotalMinutes / 60),
		AvgSession:      avgSession,
		LongestSession:  round1(agg.LongestSession),
		BestWeekMinutes: round1(bestWeek),
		LongestStreak:   user.LongestStreak,
		StreakHistory:   history,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
