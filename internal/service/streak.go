package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

// StreakResult is what a full recomputation produced. ShieldMessage is set only
// when at least one shield was spent; callers surface it for display.
type StreakResult struct {
	Streak        int    `json:"streak"`
	ShieldsUsed   int    `json:"shields_used"`
	ShieldMessage string `json:"shield_message,omitempty"`
}

// ComputeStreak walks backward from today (or yesterday, when today's goal is
// still in progress) counting goal-met days, spending shields on missed days,
// and persists the result on the user. Spending is evaluated against the
// pre-walk shield balance; accrual (one shield per 7 full days of the new
// streak, capped at 3 total) against the post-walk streak length. The two
// updates are applied as separate steps, spend first.
func ComputeStreak(ctx context.Context, users storage.UserRepository, sessions storage.SessionRepository, history storage.HistoryRepository, userID int64, now time.Time) (StreakResult, error) {
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return StreakResult{}, err
	}
	totals, err := sessions.DailyTotals(ctx, userID, "")
	if err != nil {
		return StreakResult{}, err
	}

	goal := float64(user.DailyGoalMinutes)
	shields := user.ShieldsAvailable

	today := midnight(now)
	todayMet := totals[today.Format(internal.DateLayout)] >= goal

	// Today not yet met is "in progress", not a failure: anchor at yesterday so
	// an incomplete today can never break the streak prematurely.
	check := today
	if !todayMet {
		check = today.AddDate(0, 0, -1)
	}

	streak := 0
	shieldsUsed := 0
walk:
	for {
		d := check.Format(internal.DateLayout)
		switch {
		case totals[d] >= goal:
			streak++
		case shieldsUsed < shields && streak > 0:
			// A shield extends an existing streak; it never starts one.
			shieldsUsed++
			streak++
		default:
			break walk
		}
		check = check.AddDate(0, 0, -1)
	}

	// The previous streak just ended: archive it before the reset overwrites
	// the start date.
	if streak == 0 && user.CurrentStreak > 0 && user.StreakStartDate != "" {
		if err := archiveBrokenStreak(ctx, history, user); err != nil {
			return StreakResult{}, err
		}
	}

	result := StreakResult{Streak: streak, ShieldsUsed: shieldsUsed}
	if shieldsUsed > 0 {
		if err := users.UpdateShields(ctx, userID, shields-shieldsUsed); err != nil {
			return StreakResult{}, err
		}
		result.ShieldMessage = fmt.Sprintf("Shield used! Your %d-day streak lives on 🛡️", streak)
	}

	earned := streak / 7
	remaining := shields - shieldsUsed
	if earned > 0 && remaining < internal.MaxShields {
		bonus := min(internal.MaxShields-remaining, earned)
		if err := users.UpdateShields(ctx, userID, min(internal.MaxShields, remaining+bonus)); err != nil {
			return StreakResult{}, err
		}
	}

	startDate := ""
	if streak > 0 {
		// check now sits on the first day the walk rejected.
		startDate = check.AddDate(0, 0, 1).Format(internal.DateLayout)
	}
	if err := users.UpdateStreak(ctx, userID, streak, streak, startDate); err != nil {
		return StreakResult{}, err
	}
	return result, nil
}

func archiveBrokenStreak(ctx context.Context, history storage.HistoryRepository, user *internal.User) error {
	start, err := time.Parse(internal.DateLayout, user.StreakStartDate)
	if err != nil {
		// An unparseable start date (hand-seeded data) is not worth failing the
		// recompute over.
		return nil
	}
	end := start.AddDate(0, 0, user.CurrentStreak-1)
	return history.AddHistoryEntry(ctx, &internal.StreakHistoryEntry{
		UserID:     user.ID,
		StartDate:  user.StreakStartDate,
		EndDate:    end.Format(internal.DateLayout),
		LengthDays: user.CurrentStreak,
	})
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
