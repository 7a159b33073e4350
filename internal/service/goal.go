package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

const (
	goalCeiling    = 60
	goalFloor      = 10
	raiseThreshold = 1.2
	adviserWindow  = 14
	minDataDays    = 7
)

// SuggestGoal inspects the trailing 14-day window and either returns the
// existing pending proposal, creates a new one, or returns nil when no trigger
// fires or fewer than 7 data-bearing days exist. Days with no sessions are
// absent from the window, not counted as zero.
func SuggestGoal(ctx context.Context, users storage.UserRepository, sessions storage.SessionRepository, adjustments storage.AdjustmentRepository, userID int64, now time.Time) (*internal.GoalAdjustment, error) {
	pending, err := adjustments.PendingAdjustment(ctx, userID)
	if err == nil {
		return pending, nil
	}
	if !errors.Is(err, internal.ErrNotFound) {
		return nil, err
	}

	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal := user.DailyGoalMinutes

	from := midnight(now).AddDate(0, 0, -(adviserWindow - 1)).Format(internal.DateLayout)
	totals, err := sessions.DailyTotals(ctx, userID, from)
	if err != nil {
		return nil, err
	}
	if len(totals) < minDataDays {
		return nil, nil
	}

	dates := make([]string, 0, len(totals))
	sum := 0.0
	for d, t := range totals {
		dates = append(dates, d)
		sum += t
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	avg := sum / float64(len(totals))

	daysMet := 0
	for _, d := range dates[:minDataDays] {
		if totals[d] >= float64(goal) {
			daysMet++
		}
	}
	daysMissed := minDataDays - daysMet

	var proposal *internal.GoalAdjustment
	if avg > float64(goal)*raiseThreshold && daysMet >= minDataDays {
		newGoal := int(math.Round(avg/5) * 5)
		if newGoal > goalCeiling {
			newGoal = goalCeiling
		}
		if newGoal > goal {
			proposal = &internal.GoalAdjustment{
				UserID:  userID,
				OldGoal: goal,
				NewGoal: newGoal,
				Reason:  fmt.Sprintf("You've been reading %d min/day — want to raise your goal to %d min?", int(math.Round(avg)), newGoal),
			}
		}
	} else if daysMissed >= 3 {
		newGoal := goal - 5
		if newGoal < goalFloor {
			newGoal = goalFloor
		}
		if newGoal < goal {
			proposal = &internal.GoalAdjustment{
				UserID:  userID,
				OldGoal: goal,
				NewGoal: newGoal,
				Reason:  fmt.Sprintf("You've missed %d of the last 7 days. Lower your goal to %d min to stay consistent?", daysMissed, newGoal),
			}
		}
	}

	if proposal == nil {
		return nil, nil
	}
	if err := adjustments.CreateAdjustment(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// AcceptGoal marks the adjustment accepted and applies its new goal to the
// user. Terminal: there is no un-accept.
func AcceptGoal(ctx context.Context, users storage.UserRepository, adjustments storage.AdjustmentRepository, adjustmentID, userID int64) (int, error) {
	adj, err := adjustments.GetAdjustment(ctx, adjustmentID, userID)
	if err != nil {
		return 0, err
	}
	if err := adjustments.MarkAccepted(ctx, adj.ID); err != nil {
		return 0, err
	}
	if err := users.UpdateGoal(ctx, userID, adj.NewGoal); err != nil {
		return 0, err
	}
	return adj.NewGoal, nil
}

// DismissGoal marks the adjustment dismissed. Terminal, no un-dismiss.
func DismissGoal(ctx context.Context, adjustments storage.AdjustmentRepository, adjustmentID int64) error {
	return adjustments.MarkDismissed(ctx, adjustmentID)
}
