package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

var validate = validator.New()

type LogSessionRequest struct {
	DurationMinutes float64 `json:"duration_minutes" validate:"required,gt=0"`
}

type LogSessionResult struct {
	GoalMet        bool    `json:"goal_met"`
	TodayTotal     float64 `json:"today_total"`
	Streak         int     `json:"streak"`
	StreakExtended bool    `json:"streak_extended"`
	ShieldMessage  string  `json:"shield_message,omitempty"`
}

// LogSession appends an immutable session dated with the server-local calendar
// day, then recomputes the streak. The duration must be positive; nothing is
// written otherwise.
func LogSession(ctx context.Context, store storage.Store, userID int64, req *LogSessionRequest, now time.Time) (*LogSessionResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: duration must be positive", internal.ErrInvalidInput)
	}

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	date := now.Format(internal.DateLayout)
	duration := math.Round(req.DurationMinutes*10) / 10
	if _, err := store.AppendSession(ctx, userID, now, duration, date); err != nil {
		return nil, err
	}

	todayTotal, err := store.DayTotal(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	goalMet := todayTotal >= float64(user.DailyGoalMinutes)

	res, err := ComputeStreak(ctx, store, store, store, userID, now)
	if err != nil {
		return nil, err
	}

	return &LogSessionResult{
		GoalMet:        goalMet,
		TodayTotal:     math.Round(todayTotal*10) / 10,
		Streak:         res.Streak,
		StreakExtended: goalMet,
		ShieldMessage:  res.ShieldMessage,
	}, nil
}

type UpdateSettingsRequest struct {
	DailyGoalMinutes     *int    `json:"daily_goal_minutes" validate:"omitempty,gte=1"`
	PreferredReadingTime *string `json:"preferred_reading_time" validate:"omitempty,oneof=morning afternoon evening"`
}

// UpdateSettings applies the goal and/or preferred-window fields present in
// the request.
func UpdateSettings(ctx context.Context, users storage.UserRepository, userID int64, req *UpdateSettingsRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrInvalidInput, err)
	}
	if _, err := users.GetUser(ctx, userID); err != nil {
		return err
	}
	var pref *internal.ReadingTime
	if req.PreferredReadingTime != nil {
		p := internal.ReadingTime(*req.PreferredReadingTime)
		pref = &p
	}
	return users.UpdateSettings(ctx, userID, req.DailyGoalMinutes, pref)
}
