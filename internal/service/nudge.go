package service

import (
	"fmt"
	"math"
	"time"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
)

// Preferred reading windows by local hour, inclusive on both ends. An unknown
// preference falls back to the evening window.
var readingWindows = map[internal.ReadingTime][2]int{
	internal.Morning:   {6, 10},
	internal.Afternoon: {12, 16},
	internal.Evening:   {18, 22},
}

const urgentHour = 21

// BuildNudge is a pure function of the clock, today's progress, and the user's
// preference. Nil means no reminder is due: goal already met, or the current
// hour is outside both the urgent band and the preferred window.
func BuildNudge(now time.Time, todayTotal float64, goalMinutes int, preferred internal.ReadingTime, currentStreak int) *internal.Nudge {
	if todayTotal >= float64(goalMinutes) {
		return nil
	}

	remaining := int(math.Round(float64(goalMinutes) - todayTotal))
	if remaining < 0 {
		remaining = 0
	}

	hour := now.Hour()
	if hour >= urgentHour {
		return &internal.Nudge{
			Type:      internal.NudgeUrgent,
			Message:   fmt.Sprintf("Your %d-day streak is on the line — %d minutes is all it takes.", currentStreak, remaining),
			Remaining: remaining,
		}
	}

	window, ok := readingWindows[preferred]
	if !ok {
		window = readingWindows[internal.Evening]
	}
	if hour >= window[0] && hour <= window[1] {
		return &internal.Nudge{
			Type:      internal.NudgeGentle,
			Message:   fmt.Sprintf("It's your favorite reading window. Just %d minutes to keep your streak alive.", remaining),
			Remaining: remaining,
		}
	}
	return nil
}
