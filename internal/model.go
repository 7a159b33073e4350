package internal

import "time"

// DateLayout is the calendar-day form used everywhere dates are stored or
// compared. Days are server-local.
const DateLayout = "2006-01-02"

// MaxShields is the hard cap on forgiveness credits a user can hold.
const MaxShields = 3

type ReadingTime string

const (
	Morning   ReadingTime = "morning"
	Afternoon ReadingTime = "afternoon"
	Evening   ReadingTime = "evening"
)

type User struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	DailyGoalMinutes int         `json:"daily_goal_minutes"`
	PreferredTime    ReadingTime `json:"preferred_reading_time"`
	ShieldsAvailable int         `json:"shields_available"`
	CurrentStreak    int         `json:"current_streak"`
	LongestStreak    int         `json:"longest_streak"`
	StreakStartDate  string      `json:"streak_start_date,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// ReadingSession is immutable once logged; Date is derived from the server's
// local clock at log time, not reconstructed from StartTime.
type ReadingSession struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes float64   `json:"duration_minutes"`
	Date            string    `json:"date"`
}

// StreakHistoryEntry records a completed streak as a closed [StartDate, EndDate]
// interval.
type StreakHistoryEntry struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	LengthDays int    `json:"length_days"`
}

type GoalAdjustment struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	OldGoal     int       `json:"old_goal"`
	NewGoal     int       `json:"new_goal"`
	Reason      string    `json:"reason"`
	SuggestedAt time.Time `json:"suggested_at"`
	Accepted    bool      `json:"accepted"`
	Dismissed   bool      `json:"dismissed"`
}

// Pending reports whether the adjustment still awaits a user decision.
func (a *GoalAdjustment) Pending() bool {
	return !a.Accepted && !a.Dismissed
}

// SessionAggregates are whole-history rollups used by the stats endpoint.
// Zero-duration rows are excluded from counts and sums.
type SessionAggregates struct {
	TotalSessions  int     `json:"total_sessions"`
	TotalMinutes   float64 `json:"total_minutes"`
	LongestSession float64 `json:"longest_session"`
}

type NudgeType string

const (
	NudgeUrgent NudgeType = "urgent"
	NudgeGentle NudgeType = "gentle"
)

type Nudge struct {
	Type      NudgeType `json:"type"`
	Message   string    `json:"message"`
	Remaining int       `json:"remaining"`
}
