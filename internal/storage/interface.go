package storage

import (
	"context"
	"time"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
)

// SessionRepository is the append-only record of reading time. Totals are keyed
// by ISO date string.
type SessionRepository interface {
	AppendSession(ctx context.Context, userID int64, start time.Time, durationMinutes float64, date string) (*internal.ReadingSession, error)
	ListSessions(ctx context.Context, userID int64, limit int) ([]internal.ReadingSession, error)
	// DailyTotals sums minutes per date, newest first omitted — callers sort as
	// needed. fromDate == "" means the whole history.
	DailyTotals(ctx context.Context, userID int64, fromDate string) (map[string]float64, error)
	DayTotal(ctx context.Context, userID int64, date string) (float64, error)
	SessionAggregates(ctx context.Context, userID int64) (internal.SessionAggregates, error)
	RangeTotal(ctx context.Context, userID int64, fromDate, toDate string) (float64, error)
	BestWeekMinutes(ctx context.Context, userID int64) (float64, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *internal.User) error
	GetUser(ctx context.Context, userID int64) (*internal.User, error)
	// LatestUserID returns the newest user id, or ErrNotFound on an empty table.
	LatestUserID(ctx context.Context) (int64, error)
	UpdateShields(ctx context.Context, userID int64, shields int) error
	UpdateStreak(ctx context.Context, userID int64, current, longest int, startDate string) error
	UpdateGoal(ctx context.Context, userID int64, goalMinutes int) error
	UpdateSettings(ctx context.Context, userID int64, goalMinutes *int, preferred *internal.ReadingTime) error
}

type AdjustmentRepository interface {
	CreateAdjustment(ctx context.Context, a *internal.GoalAdjustment) error
	GetAdjustment(ctx context.Context, id, userID int64) (*internal.GoalAdjustment, error)
	// PendingAdjustment returns the newest proposal with accepted=0 and
	// dismissed=0, or ErrNotFound.
	PendingAdjustment(ctx context.Context, userID int64) (*internal.GoalAdjustment, error)
	MarkAccepted(ctx context.Context, id int64) error
	MarkDismissed(ctx context.Context, id int64) error
}

type HistoryRepository interface {
	AddHistoryEntry(ctx context.Context, e *internal.StreakHistoryEntry) error
	ListHistory(ctx context.Context, userID int64) ([]internal.StreakHistoryEntry, error)
}

// Store is the full relational surface the service layer needs. Both backends
// implement it.
type Store interface {
	SessionRepository
	UserRepository
	AdjustmentRepository
	HistoryRepository
	// ClearUserData wipes every row belonging to the user; demo re-seeding only.
	ClearUserData(ctx context.Context, userID int64) error
	Close() error
}
