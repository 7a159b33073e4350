package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
)

// SQLiteStore is the default backend: a single local database file, pure-Go
// driver, WAL mode.
type SQLiteStore struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStore(path string, logger internal.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite database: %v", err)
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := Migrate(db, "sqlite3"); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- SessionRepository ---

func (s *SQLiteStore) AppendSession(ctx context.Context, userID int64, start time.Time, durationMinutes float64, date string) (*internal.ReadingSession, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reading_sessions (user_id, start_time, duration_minutes, date) VALUES (?, ?, ?, ?)`,
		userID, start.Format(time.RFC3339), durationMinutes, date)
	if err != nil {
		s.logger.Errorf("failed to insert reading session: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &internal.ReadingSession{
		ID:              id,
		UserID:          userID,
		StartTime:       start,
		DurationMinutes: durationMinutes,
		Date:            date,
	}, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, userID int64, limit int) ([]internal.ReadingSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, start_time, duration_minutes, date FROM reading_sessions
		 WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		s.logger.Errorf("failed to query reading sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []internal.ReadingSession
	for rows.Next() {
		var sess internal.ReadingSession
		var start sql.NullString
		if err := rows.Scan(&sess.ID, &sess.UserID, &start, &sess.DurationMinutes, &sess.Date); err != nil {
			return nil, err
		}
		if start.Valid {
			sess.StartTime, _ = time.Parse(time.RFC3339, start.String)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) DailyTotals(ctx context.Context, userID int64, fromDate string) (map[string]float64, error) {
	query := `SELECT date, SUM(duration_minutes) FROM reading_sessions WHERE user_id = ?`
	args := []any{userID}
	if fromDate != "" {
		query += ` AND date >= ?`
		args = append(args, fromDate)
	}
	query += ` GROUP BY date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorf("failed to query daily totals: %v", err)
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var date string
		var total float64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, err
		}
		totals[date] = total
	}
	return totals, rows.Err()
}

func (s *SQLiteStore) DayTotal(ctx context.Context, userID int64, date string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM reading_sessions WHERE user_id = ? AND date = ?`,
		userID, date).Scan(&total)
	return total, err
}

func (s *SQLiteStore) SessionAggregates(ctx context.Context, userID int64) (internal.SessionAggregates, error) {
	var agg internal.SessionAggregates
	err := s.db.QueryRowContext(ctx,
		`SELECT
			COUNT(CASE WHEN duration_minutes > 0 THEN 1 END),
			COALESCE(SUM(CASE WHEN duration_minutes > 0 THEN duration_minutes END), 0),
			COALESCE(MAX(duration_minutes), 0)
		 FROM reading_sessions WHERE user_id = ?`, userID).
		Scan(&agg.TotalSessions, &agg.TotalMinutes, &agg.LongestSession)
	return agg, err
}

func (s *SQLiteStore) RangeTotal(ctx context.Context, userID int64, fromDate, toDate string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM reading_sessions
		 WHERE user_id = ? AND date >= ? AND date <= ?`, userID, fromDate, toDate).Scan(&total)
	return total, err
}

func (s *SQLiteStore) BestWeekMinutes(ctx context.Context, userID int64) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(duration_minutes) AS total FROM reading_sessions
		 WHERE user_id = ? AND duration_minutes > 0
		 GROUP BY strftime('%Y-%W', date) ORDER BY total DESC LIMIT 1`, userID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

// --- UserRepository ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *internal.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, daily_goal_minutes, preferred_reading_time, shields_available,
			current_streak, longest_streak, streak_start_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.DailyGoalMinutes, string(u.PreferredTime), u.ShieldsAvailable,
		u.CurrentStreak, u.LongestStreak, nullIfEmpty(u.StreakStartDate), u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		s.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, userID int64) (*internal.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, daily_goal_minutes, preferred_reading_time, shields_available,
			current_streak, longest_streak, streak_start_date, created_at
		 FROM users WHERE id = ?`, userID)

	var u internal.User
	var pref string
	var startDate sql.NullString
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.DailyGoalMinutes, &pref, &u.ShieldsAvailable,
		&u.CurrentStreak, &u.LongestStreak, &startDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.PreferredTime = internal.ReadingTime(pref)
	u.StreakStartDate = startDate.String
	u.CreatedAt = parseStoredTime(createdAt)
	return &u, nil
}

func (s *SQLiteStore) LatestUserID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("no users: %w", internal.ErrNotFound)
	}
	return id, err
}

func (s *SQLiteStore) UpdateShields(ctx context.Context, userID int64, shields int) error {
	return s.execOne(ctx, `UPDATE users SET shields_available = ? WHERE id = ?`, shields, userID)
}

func (s *SQLiteStore) UpdateStreak(ctx context.Context, userID int64, current, longest int, startDate string) error {
	return s.execOne(ctx,
		`UPDATE users SET current_streak = ?, longest_streak = MAX(longest_streak, ?), streak_start_date = ? WHERE id = ?`,
		current, longest, nullIfEmpty(startDate), userID)
}

func (s *SQLiteStore) UpdateGoal(ctx context.Context, userID int64, goalMinutes int) error {
	return s.execOne(ctx, `UPDATE users SET daily_goal_minutes = ? WHERE id = ?`, goalMinutes, userID)
}

func (s *SQLiteStore) UpdateSettings(ctx context.Context, userID int64, goalMinutes *int, preferred *internal.ReadingTime) error {
	if goalMinutes != nil {
		if err := s.execOne(ctx, `UPDATE users SET daily_goal_minutes = ? WHERE id = ?`, *goalMinutes, userID); err != nil {
			return err
		}
	}
	if preferred != nil {
		if err := s.execOne(ctx, `UPDATE users SET preferred_reading_time = ? WHERE id = ?`, string(*preferred), userID); err != nil {
			return err
		}
	}
	return nil
}

// --- AdjustmentRepository ---

func (s *SQLiteStore) CreateAdjustment(ctx context.Context, a *internal.GoalAdjustment) error {
	if a.SuggestedAt.IsZero() {
		a.SuggestedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goal_adjustments (user_id, old_goal, new_goal, reason, suggested_at, accepted, dismissed)
		 VALUES (?, ?, ?, ?, ?, 0, 0)`,
		a.UserID, a.OldGoal, a.NewGoal, a.Reason, a.SuggestedAt.Format(time.RFC3339))
	if err != nil {
		s.logger.Errorf("failed to insert goal adjustment: %v", err)
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) GetAdjustment(ctx context.Context, id, userID int64) (*internal.GoalAdjustment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, old_goal, new_goal, reason, suggested_at, accepted, dismissed
		 FROM goal_adjustments WHERE id = ? AND user_id = ?`, id, userID)
	return scanAdjustment(row)
}

func (s *SQLiteStore) PendingAdjustment(ctx context.Context, userID int64) (*internal.GoalAdjustment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, old_goal, new_goal, reason, suggested_at, accepted, dismissed
		 FROM goal_adjustments WHERE user_id = ? AND accepted = 0 AND dismissed = 0
		 ORDER BY suggested_at DESC LIMIT 1`, userID)
	return scanAdjustment(row)
}

func (s *SQLiteStore) MarkAccepted(ctx context.Context, id int64) error {
	return s.execOne(ctx, `UPDATE goal_adjustments SET accepted = 1 WHERE id = ?`, id)
}

func (s *SQLiteStore) MarkDismissed(ctx context.Context, id int64) error {
	return s.execOne(ctx, `UPDATE goal_adjustments SET dismissed = 1 WHERE id = ?`, id)
}

// --- HistoryRepository ---

func (s *SQLiteStore) AddHistoryEntry(ctx context.Context, e *internal.StreakHistoryEntry) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO streak_history (user_id, start_date, end_date, length_days) VALUES (?, ?, ?, ?)`,
		e.UserID, e.StartDate, e.EndDate, e.LengthDays)
	if err != nil {
		s.logger.Errorf("failed to insert streak history entry: %v", err)
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) ListHistory(ctx context.Context, userID int64) ([]internal.StreakHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, start_date, end_date, length_days FROM streak_history
		 WHERE user_id = ? ORDER BY start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []internal.StreakHistoryEntry
	for rows.Next() {
		var e internal.StreakHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.StartDate, &e.EndDate, &e.LengthDays); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ClearUserData(ctx context.Context, userID int64) error {
	for _, q := range []string{
		`DELETE FROM reading_sessions WHERE user_id = ?`,
		`DELETE FROM streak_history WHERE user_id = ?`,
		`DELETE FROM goal_adjustments WHERE user_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, q, userID); err != nil {
			return err
		}
	}
	return nil
}

// --- helpers ---

func (s *SQLiteStore) execOne(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Errorf("exec failed: %v", err)
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdjustment(row rowScanner) (*internal.GoalAdjustment, error) {
	var a internal.GoalAdjustment
	var reason sql.NullString
	var suggestedAt string
	var accepted, dismissed int
	err := row.Scan(&a.ID, &a.UserID, &a.OldGoal, &a.NewGoal, &reason, &suggestedAt, &accepted, &dismissed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal adjustment: %w", internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	a.Reason = reason.String
	a.SuggestedAt = parseStoredTime(suggestedAt)
	a.Accepted = accepted != 0
	a.Dismissed = dismissed != 0
	return &a, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// parseStoredTime accepts either RFC3339 (written by this code) or sqlite's
// datetime('now') form (written by schema defaults).
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}

var _ Store = (*SQLiteStore)(nil)
