package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(dsn string, logger internal.Logger) (*PostgresStore, error) {
	ctx := context.Background()

	// goose works over database/sql, so migrations run through the stdlib shim
	// before the pool is opened.
	migrateDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(migrateDB, "postgres"); err != nil {
		migrateDB.Close()
		return nil, err
	}
	if err := migrateDB.Close(); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// --- SessionRepository ---

func (p *PostgresStore) AppendSession(ctx context.Context, userID int64, start time.Time, durationMinutes float64, date string) (*internal.ReadingSession, error) {
	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO reading_sessions (user_id, start_time, duration_minutes, date) VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, start, durationMinutes, date).Scan(&id)
	if err != nil {
		p.logger.Errorf("failed to insert reading session: %v", err)
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

func (p *PostgresStore) ListSessions(ctx context.Context, userID int64, limit int) ([]internal.ReadingSession, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, start_time, duration_minutes, date FROM reading_sessions
		 WHERE user_id = $1 ORDER BY date DESC, id DESC LIMIT $2`, userID, limit)
	if err != nil {
		p.logger.Errorf("failed to query reading sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []internal.ReadingSession
	for rows.Next() {
		var s internal.ReadingSession
		var start *time.Time
		if err := rows.Scan(&s.ID, &s.UserID, &start, &s.DurationMinutes, &s.Date); err != nil {
			return nil, err
		}
		if start != nil {
			s.StartTime = *start
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (p *PostgresStore) DailyTotals(ctx context.Context, userID int64, fromDate string) (map[string]float64, error) {
	query := `SELECT date, SUM(duration_minutes) FROM reading_sessions WHERE user_id = $1`
	args := []any{userID}
	if fromDate != "" {
		query += ` AND date >= $2`
		args = append(args, fromDate)
	}
	query += ` GROUP BY date`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query daily totals: %v", err)
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

func (p *PostgresStore) DayTotal(ctx context.Context, userID int64, date string) (float64, error) {
	var total float64
	err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM reading_sessions WHERE user_id = $1 AND date = $2`,
		userID, date).Scan(&total)
	return total, err
}

func (p *PostgresStore) SessionAggregates(ctx context.Context, userID int64) (internal.SessionAggregates, error) {
	var agg internal.SessionAggregates
	err := p.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE duration_minutes > 0),
			COALESCE(SUM(duration_minutes) FILTER (WHERE duration_minutes > 0), 0),
			COALESCE(MAX(duration_minutes), 0)
		 FROM reading_sessions WHERE user_id = $1`, userID).
		Scan(&agg.TotalSessions, &agg.TotalMinutes, &agg.LongestSession)
	return agg, err
}

func (p *PostgresStore) RangeTotal(ctx context.Context, userID int64, fromDate, toDate string) (float64, error) {
	var total float64
	err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM reading_sessions
		 WHERE user_id = $1 AND date >= $2 AND date <= $3`, userID, fromDate, toDate).Scan(&total)
	return total, err
}

func (p *PostgresStore) BestWeekMinutes(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := p.pool.QueryRow(ctx,
		`SELECT SUM(duration_minutes) AS total FROM reading_sessions
		 WHERE user_id = $1 AND duration_minutes > 0
		 GROUP BY to_char(date::date, 'IYYY-IW') ORDER BY total DESC LIMIT 1`, userID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return total, err
}

// --- UserRepository ---

func (p *PostgresStore) CreateUser(ctx context.Context, u *internal.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (name, daily_goal_minutes, preferred_reading_time, shields_available,
			current_streak, longest_streak, streak_start_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		u.Name, u.DailyGoalMinutes, string(u.PreferredTime), u.ShieldsAvailable,
		u.CurrentStreak, u.LongestStreak, nullIfEmpty(u.StreakStartDate), u.CreatedAt).Scan(&u.ID)
	if err != nil {
		p.logger.Errorf("failed to insert user: %v", err)
	}
	return err
}

func (p *PostgresStore) GetUser(ctx context.Context, userID int64) (*internal.User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, name, daily_goal_minutes, preferred_reading_time, shields_available,
			current_streak, longest_streak, streak_start_date, created_at
		 FROM users WHERE id = $1`, userID)

	var u internal.User
	var pref string
	var startDate *string
	err := row.Scan(&u.ID, &u.Name, &u.DailyGoalMinutes, &pref, &u.ShieldsAvailable,
		&u.CurrentStreak, &u.LongestStreak, &startDate, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.PreferredTime = internal.ReadingTime(pref)
	if startDate != nil {
		u.StreakStartDate = *startDate
	}
	return &u, nil
}

func (p *PostgresStore) LatestUserID(ctx context.Context) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `SELECT id FROM users ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("no users: %w", internal.ErrNotFound)
	}
	return id, err
}

func (p *PostgresStore) UpdateShields(ctx context.Context, userID int64, shields int) error {
	_, err := p.pool.Exec(ctx, `UPDATE users SET shields_available = $1 WHERE id = $2`, shields, userID)
	return err
}

func (p *PostgresStore) UpdateStreak(ctx context.Context, userID int64, current, longest int, startDate string) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE users SET current_streak = $1, longest_streak = GREATEST(longest_streak, $2), streak_start_date = $3 WHERE id = $4`,
		current, longest, nullIfEmpty(startDate), userID)
	return err
}

func (p *PostgresStore) UpdateGoal(ctx context.Context, userID int64, goalMinutes int) error {
	_, err := p.pool.Exec(ctx, `UPDATE users SET daily_goal_minutes = $1 WHERE id = $2`, goalMinutes, userID)
	return err
}

func (p *PostgresStore) UpdateSettings(ctx context.Context, userID int64, goalMinutes *int, preferred *internal.ReadingTime) error {
	if goalMinutes != nil {
		if _, err := p.pool.Exec(ctx, `UPDATE users SET daily_goal_minutes = $1 WHERE id = $2`, *goalMinutes, userID); err != nil {
			return err
		}
	}
	if preferred != nil {
		if _, err := p.pool.Exec(ctx, `UPDATE users SET preferred_reading_time = $1 WHERE id = $2`, string(*preferred), userID); err != nil {
			return err
		}
	}
	return nil
}

// --- AdjustmentRepository ---

func (p *PostgresStore) CreateAdjustment(ctx context.Context, a *internal.GoalAdjustment) error {
	if a.SuggestedAt.IsZero() {
		a.SuggestedAt = time.Now()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO goal_adjustments (user_id, old_goal, new_goal, reason, suggested_at, accepted, dismissed)
		 VALUES ($1, $2, $3, $4, $5, 0, 0) RETURNING id`,
		a.UserID, a.OldGoal, a.NewGoal, a.Reason, a.SuggestedAt).Scan(&a.ID)
	if err != nil {
		p.logger.Errorf("failed to insert goal adjustment: %v", err)
	}
	return err
}

func (p *PostgresStore) GetAdjustment(ctx context.Context, id, userID int64) (*internal.GoalAdjustment, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, old_goal, new_goal, reason, suggested_at, accepted, dismissed
		 FROM goal_adjustments WHERE id = $1 AND user_id = $2`, id, userID)
	return p.scanAdjustment(row)
}

func (p *PostgresStore) PendingAdjustment(ctx context.Context, userID int64) (*internal.GoalAdjustment, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, old_goal, new_goal, reason, suggested_at, accepted, dismissed
		 FROM goal_adjustments WHERE user_id = $1 AND accepted = 0 AND dismissed = 0
		 ORDER BY suggested_at DESC LIMIT 1`, userID)
	return p.scanAdjustment(row)
}

func (p *PostgresStore) scanAdjustment(row pgx.Row) (*internal.GoalAdjustment, error) {
	var a internal.GoalAdjustment
	var reason *string
	var accepted, dismissed int
	err := row.Scan(&a.ID, &a.UserID, &a.OldGoal, &a.NewGoal, &reason, &a.SuggestedAt, &accepted, &dismissed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("goal adjustment: %w", internal.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if reason != nil {
		a.Reason = *reason
	}
	a.Accepted = accepted != 0
	a.Dismissed = dismissed != 0
	return &a, nil
}

func (p *PostgresStore) MarkAccepted(ctx context.Context, id int64) error {
	_, err := p.pool.Exec(ctx, `UPDATE goal_adjustments SET accepted = 1 WHERE id = $1`, id)
	return err
}

func (p *PostgresStore) MarkDismissed(ctx context.Context, id int64) error {
	_, err := p.pool.Exec(ctx, `UPDATE goal_adjustments SET dismissed = 1 WHERE id = $1`, id)
	return err
}

// --- HistoryRepository ---

func (p *PostgresStore) AddHistoryEntry(ctx context.Context, e *internal.StreakHistoryEntry) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO streak_history (user_id, start_date, end_date, length_days) VALUES ($1, $2, $3, $4) RETURNING id`,
		e.UserID, e.StartDate, e.EndDate, e.LengthDays).Scan(&e.ID)
	if err != nil {
		p.logger.Errorf("failed to insert streak history entry: %v", err)
	}
	return err
}

func (p *PostgresStore) ListHistory(ctx context.Context, userID int64) ([]internal.StreakHistoryEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, start_date, end_date, length_days FROM streak_history
		 WHERE user_id = $1 ORDER BY start_date DESC`, userID)
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

func (p *PostgresStore) ClearUserData(ctx context.Context, userID int64) error {
	for _, q := range []string{
		`DELETE FROM reading_sessions WHERE user_id = $1`,
		`DELETE FROM streak_history WHERE user_id = $1`,
		`DELETE FROM goal_adjustments WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	} {
		if _, err := p.pool.Exec(ctx, q, userID); err != nil {
			return err
		}
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
