package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository handles admin dashboard data access.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *StatsRepository) GetSummaryCounts(ctx context.Context) (totalUsers, totalQuestions, totalSessions int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM questions),
			(SELECT COUNT(*) FROM quiz_sessions)`,
	).Scan(&totalUsers, &totalQuestions, &totalSessions)
	return
}

// CategoryActivity aggregates completed-session activity within one category.
type CategoryActivity struct {
	Category       string   `json:"category"`
	Sessions       int      `json:"sessions"`
	TotalQuestions int      `json:"total_questions"`
	AverageScore   *float64 `json:"average_score"`
}

// GetCategoryActivity retrieves per-category session activity, averaging the
// score ratio of each completed session.
func (r *StatsRepository) GetCategoryActivity(ctx context.Context) ([]CategoryActivity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category,
		        COUNT(*),
		        SUM(total_questions),
		        AVG(100.0 * correct_answers / NULLIF(total_questions, 0))
		 FROM quiz_sessions
		 GROUP BY category
		 ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []CategoryActivity
	for rows.Next() {
		var a CategoryActivity
		if err := rows.Scan(&a.Category, &a.Sessions, &a.TotalQuestions, &a.AverageScore); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	if activity == nil {
		activity = []CategoryActivity{}
	}
	return activity, rows.Err()
}

// RecentSession represents minimal data for recently completed sessions.
type RecentSession struct {
	SessionID      string    `json:"session_id"`
	UserName       string    `json:"user_name"`
	Category       string    `json:"category"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	CompletedAt    time.Time `json:"completed_at"`
}

// GetRecentSessions retrieves the last N completed sessions across all users.
func (r *StatsRepository) GetRecentSessions(ctx context.Context, limit int) ([]RecentSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, u.name, s.category, s.total_questions, s.correct_answers, s.completed_at
		 FROM quiz_sessions s
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.completed_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []RecentSession
	for rows.Next() {
		var s RecentSession
		if err := rows.Scan(&s.SessionID, &s.UserName, &s.Category, &s.TotalQuestions, &s.CorrectAnswers, &s.CompletedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if sessions == nil {
		sessions = []RecentSession{}
	}
	return sessions, rows.Err()
}

// SignupPoint is one day's registration count.
type SignupPoint struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// GetSignupTrend retrieves daily registration counts for the last N days.
func (r *StatsRepository) GetSignupTrend(ctx context.Context, days int) ([]SignupPoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DATE_TRUNC('day', created_at) AS day, COUNT(*)
		 FROM users
		 WHERE created_at > NOW() - ($1 || ' days')::interval
		 GROUP BY day
		 ORDER BY day`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SignupPoint
	for rows.Next() {
		var p SignupPoint
		if err := rows.Scan(&p.Day, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if points == nil {
		points = []SignupPoint{}
	}
	return points, rows.Err()
}
