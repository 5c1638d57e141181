package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// ProgressRepository reads the durable progress data: the cumulative
// per-user-per-category user_progress rows and the quiz_sessions history.
// Writes to both tables go through the background workers.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// ListUserProgress returns a user's per-category rows.
func (r *ProgressRepository) ListUserProgress(ctx context.Context, userID int) ([]model.UserProgressRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, category, questions_answered, correct_answers, total_time_spent
		 FROM user_progress WHERE user_id = $1 ORDER BY category`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.UserProgressRow
	for rows.Next() {
		var p model.UserProgressRow
		if err := rows.Scan(&p.UserID, &p.Category, &p.QuestionsAnswered, &p.CorrectAnswers, &p.TotalTimeSpent); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// HistoryEntry is one completed session in a user's history.
type HistoryEntry struct {
	SessionID      string    `json:"session_id"`
	Category       string    `json:"category"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	TimeSpent      int       `json:"time_spent"`
	ChallengeType  *string   `json:"challenge_type,omitempty"`
	SetNumber      *int      `json:"set_number,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ListSessions returns a user's most recent completed sessions.
func (r *ProgressRepository) ListSessions(ctx context.Context, userID, limit int) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, total_questions, correct_answers, time_spent, challenge_type, set_number, completed_at
		 FROM quiz_sessions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.SessionID, &e.Category, &e.TotalQuestions, &e.CorrectAnswers, &e.TimeSpent, &e.ChallengeType, &e.SetNumber, &e.CompletedAt); err != nil {
			return nil, err
		}
		history = append(history, e)
	}
	if history == nil {
		history = []HistoryEntry{}
	}
	return history, rows.Err()
}

// DeleteUserProgress removes all cumulative progress rows for a user.
// Used by the "clear all progress" operation.
func (r *ProgressRepository) DeleteUserProgress(ctx context.Context, userID int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_progress WHERE user_id = $1`, userID)
	return err
}
