package model

// CategoryStats accumulates per-category results across completed sessions.
// AccuracyPercent is always recomputed as the true ratio
// 100*CorrectAnswers/TotalQuestions, unlike the top-level running mean,
// which weights each session equally regardless of length. The two metrics
// are intentionally different computations.
type CategoryStats struct {
	Sessions         int     `json:"sessions"`
	TotalQuestions   int     `json:"total_questions"`
	CorrectAnswers   int     `json:"correct_answers"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
	AccuracyPercent  float64 `json:"accuracy_percent"`
}

// ProgressAggregate is the cumulative cross-session statistics object,
// persisted whole as a single unit of durable state per user.
type ProgressAggregate struct {
	TotalSessions         int                       `json:"total_sessions"`
	AverageScorePercent   float64                   `json:"average_score_percent"`
	TotalTimeSpentSeconds int                       `json:"total_time_spent_seconds"`
	CategoryStats         map[string]*CategoryStats `json:"category_stats"`
}

// SessionSummary is the terminal state of a completed session, consumed
// exactly once by the progress aggregator and the persistence workers.
type SessionSummary struct {
	SessionID        string `json:"session_id"`
	UserID           int    `json:"user_id"`
	Category         string `json:"category"`
	TotalQuestions   int    `json:"total_questions"`
	Score            int    `json:"score"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
	ChallengeType    string `json:"challenge_type,omitempty"`
	SetNumber        int    `json:"set_number,omitempty"`
}

// UserProgressRow mirrors the user_progress table: one row per user and
// category, upserted additively by the progress worker.
type UserProgressRow struct {
	UserID            int    `json:"user_id"`
	Category          string `json:"category"`
	QuestionsAnswered int    `json:"questions_answered"`
	CorrectAnswers    int    `json:"correct_answers"`
	TotalTimeSpent    int    `json:"total_time_spent"`
}
