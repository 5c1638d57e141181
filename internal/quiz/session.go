package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// Engine errors. Handlers map these to API error codes; none of them may
// ever block the user from continuing a session.
var (
	ErrPoolTooSmall       = errors.New("question pool smaller than requested session size")
	ErrEmptySession       = errors.New("session has no questions")
	ErrAlreadyAnswered    = errors.New("current question already answered")
	ErrNotYetAnswered     = errors.New("current question not yet answered")
	ErrSessionComplete    = errors.New("session already complete")
	ErrSessionNotComplete = errors.New("session not yet complete")
	ErrMixedCategories    = errors.New("session questions span multiple categories")
)

// Session is one run through a fixed, ordered set of questions from
// creation to completion or abort. The question list is snapshotted at
// creation; admin edits never reach a running session.
//
// Invariants, held after every mutation:
//
//	0 <= CurrentIndex <= len(Questions)
//	len(Answered) == CurrentIndex, or CurrentIndex+1 right after Submit
//	Score == number of correct entries in Answered
type Session struct {
	ID            string                   `json:"id"`
	UserID        int                      `json:"user_id"`
	Questions     []model.Question         `json:"questions"`
	CurrentIndex  int                      `json:"current_index"`
	Score         int                      `json:"score"`
	Answered      []model.AnsweredQuestion `json:"answered"`
	ChallengeType model.ChallengeType      `json:"challenge_type,omitempty"`
	SetNumber     int                      `json:"set_number,omitempty"`
	StartedAt     time.Time                `json:"started_at"`
}

// Option configures session construction.
type Option func(*Session)

// WithChallengeType tags the session with a named construction policy.
func WithChallengeType(t model.ChallengeType) Option {
	return func(s *Session) { s.ChallengeType = t }
}

// WithSetNumber tags the session with a practice set number.
func WithSetNumber(n int) Option {
	return func(s *Session) { s.SetNumber = n }
}

// NewSession builds a session over the first total questions of pool.
// Callers wanting a random draw must shuffle the pool first (see Draw).
// Sessions are single-category by construction: a pool mixing categories
// is rejected so that progress aggregation has an unambiguous key.
func NewSession(userID int, pool []model.Question, total int, opts ...Option) (*Session, error) {
	if total <= 0 || len(pool) == 0 {
		return nil, ErrEmptySession
	}
	if total > len(pool) {
		return nil, ErrPoolTooSmall
	}

	questions := make([]model.Question, total)
	copy(questions, pool[:total])

	category := questions[0].Category
	for _, q := range questions[1:] {
		if q.Category != category {
			return nil, ErrMixedCategories
		}
	}

	s := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Questions: questions,
		Answered:  []model.AnsweredQuestion{},
		StartedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TotalQuestions returns the fixed session length.
func (s *Session) TotalQuestions() int {
	return len(s.Questions)
}

// Category returns the session's single category.
func (s *Session) Category() string {
	if len(s.Questions) == 0 {
		return ""
	}
	return s.Questions[0].Category
}

// Complete reports whether the terminal state has been reached.
func (s *Session) Complete() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Current returns the question at the current slot.
func (s *Session) Current() (model.Question, error) {
	if s.Complete() {
		return model.Question{}, ErrSessionComplete
	}
	return s.Questions[s.CurrentIndex], nil
}

// CurrentAnswered reports whether the current slot has been answered.
func (s *Session) CurrentAnswered() bool {
	return len(s.Answered) > s.CurrentIndex
}

// Submit resolves the user's answer for the current slot, appends the
// result and updates the score. Answers are write-once per slot: a second
// submit without an intervening Advance fails with ErrAlreadyAnswered,
// which makes rapid duplicate UI events harmless. Submit does not advance
// the index: feedback is shown before the explicit Advance step.
func (s *Session) Submit(answer bool, timeSpentSeconds int) (model.AnsweredQuestion, model.Verdict, error) {
	if s.Complete() {
		return model.AnsweredQuestion{}, model.Verdict{}, ErrSessionComplete
	}
	if s.CurrentAnswered() {
		return model.AnsweredQuestion{}, model.Verdict{}, ErrAlreadyAnswered
	}

	question := s.Questions[s.CurrentIndex]
	verdict := Resolve(question, answer)

	answered := model.AnsweredQuestion{
		QuestionID:       question.ID,
		UserAnswer:       answer,
		IsCorrect:        verdict.IsCorrect,
		TimeSpentSeconds: timeSpentSeconds,
	}
	s.Answered = append(s.Answered, answered)
	if verdict.IsCorrect {
		s.Score++
	}

	return answered, verdict, nil
}

// Advance moves to the next slot. It requires the current slot to have
// been answered and reports done=true when the terminal state
// (CurrentIndex == TotalQuestions) is reached.
func (s *Session) Advance() (done bool, err error) {
	if s.Complete() {
		return false, ErrSessionComplete
	}
	if !s.CurrentAnswered() {
		return false, ErrNotYetAnswered
	}
	s.CurrentIndex++
	return s.Complete(), nil
}

// Summary produces the terminal summary consumed by the progress
// aggregator. It fails on a non-terminal session so that partial data can
// never be aggregated.
func (s *Session) Summary() (model.SessionSummary, error) {
	if !s.Complete() || len(s.Answered) != len(s.Questions) {
		return model.SessionSummary{}, ErrSessionNotComplete
	}

	timeSpent := 0
	for _, a := range s.Answered {
		timeSpent += a.TimeSpentSeconds
	}

	return model.SessionSummary{
		SessionID:        s.ID,
		UserID:           s.UserID,
		Category:         s.Category(),
		TotalQuestions:   len(s.Questions),
		Score:            s.Score,
		TimeSpentSeconds: timeSpent,
		ChallengeType:    string(s.ChallengeType),
		SetNumber:        s.SetNumber,
	}, nil
}
