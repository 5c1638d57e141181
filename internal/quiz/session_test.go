package quiz

import (
	"errors"
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

func questionPool(category string, answers ...bool) []model.Question {
	pool := make([]model.Question, len(answers))
	for i, ans := range answers {
		pool[i] = model.Question{
			ID:          i + 1,
			Text:        "question",
			Answer:      ans,
			Explanation: "because",
			Category:    category,
		}
	}
	return pool
}

func TestNewSessionValidation(t *testing.T) {
	t.Parallel()
	pool := questionPool("Karimen", true, false, true)

	if _, err := NewSession(1, pool, 5); !errors.Is(err, ErrPoolTooSmall) {
		t.Fatalf("expected ErrPoolTooSmall, got %v", err)
	}
	if _, err := NewSession(1, pool, 0); !errors.Is(err, ErrEmptySession) {
		t.Fatalf("expected ErrEmptySession, got %v", err)
	}
	if _, err := NewSession(1, nil, 1); !errors.Is(err, ErrEmptySession) {
		t.Fatalf("expected ErrEmptySession for nil pool, got %v", err)
	}

	mixed := questionPool("Karimen", true, true)
	mixed[1].Category = "HonMen"
	if _, err := NewSession(1, mixed, 2); !errors.Is(err, ErrMixedCategories) {
		t.Fatalf("expected ErrMixedCategories, got %v", err)
	}

	s, err := NewSession(7, pool, 2, WithChallengeType(model.ChallengeTimed), WithSetNumber(3))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if s.CurrentIndex != 0 || s.Score != 0 || len(s.Answered) != 0 {
		t.Fatalf("fresh session not zeroed: index=%d score=%d answered=%d", s.CurrentIndex, s.Score, len(s.Answered))
	}
	if s.TotalQuestions() != 2 || s.ChallengeType != model.ChallengeTimed || s.SetNumber != 3 {
		t.Fatalf("session options not applied: %+v", s)
	}
}

func TestSessionSnapshotIsolation(t *testing.T) {
	t.Parallel()
	pool := questionPool("Karimen", true, false)
	s, err := NewSession(1, pool, 2)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// A session snapshots the pool: later edits must not reach it.
	pool[0].Text = "edited"
	pool[0].Answer = false
	if s.Questions[0].Text != "question" || !s.Questions[0].Answer {
		t.Fatal("session saw a mutation of the source pool")
	}
}

func TestSubmitAndAdvanceInvariants(t *testing.T) {
	t.Parallel()
	s, err := NewSession(1, questionPool("Karimen", true, true, false), 3)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	answers := []bool{true, false, false}
	for i, ans := range answers {
		if _, _, err := s.Submit(ans, 4); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if len(s.Answered) != s.CurrentIndex+1 {
			t.Fatalf("after submit %d: answered=%d index=%d", i, len(s.Answered), s.CurrentIndex)
		}

		done, err := s.Advance()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if len(s.Answered) != s.CurrentIndex {
			t.Fatalf("after advance %d: answered=%d index=%d", i, len(s.Answered), s.CurrentIndex)
		}
		if wantDone := i == len(answers)-1; done != wantDone {
			t.Fatalf("advance %d: done=%v want %v", i, done, wantDone)
		}
	}

	correct := 0
	for _, a := range s.Answered {
		if a.IsCorrect {
			correct++
		}
	}
	if s.Score != correct {
		t.Fatalf("score %d != correct count %d", s.Score, correct)
	}
}

func TestSubmitIsWriteOncePerSlot(t *testing.T) {
	t.Parallel()
	s, err := NewSession(1, questionPool("Karimen", true, false), 2)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, _, err := s.Submit(true, 0); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	score, logged := s.Score, len(s.Answered)

	// Duplicate UI event: must be rejected without changing state.
	if _, _, err := s.Submit(false, 0); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
	if s.Score != score || len(s.Answered) != logged {
		t.Fatalf("duplicate submit mutated state: score=%d answered=%d", s.Score, len(s.Answered))
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	t.Parallel()
	s, err := NewSession(1, questionPool("HonMen", true), 1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := s.Advance(); !errors.Is(err, ErrNotYetAnswered) {
		t.Fatalf("expected ErrNotYetAnswered, got %v", err)
	}

	if _, _, err := s.Submit(true, 0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	done, err := s.Advance()
	if err != nil || !done {
		t.Fatalf("final advance: done=%v err=%v", done, err)
	}

	// Terminal state rejects everything.
	if _, _, err := s.Submit(true, 0); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("submit after completion: %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("advance after completion: %v", err)
	}
	if _, err := s.Current(); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("current after completion: %v", err)
	}
}

func TestFiveQuestionScenario(t *testing.T) {
	t.Parallel()
	pool := questionPool("Karimen", true, true, true, false, false)
	s, err := NewSession(1, pool, 5)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	userAnswers := []bool{true, false, true, true, false}
	var completed bool
	for _, ans := range userAnswers {
		if _, _, err := s.Submit(ans, 2); err != nil {
			t.Fatalf("submit: %v", err)
		}
		done, err := s.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		completed = done
	}

	if !completed {
		t.Fatal("completion signal never emitted")
	}
	if s.Score != 3 {
		t.Fatalf("score = %d, want 3", s.Score)
	}
	if len(s.Answered) != 5 || s.CurrentIndex != 5 {
		t.Fatalf("terminal state: answered=%d index=%d", len(s.Answered), s.CurrentIndex)
	}

	summary, err := s.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Score != 3 || summary.TotalQuestions != 5 || summary.Category != "Karimen" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.TimeSpentSeconds != 10 {
		t.Fatalf("time spent = %d, want 10", summary.TimeSpentSeconds)
	}
}

func TestSummaryRejectsPartialSession(t *testing.T) {
	t.Parallel()
	s, err := NewSession(1, questionPool("Karimen", true, false), 2)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, _, err := s.Submit(true, 0); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := s.Summary(); !errors.Is(err, ErrSessionNotComplete) {
		t.Fatalf("expected ErrSessionNotComplete, got %v", err)
	}
}
