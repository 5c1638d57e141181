package quiz

import "github.com/menkyoquiz/menkyo-backend/internal/model"

// Resolve judges a submitted answer against a question. Pure and total:
// defined for both boolean inputs, no I/O, deterministic.
func Resolve(q model.Question, answer bool) model.Verdict {
	return model.Verdict{
		IsCorrect:     answer == q.Answer,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
	}
}
