package quiz

import (
	"math/rand"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// Shuffle returns a uniformly shuffled copy of questions using the
// Fisher-Yates algorithm. The input slice is never modified.
func Shuffle(questions []model.Question, r *rand.Rand) []model.Question {
	shuffled := make([]model.Question, len(questions))
	copy(shuffled, questions)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Draw shuffles questions and returns the first limit of them: a uniform
// random draw without replacement. A non-positive or oversized limit
// returns the whole shuffled pool.
func Draw(questions []model.Question, limit int, r *rand.Rand) []model.Question {
	shuffled := Shuffle(questions, r)

	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}

	return shuffled[:limit]
}
