package quiz

import (
	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// Questions per practice set. Karimen exams run 50 questions, HonMen 100,
// so set-based practice mirrors the real exam sizes.
const (
	KarimenSetSize = 50
	HonMenSetSize  = 100
	defaultSetSize = 50
)

// SetSize returns the practice set size for a category.
func SetSize(category string) int {
	switch category {
	case model.CategoryKarimen:
		return KarimenSetSize
	case model.CategoryHonMen:
		return HonMenSetSize
	}
	return defaultSetSize
}

// PracticeSet describes one selectable set of questions within a category.
type PracticeSet struct {
	Number        int `json:"number"`
	StartQuestion int `json:"start_question"`
	EndQuestion   int `json:"end_question"`
	QuestionCount int `json:"question_count"`
}

// Sets partitions a category pool of the given size into practice sets.
// The last set may be short.
func Sets(category string, totalQuestions int) []PracticeSet {
	size := SetSize(category)
	if totalQuestions <= 0 {
		return []PracticeSet{}
	}

	count := (totalQuestions + size - 1) / size
	sets := make([]PracticeSet, 0, count)
	for i := 0; i < count; i++ {
		start := i*size + 1
		end := (i + 1) * size
		if end > totalQuestions {
			end = totalQuestions
		}
		sets = append(sets, PracticeSet{
			Number:        i + 1,
			StartQuestion: start,
			EndQuestion:   end,
			QuestionCount: end - start + 1,
		})
	}
	return sets
}

// SliceSet returns the ordered slice of pool belonging to set number n,
// or an empty slice when n is out of range. Set slicing keeps the pool's
// stable order: sets are fixed question ranges, not random draws.
func SliceSet(category string, pool []model.Question, n int) []model.Question {
	size := SetSize(category)
	start := (n - 1) * size
	if n < 1 || start >= len(pool) {
		return nil
	}
	end := start + size
	if end > len(pool) {
		end = len(pool)
	}

	set := make([]model.Question, end-start)
	copy(set, pool[start:end])
	return set
}
