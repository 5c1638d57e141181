package quiz

import (
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

func TestResolveTotality(t *testing.T) {
	t.Parallel()

	for _, correct := range []bool{true, false} {
		q := model.Question{ID: 1, Answer: correct, Explanation: "why"}

		matches := 0
		for _, submitted := range []bool{true, false} {
			v := Resolve(q, submitted)
			if v.CorrectAnswer != correct {
				t.Fatalf("correct answer echoed wrong: got %v want %v", v.CorrectAnswer, correct)
			}
			if v.Explanation != "why" {
				t.Fatalf("explanation not carried: %q", v.Explanation)
			}
			if v.IsCorrect != (submitted == correct) {
				t.Fatalf("resolve(%v) against %v: is_correct=%v", submitted, correct, v.IsCorrect)
			}
			if v.IsCorrect {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("exactly one input should be correct, got %d", matches)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()
	q := model.Question{ID: 9, Answer: true, Explanation: "e"}
	first := Resolve(q, false)
	for i := 0; i < 10; i++ {
		if Resolve(q, false) != first {
			t.Fatal("resolve is not deterministic")
		}
	}
}
