package quiz

import (
	"math/rand"
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()
	pool := questionPool("Karimen", true, false, true, false, true, true, false, true)
	r := rand.New(rand.NewSource(42))

	shuffled := Shuffle(pool, r)
	if len(shuffled) != len(pool) {
		t.Fatalf("length changed: %d != %d", len(shuffled), len(pool))
	}

	seen := make(map[int]int)
	for _, q := range shuffled {
		seen[q.ID]++
	}
	for _, q := range pool {
		if seen[q.ID] != 1 {
			t.Fatalf("question %d appears %d times", q.ID, seen[q.ID])
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	pool := questionPool("Karimen", true, false, true, false, true)
	r := rand.New(rand.NewSource(1))

	Shuffle(pool, r)
	for i, q := range pool {
		if q.ID != i+1 {
			t.Fatalf("input pool mutated at %d: id=%d", i, q.ID)
		}
	}
}

func TestShuffleUniformity(t *testing.T) {
	t.Parallel()
	// Over many trials every question should land in the first slot
	// roughly equally often. A sort-by-random-comparator shuffle fails
	// this badly; Fisher-Yates passes comfortably.
	pool := questionPool("Karimen", true, false, true, false)
	r := rand.New(rand.NewSource(7))

	const trials = 40000
	firstSlot := make(map[int]int)
	for i := 0; i < trials; i++ {
		firstSlot[Shuffle(pool, r)[0].ID]++
	}

	expected := trials / len(pool)
	for id, count := range firstSlot {
		if count < expected*9/10 || count > expected*11/10 {
			t.Fatalf("question %d in first slot %d times, expected ~%d", id, count, expected)
		}
	}
}

func TestDrawLimits(t *testing.T) {
	t.Parallel()
	pool := questionPool("HonMen", true, false, true, false, true)

	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"exact", 5, 5},
		{"truncated", 2, 2},
		{"zero means all", 0, 5},
		{"oversized means all", 10, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(3))
			got := Draw(pool, tc.limit, r)
			if len(got) != tc.want {
				t.Fatalf("draw(%d) returned %d questions, want %d", tc.limit, len(got), tc.want)
			}

			seen := make(map[int]bool)
			for _, q := range got {
				if seen[q.ID] {
					t.Fatalf("question %d drawn twice", q.ID)
				}
				seen[q.ID] = true
			}
		})
	}
}

func TestSets(t *testing.T) {
	t.Parallel()

	sets := Sets(model.CategoryKarimen, 150)
	if len(sets) != 3 {
		t.Fatalf("karimen 150 questions: %d sets, want 3", len(sets))
	}
	if sets[0].StartQuestion != 1 || sets[0].EndQuestion != 50 || sets[2].EndQuestion != 150 {
		t.Fatalf("unexpected set bounds: %+v", sets)
	}

	honmen := Sets(model.CategoryHonMen, 150)
	if len(honmen) != 2 {
		t.Fatalf("honmen 150 questions: %d sets, want 2", len(honmen))
	}
	if honmen[1].QuestionCount != 50 {
		t.Fatalf("short last set: %+v", honmen[1])
	}

	if got := Sets(model.CategoryKarimen, 0); len(got) != 0 {
		t.Fatalf("zero questions produced sets: %v", got)
	}
}

func TestSliceSet(t *testing.T) {
	t.Parallel()
	pool := make([]model.Question, 120)
	for i := range pool {
		pool[i] = model.Question{ID: i + 1, Category: model.CategoryKarimen}
	}

	set1 := SliceSet(model.CategoryKarimen, pool, 1)
	if len(set1) != 50 || set1[0].ID != 1 || set1[49].ID != 50 {
		t.Fatalf("set 1 wrong: len=%d first=%d", len(set1), set1[0].ID)
	}

	set3 := SliceSet(model.CategoryKarimen, pool, 3)
	if len(set3) != 20 || set3[0].ID != 101 {
		t.Fatalf("short tail set wrong: len=%d", len(set3))
	}

	if got := SliceSet(model.CategoryKarimen, pool, 4); got != nil {
		t.Fatalf("out-of-range set should be nil, got %d questions", len(got))
	}
	if got := SliceSet(model.CategoryKarimen, pool, 0); got != nil {
		t.Fatalf("set 0 should be nil, got %d questions", len(got))
	}
}
