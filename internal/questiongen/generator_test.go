package questiongen

import (
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

func TestGeneratedBanks(t *testing.T) {
	t.Parallel()

	karimen := Karimen()
	honmen := HonMen()

	if len(karimen) != QuestionsPerCategory || len(honmen) != QuestionsPerCategory {
		t.Fatalf("bank sizes: karimen=%d honmen=%d", len(karimen), len(honmen))
	}

	ids := make(map[int]bool)
	for _, q := range All() {
		if ids[q.ID] {
			t.Fatalf("duplicate question ID %d", q.ID)
		}
		ids[q.ID] = true
		if q.Text == "" || q.Explanation == "" {
			t.Fatalf("question %d missing text or explanation", q.ID)
		}
	}

	for i, q := range karimen {
		if q.Category != model.CategoryKarimen {
			t.Fatalf("karimen question %d has category %q", q.ID, q.Category)
		}
		if premium := i >= model.FreeQuestionLimit; q.IsPremium != premium {
			t.Fatalf("question %d premium=%v at index %d", q.ID, q.IsPremium, i)
		}
	}

	// Both banks must include sign questions so the "signs" challenge has
	// a pool to draw from.
	for _, bank := range [][]model.Question{karimen, honmen} {
		withImage := 0
		for _, q := range bank {
			if q.ImageURL != nil {
				withImage++
			}
		}
		if withImage == 0 {
			t.Fatal("bank has no sign questions with images")
		}
	}
}

func TestGeneratorIsStable(t *testing.T) {
	t.Parallel()
	first := All()
	second := All()
	for i := range first {
		a, b := first[i], second[i]
		sameImage := (a.ImageURL == nil) == (b.ImageURL == nil) &&
			(a.ImageURL == nil || *a.ImageURL == *b.ImageURL)
		a.ImageURL, b.ImageURL = nil, nil
		if a != b || !sameImage {
			t.Fatalf("generator output differs at %d", i)
		}
	}
}
