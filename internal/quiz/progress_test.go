package quiz

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

func summaryFor(category string, total, score, timeSpent int) model.SessionSummary {
	return model.SessionSummary{
		SessionID:        "s",
		UserID:           1,
		Category:         category,
		TotalQuestions:   total,
		Score:            score,
		TimeSpentSeconds: timeSpent,
	}
}

func TestRecordSessionAdditivity(t *testing.T) {
	t.Parallel()
	agg := NewAggregate()

	const n, q, score = 4, 10, 7
	for i := 0; i < n; i++ {
		if err := RecordSession(agg, summaryFor("Karimen", q, score, 30)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	stats := agg.CategoryStats["Karimen"]
	if stats == nil {
		t.Fatal("category stats missing")
	}
	if stats.Sessions != n || stats.TotalQuestions != n*q || stats.CorrectAnswers != n*score {
		t.Fatalf("additivity broken: %+v", stats)
	}
	if want := 100 * float64(score) / float64(q); math.Abs(stats.AccuracyPercent-want) > 1e-9 {
		t.Fatalf("accuracy = %v, want %v", stats.AccuracyPercent, want)
	}
	if agg.TotalTimeSpentSeconds != n*30 {
		t.Fatalf("time spent = %d, want %d", agg.TotalTimeSpentSeconds, n*30)
	}
}

func TestRunningMeanMatchesNaiveAverage(t *testing.T) {
	t.Parallel()
	agg := NewAggregate()

	// Sessions of different lengths: each still weighs 1 in the mean.
	sessions := []struct{ total, score int }{
		{10, 10}, {4, 1}, {50, 37}, {2, 2}, {8, 0},
	}

	sum := 0.0
	for i, s := range sessions {
		if err := RecordSession(agg, summaryFor("HonMen", s.total, s.score, 0)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		sum += 100 * float64(s.score) / float64(s.total)
	}

	want := sum / float64(len(sessions))
	if math.Abs(agg.AverageScorePercent-want) > 1e-9 {
		t.Fatalf("running mean %v diverged from naive average %v", agg.AverageScorePercent, want)
	}
	if agg.TotalSessions != len(sessions) {
		t.Fatalf("total sessions = %d", agg.TotalSessions)
	}
}

func TestRecordSessionSeparatesCategories(t *testing.T) {
	t.Parallel()
	agg := NewAggregate()

	if err := RecordSession(agg, summaryFor("Karimen", 10, 5, 10)); err != nil {
		t.Fatalf("record karimen: %v", err)
	}
	if err := RecordSession(agg, summaryFor("HonMen", 20, 20, 20)); err != nil {
		t.Fatalf("record honmen: %v", err)
	}

	if len(agg.CategoryStats) != 2 {
		t.Fatalf("expected 2 category buckets, got %d", len(agg.CategoryStats))
	}
	if agg.CategoryStats["Karimen"].AccuracyPercent != 50 {
		t.Fatalf("karimen accuracy: %v", agg.CategoryStats["Karimen"].AccuracyPercent)
	}
	if agg.CategoryStats["HonMen"].AccuracyPercent != 100 {
		t.Fatalf("honmen accuracy: %v", agg.CategoryStats["HonMen"].AccuracyPercent)
	}
}

func TestDegenerateSessionLeavesAggregateUntouched(t *testing.T) {
	t.Parallel()
	agg := NewAggregate()
	if err := RecordSession(agg, summaryFor("Karimen", 5, 3, 12)); err != nil {
		t.Fatalf("seed aggregate: %v", err)
	}

	before, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := RecordSession(agg, summaryFor("Karimen", 0, 0, 0)); !errors.Is(err, ErrDegenerateSession) {
		t.Fatalf("expected ErrDegenerateSession, got %v", err)
	}

	after, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("degenerate session mutated aggregate:\nbefore %s\nafter  %s", before, after)
	}
}

func TestNewAggregateIsEmpty(t *testing.T) {
	t.Parallel()
	agg := NewAggregate()
	if err := RecordSession(agg, summaryFor("Karimen", 10, 9, 60)); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Clearing is a full reset to the zero aggregate.
	cleared := NewAggregate()
	if cleared.TotalSessions != 0 || cleared.AverageScorePercent != 0 || cleared.TotalTimeSpentSeconds != 0 {
		t.Fatalf("cleared aggregate not empty: %+v", cleared)
	}
	if len(cleared.CategoryStats) != 0 {
		t.Fatalf("cleared aggregate has category stats: %v", cleared.CategoryStats)
	}
}

func TestRecordSessionOnNilCategoryMap(t *testing.T) {
	t.Parallel()
	// Aggregates decoded from JSON may carry a nil map.
	agg := &model.ProgressAggregate{}
	if err := RecordSession(agg, summaryFor("Karimen", 10, 4, 0)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if agg.CategoryStats["Karimen"] == nil {
		t.Fatal("category bucket not created")
	}
}
