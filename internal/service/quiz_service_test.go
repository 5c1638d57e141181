package service

import (
	"context"
	"errors"
	"testing"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/quiz"
	"github.com/rs/zerolog"
)

type fakeAggregateStore struct {
	agg     *model.ProgressAggregate
	loadErr error
	saved   *model.ProgressAggregate
}

func (f *fakeAggregateStore) Load(ctx context.Context, userID int) (*model.ProgressAggregate, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.agg, nil
}

func (f *fakeAggregateStore) Save(ctx context.Context, userID int, agg *model.ProgressAggregate) error {
	f.saved = agg
	return nil
}

func testSummary() model.SessionSummary {
	return model.SessionSummary{
		SessionID:        "s-1",
		UserID:           7,
		Category:         model.CategoryKarimen,
		TotalQuestions:   5,
		Score:            4,
		TimeSpentSeconds: 60,
	}
}

func TestFoldProgressSkipsSaveOnLoadError(t *testing.T) {
	t.Parallel()

	store := &fakeAggregateStore{loadErr: errors.New("connection refused")}
	foldProgress(context.Background(), store, testSummary(), zerolog.Nop())

	if store.saved != nil {
		t.Fatalf("load error must not be followed by a save, got %+v", store.saved)
	}
}

func TestFoldProgressFoldsIntoLoadedAggregate(t *testing.T) {
	t.Parallel()

	agg := quiz.NewAggregate()
	agg.TotalSessions = 3
	agg.AverageScorePercent = 50

	store := &fakeAggregateStore{agg: agg}
	foldProgress(context.Background(), store, testSummary(), zerolog.Nop())

	if store.saved == nil {
		t.Fatal("expected the folded aggregate to be saved")
	}
	if store.saved.TotalSessions != 4 {
		t.Fatalf("TotalSessions = %d, want 4", store.saved.TotalSessions)
	}
	// (50*3 + 80) / 4
	if got := store.saved.AverageScorePercent; got != 57.5 {
		t.Fatalf("AverageScorePercent = %v, want 57.5", got)
	}
}

func TestFoldProgressSkipsDegenerateSummary(t *testing.T) {
	t.Parallel()

	store := &fakeAggregateStore{agg: quiz.NewAggregate()}
	summary := testSummary()
	summary.TotalQuestions = 0
	summary.Score = 0
	foldProgress(context.Background(), store, summary, zerolog.Nop())

	if store.saved != nil {
		t.Fatalf("degenerate summary must not be saved, got %+v", store.saved)
	}
}
