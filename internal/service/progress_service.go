package service

import (
	"context"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
)

// ProgressService exposes the user's cumulative statistics and the
// clear-all-progress reset.
type ProgressService struct {
	aggregates   *repository.AggregateStore
	progressRepo *repository.ProgressRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(aggregates *repository.AggregateStore, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{aggregates: aggregates, progressRepo: progressRepo}
}

// Get returns the user's aggregate. Never fails on missing or corrupt
// data; the store already falls back to the empty aggregate.
func (s *ProgressService) Get(ctx context.Context, userID int) (*model.ProgressAggregate, error) {
	return s.aggregates.Load(ctx, userID)
}

// History returns the user's durable progress: recent completed sessions
// and the per-category totals written by the workers.
func (s *ProgressService) History(ctx context.Context, userID int) ([]repository.HistoryEntry, []model.UserProgressRow, error) {
	history, err := s.progressRepo.ListSessions(ctx, userID, 20)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.progressRepo.ListUserProgress(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if rows == nil {
		rows = []model.UserProgressRow{}
	}
	return history, rows, nil
}

// Clear resets the user's progress entirely: the Redis aggregate and the
// durable per-category rows. Session history stays, as a record of past
// runs rather than live progress.
func (s *ProgressService) Clear(ctx context.Context, userID int) error {
	if err := s.aggregates.Clear(ctx, userID); err != nil {
		return err
	}
	return s.progressRepo.DeleteUserProgress(ctx, userID)
}
