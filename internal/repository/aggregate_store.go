package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/quiz"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AggregateStore persists each user's cumulative progress aggregate in
// Redis as a single JSON value. The whole value is replaced on every save,
// never patched in place.
type AggregateStore struct {
	rdb *redis.Client
}

// NewAggregateStore creates a new AggregateStore.
func NewAggregateStore(rdb *redis.Client) *AggregateStore {
	return &AggregateStore{rdb: rdb}
}

// Load reads the user's aggregate. A missing key yields the empty
// aggregate. A corrupt value also yields the empty aggregate: progress is
// reconstructible advisory data, so failing soft beats locking the user
// out of the quiz.
func (s *AggregateStore) Load(ctx context.Context, userID int) (*model.ProgressAggregate, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.UserProgressKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quiz.NewAggregate(), nil
		}
		return nil, err
	}

	agg, decodeErr := decodeAggregate(data)
	if decodeErr != nil {
		log.Warn().
			Str("component", "aggregate_store").
			Int("user_id", userID).
			Err(decodeErr).
			Msg("Corrupt progress aggregate, resetting to empty")
	}
	return agg, nil
}

// decodeAggregate parses a stored aggregate value. Corrupt bytes yield
// the empty aggregate alongside the decode error; a nil category map is
// repaired so callers can always index into it.
func decodeAggregate(data []byte) (*model.ProgressAggregate, error) {
	agg := &model.ProgressAggregate{}
	if err := json.Unmarshal(data, agg); err != nil {
		return quiz.NewAggregate(), err
	}
	if agg.CategoryStats == nil {
		agg.CategoryStats = make(map[string]*model.CategoryStats)
	}
	return agg, nil
}

// Save replaces the user's aggregate wholesale.
func (s *AggregateStore) Save(ctx context.Context, userID int, agg *model.ProgressAggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, config.CacheKey.UserProgressKey(userID), data, 0).Err()
}

// Clear removes the user's aggregate entirely.
func (s *AggregateStore) Clear(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, config.CacheKey.UserProgressKey(userID)).Err()
}
