package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// HistoryWorker consumes persist_sessions_queue and inserts completed
// sessions into the quiz_sessions history table.
type HistoryWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewHistoryWorker creates a new HistoryWorker.
func NewHistoryWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *HistoryWorker {
	return &HistoryWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "history_worker").Logger(),
	}
}

type historyPayload struct {
	SessionID        string    `json:"session_id"`
	UserID           int       `json:"user_id"`
	Category         string    `json:"category"`
	TotalQuestions   int       `json:"total_questions"`
	Score            int       `json:"score"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	ChallengeType    string    `json:"challenge_type"`
	SetNumber        int       `json:"set_number"`
	CompletedAt      time.Time `json:"completed_at"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *HistoryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *HistoryWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistSessionsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload historyPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistSession(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Int("user_id", payload.UserID).
			Str("session_id", payload.SessionID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistSessionsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *HistoryWorker) persistSession(ctx context.Context, p *historyPayload) error {
	// Idempotent on session ID: a requeued payload never duplicates a row.
	_, err := w.pool.Exec(ctx,
		`INSERT INTO quiz_sessions (id, user_id, category, total_questions, correct_answers, time_spent, challenge_type, set_number, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, 0), $9)
		 ON CONFLICT (id) DO NOTHING`,
		p.SessionID, p.UserID, p.Category, p.TotalQuestions, p.Score, p.TimeSpentSeconds,
		p.ChallengeType, p.SetNumber, p.CompletedAt,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *HistoryWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistSessionsQueue).Result()
		if err != nil {
			break
		}

		var payload historyPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistSession(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistSessionsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
