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

const (
	ProgressBatchSize    = 50
	ProgressBatchTimeout = 2 * time.Second
	ProgressPollTimeout  = 1 * time.Second
)

// ProgressWorker consumes persist_progress_queue and additively upserts
// per-user-per-category rows in PostgreSQL. The Redis aggregate is the
// source the user reads; these rows are the durable copy.
type ProgressWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewProgressWorker creates a new ProgressWorker.
func NewProgressWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ProgressWorker {
	return &ProgressWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "progress_worker").Logger(),
	}
}

type progressPayload struct {
	UserID           int    `json:"user_id"`
	Category         string `json:"category"`
	TotalQuestions   int    `json:"total_questions"`
	Score            int    `json:"score"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ProgressWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ProgressWorker started")

	batch := make([]*progressPayload, 0, ProgressBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ProgressBatchSize || time.Since(lastFlush) >= ProgressBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ProgressPollTimeout, config.WorkerKey.PersistProgressQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p progressPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch Upsert Wrapper
// ----------------------------------------------------------------

func (w *ProgressWorker) flushSafe(ctx context.Context, batch []*progressPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpsertProgress(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk progress upsert failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL UPSERT using UNNEST + alias
// ----------------------------------------------------------------

func (w *ProgressWorker) bulkUpsertProgress(ctx context.Context, batch []*progressPayload) error {
	n := len(batch)

	users := make([]int, 0, n)
	categories := make([]string, 0, n)
	answered := make([]int, 0, n)
	correct := make([]int, 0, n)
	timeSpent := make([]int, 0, n)

	for _, p := range batch {
		users = append(users, p.UserID)
		categories = append(categories, p.Category)
		answered = append(answered, p.TotalQuestions)
		correct = append(correct, p.Score)
		timeSpent = append(timeSpent, p.TimeSpentSeconds)
	}

	// Two completions of the same user+category can land in one batch, so
	// the inserted rows are pre-summed per key before the upsert.
	query := `
		INSERT INTO user_progress (user_id, category, questions_answered, correct_answers, total_time_spent, last_quiz_date)
		SELECT
			t.user_id,
			t.category,
			SUM(t.answered),
			SUM(t.correct),
			SUM(t.time_spent),
			NOW()
		FROM UNNEST(
			$1::int[],
			$2::text[],
			$3::int[],
			$4::int[],
			$5::int[]
		) AS t (user_id, category, answered, correct, time_spent)
		GROUP BY t.user_id, t.category
		ON CONFLICT (user_id, category) DO UPDATE
		SET questions_answered = user_progress.questions_answered + EXCLUDED.questions_answered,
		    correct_answers   = user_progress.correct_answers + EXCLUDED.correct_answers,
		    total_time_spent  = user_progress.total_time_spent + EXCLUDED.total_time_spent,
		    last_quiz_date    = NOW()
	`

	_, err := w.pool.Exec(ctx, query, users, categories, answered, correct, timeSpent)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single upsert
// ----------------------------------------------------------------

func (w *ProgressWorker) persistSingle(ctx context.Context, p *progressPayload) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO user_progress (user_id, category, questions_answered, correct_answers, total_time_spent, last_quiz_date)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (user_id, category) DO UPDATE
		 SET questions_answered = user_progress.questions_answered + EXCLUDED.questions_answered,
		     correct_answers   = user_progress.correct_answers + EXCLUDED.correct_answers,
		     total_time_spent  = user_progress.total_time_spent + EXCLUDED.total_time_spent,
		     last_quiz_date    = NOW()`,
		p.UserID, p.Category, p.TotalQuestions, p.Score, p.TimeSpentSeconds,
	)
	return err
}
