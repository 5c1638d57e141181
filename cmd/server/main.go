package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/database"
	"github.com/menkyoquiz/menkyo-backend/internal/handler"
	"github.com/menkyoquiz/menkyo-backend/internal/logger"
	"github.com/menkyoquiz/menkyo-backend/internal/mailer"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
	"github.com/menkyoquiz/menkyo-backend/internal/router"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
	"github.com/menkyoquiz/menkyo-backend/internal/validator"
	"github.com/menkyoquiz/menkyo-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Menkyo Quiz Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	sharingRepo := repository.NewSharingRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	sessionStore := repository.NewSessionStore(rdb, cfg.SessionTTL)
	aggregateStore := repository.NewAggregateStore(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	questionService := service.NewQuestionService(questionRepo, rdb)
	quizService := service.NewQuizService(cfg, questionService, sharingRepo, sessionStore, aggregateStore, rdb)
	progressService := service.NewProgressService(aggregateStore, progressRepo)
	sharingService := service.NewSharingService(sharingRepo)
	mediaService := service.NewMediaService(cfg)
	statsService := service.NewStatsService(statsRepo, questionRepo)
	mail := mailer.New(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userRepo, adminRepo, mail),
		Quiz:     handler.NewQuizHandler(quizService, questionService),
		Progress: handler.NewProgressHandler(progressService),
		Sharing:  handler.NewSharingHandler(sharingService),
		Question: handler.NewQuestionHandler(questionService),
		Media:    handler.NewMediaHandler(mediaService),
		Stats:    handler.NewStatsHandler(statsService),
		WS:       handler.NewWSHandler(cfg, quizService, log),
		System:   handler.NewSystemHandler(pool, rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	progressWorker := worker.NewProgressWorker(pool, rdb, log)
	historyWorker := worker.NewHistoryWorker(pool, rdb, log)

	go progressWorker.Start(workerCtx)
	go historyWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the category question pools BEFORE accepting traffic so the
	// first sessions never race on a cold cache.
	prewarmCategories(ctx, questionService, log)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// prewarmCategories loads every category's question pool into Redis.
func prewarmCategories(ctx context.Context, questionService *service.QuestionService, log zerolog.Logger) {
	categories, err := questionService.CountByCategory(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
		return
	}
	for _, c := range categories {
		pool, err := questionService.ListByCategory(ctx, c.Category)
		if err != nil {
			log.Warn().Err(err).Str("category", c.Category).Msg("Cache prewarm failed")
			continue
		}
		log.Info().Str("category", c.Category).Int("questions", len(pool)).Msg("Category cache warmed")
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
