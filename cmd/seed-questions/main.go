package main

import (
	"context"
	"fmt"
	"time"

	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/database"
	"github.com/menkyoquiz/menkyo-backend/internal/logger"
	"github.com/menkyoquiz/menkyo-backend/internal/questiongen"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Println("=== Seeding Question Banks ===")

	counts, err := questionRepo.CountByCategory(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check existing questions")
	}
	existing := 0
	for _, c := range counts {
		existing += c.Count
	}
	if existing > 0 {
		fmt.Printf("Database already holds %d questions. Nothing to do.\n", existing)
		return
	}

	questions := questiongen.All()
	if err := questionRepo.BulkInsert(ctx, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to insert questions")
	}

	fmt.Printf("Inserted %d questions (%d Karimen, %d HonMen)\n",
		len(questions), questiongen.QuestionsPerCategory, questiongen.QuestionsPerCategory)
}
