package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrQuestionNotFound is returned when a question ID does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// categoryCacheTTL bounds staleness of the per-category question cache.
// Admin writes invalidate eagerly; the TTL only covers missed invalidations.
const categoryCacheTTL = time.Hour

// QuestionService handles question business logic and the per-category
// question cache that session construction reads from.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, rdb *redis.Client) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, rdb: rdb}
}

// ListByCategory returns the full ordered question list for a category,
// served from the Redis cache when warm.
func (s *QuestionService) ListByCategory(ctx context.Context, category string) ([]model.Question, error) {
	key := config.CacheKey.CategoryQuestionsKey(category)

	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var questions []model.Question
		if err := json.Unmarshal(data, &questions); err == nil {
			return questions, nil
		}
		// Corrupt cache entry: fall through to the database and rewrite it.
		log.Warn().Str("component", "question_service").Str("category", category).
			Msg("Corrupt category cache entry, refreshing from database")
	}

	questions, err := s.questionRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(questions); err == nil {
		if err := s.rdb.Set(ctx, key, data, categoryCacheTTL).Err(); err != nil {
			log.Warn().Str("component", "question_service").Err(err).
				Msg("Failed to warm category cache")
		}
	}

	return questions, nil
}

// ListPaginated retrieves questions for the admin listing.
func (s *QuestionService) ListPaginated(ctx context.Context, category, search string, page, perPage int) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	questions, total, err := s.questionRepo.ListPaginated(ctx, category, search, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return questions, pagination, nil
}

// GetByID retrieves a single question.
func (s *QuestionService) GetByID(ctx context.Context, id int) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// Create inserts a new question and invalidates its category cache.
func (s *QuestionService) Create(ctx context.Context, req model.CreateQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		Text:        req.Text,
		Answer:      *req.Answer,
		Explanation: req.Explanation,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsPremium:   req.IsPremium,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateCategory(ctx, q.Category)
	return q, nil
}

// Update applies a partial update to an existing question. Running
// sessions are unaffected: they hold their own snapshot.
func (s *QuestionService) Update(ctx context.Context, id int, req model.UpdateQuestionRequest) (*model.Question, error) {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCategory := q.Category
	if req.Text != "" {
		q.Text = req.Text
	}
	if req.Answer != nil {
		q.Answer = *req.Answer
	}
	if req.Explanation != "" {
		q.Explanation = req.Explanation
	}
	if req.Category != "" {
		q.Category = req.Category
	}
	if req.ImageURL != nil {
		q.ImageURL = req.ImageURL
	}
	if req.IsPremium != nil {
		q.IsPremium = *req.IsPremium
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	s.invalidateCategory(ctx, oldCategory)
	if q.Category != oldCategory {
		s.invalidateCategory(ctx, q.Category)
	}
	return q, nil
}

// Delete removes a question.
func (s *QuestionService) Delete(ctx context.Context, id int) error {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCategory(ctx, q.Category)
	return nil
}

// Import bulk-inserts questions from an admin upload.
func (s *QuestionService) Import(ctx context.Context, req model.ImportQuestionsRequest) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	categories := make(map[string]struct{})
	for _, r := range req.Questions {
		questions = append(questions, model.Question{
			Text:        r.Text,
			Answer:      *r.Answer,
			Explanation: r.Explanation,
			Category:    r.Category,
			ImageURL:    r.ImageURL,
			IsPremium:   r.IsPremium,
		})
		categories[r.Category] = struct{}{}
	}

	if err := s.questionRepo.BulkInsert(ctx, questions); err != nil {
		return nil, err
	}
	for c := range categories {
		s.invalidateCategory(ctx, c)
	}
	return questions, nil
}

// CountByCategory returns per-category question counts.
func (s *QuestionService) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	counts, err := s.questionRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []model.CategoryCount{}
	}
	return counts, nil
}

func (s *QuestionService) invalidateCategory(ctx context.Context, category string) {
	if err := s.rdb.Del(ctx, config.CacheKey.CategoryQuestionsKey(category)).Err(); err != nil {
		log.Warn().Str("component", "question_service").Str("category", category).Err(err).
			Msg("Failed to invalidate category cache")
	}
}
