package service

import (
	"context"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
)

// StatsService aggregates data for the admin dashboard.
type StatsService struct {
	statsRepo    *repository.StatsRepository
	questionRepo *repository.QuestionRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(statsRepo *repository.StatsRepository, questionRepo *repository.QuestionRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo, questionRepo: questionRepo}
}

// DashboardStats is the full admin dashboard payload.
type DashboardStats struct {
	TotalUsers       int                           `json:"total_users"`
	TotalQuestions   int                           `json:"total_questions"`
	TotalSessions    int                           `json:"total_sessions"`
	QuestionCounts   []model.CategoryCount         `json:"question_counts"`
	CategoryActivity []repository.CategoryActivity `json:"category_activity"`
	RecentSessions   []repository.RecentSession    `json:"recent_sessions"`
	SignupTrend      []repository.SignupPoint      `json:"signup_trend"`
}

// GetDashboard assembles the dashboard in one call.
func (s *StatsService) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	totalUsers, totalQuestions, totalSessions, err := s.statsRepo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	questionCounts, err := s.questionRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	if questionCounts == nil {
		questionCounts = []model.CategoryCount{}
	}

	activity, err := s.statsRepo.GetCategoryActivity(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.statsRepo.GetRecentSessions(ctx, 10)
	if err != nil {
		return nil, err
	}

	trend, err := s.statsRepo.GetSignupTrend(ctx, 30)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:       totalUsers,
		TotalQuestions:   totalQuestions,
		TotalSessions:    totalSessions,
		QuestionCounts:   questionCounts,
		CategoryActivity: activity,
		RecentSessions:   recent,
		SignupTrend:      trend,
	}, nil
}
