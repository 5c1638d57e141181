package service

import (
	"context"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
)

// SharingService handles the social unlock for premium questions.
type SharingService struct {
	sharingRepo *repository.SharingRepository
}

// NewSharingService creates a new SharingService.
func NewSharingService(sharingRepo *repository.SharingRepository) *SharingService {
	return &SharingService{sharingRepo: sharingRepo}
}

// Status returns whether the user has unlocked premium questions.
func (s *SharingService) Status(ctx context.Context, userID int) (*model.SocialSharing, error) {
	return s.sharingRepo.Get(ctx, userID)
}

// Unlock records a share and unlocks premium questions. Idempotent.
func (s *SharingService) Unlock(ctx context.Context, userID int) (*model.SocialSharing, error) {
	return s.sharingRepo.MarkShared(ctx, userID)
}
