package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// SharingRepository handles social-unlock records.
type SharingRepository struct {
	pool *pgxpool.Pool
}

// NewSharingRepository creates a new SharingRepository.
func NewSharingRepository(pool *pgxpool.Pool) *SharingRepository {
	return &SharingRepository{pool: pool}
}

// Get returns the user's sharing record. A user with no row has not shared.
func (r *SharingRepository) Get(ctx context.Context, userID int) (*model.SocialSharing, error) {
	s := &model.SocialSharing{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`SELECT has_shared, shared_at FROM user_social_sharing WHERE user_id = $1`, userID,
	).Scan(&s.HasShared, &s.SharedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, nil
		}
		return nil, err
	}
	return s, nil
}

// MarkShared records that a user has shared the app, unlocking premium
// questions. Idempotent: repeated shares keep the original timestamp.
func (r *SharingRepository) MarkShared(ctx context.Context, userID int) (*model.SocialSharing, error) {
	s := &model.SocialSharing{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_social_sharing (user_id, has_shared, shared_at)
		 VALUES ($1, TRUE, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET has_shared = TRUE
		 RETURNING has_shared, shared_at`, userID,
	).Scan(&s.HasShared, &s.SharedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
