package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/quiz"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a user has no live session under the
// given ID, typically because it expired or was aborted.
var ErrSessionNotFound = errors.New("quiz session not found")

// SessionStore keeps live quiz sessions in Redis. A session is serialized
// whole on every mutation; there is no partial update, so a crash between
// writes can only lose the latest submit, never corrupt the state machine.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore creates a SessionStore with the configured session TTL.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Save writes the full session state and refreshes the TTL. It also updates
// the user's active-session pointer so clients can resume after a reload.
func (s *SessionStore) Save(ctx context.Context, session *quiz.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := config.CacheKey.QuizSessionKey(session.UserID, session.ID)
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key, data, s.ttl)
	pipe.Set(ctx, config.CacheKey.UserActiveSessionKey(session.UserID), session.ID, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Load reads a session back. A missing key maps to ErrSessionNotFound.
func (s *SessionStore) Load(ctx context.Context, userID int, sessionID string) (*quiz.Session, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.QuizSessionKey(userID, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	session := &quiz.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

// ActiveSessionID returns the user's current session ID, or
// ErrSessionNotFound when none is live.
func (s *SessionStore) ActiveSessionID(ctx context.Context, userID int) (string, error) {
	id, err := s.rdb.Get(ctx, config.CacheKey.UserActiveSessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	return id, err
}

// Delete drops the session and clears the active-session pointer. Used on
// completion and on abort; in both cases the live state simply disappears.
func (s *SessionStore) Delete(ctx context.Context, userID int, sessionID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, config.CacheKey.QuizSessionKey(userID, sessionID))
	pipe.Del(ctx, config.CacheKey.UserActiveSessionKey(userID))
	_, err := pipe.Exec(ctx)
	return err
}
