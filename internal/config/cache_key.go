package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserLoginKey returns the cache key for a user's login session (single device).
func (r *CacheKeyStruct) UserLoginKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// QuizSessionKey returns the cache key holding a serialized quiz session.
func (r *CacheKeyStruct) QuizSessionKey(userID int, sessionID string) string {
	return fmt.Sprintf("user:%d:quiz:%s:session", userID, sessionID)
}

// UserActiveSessionKey returns the cache key for a user's currently active quiz session ID.
func (r *CacheKeyStruct) UserActiveSessionKey(userID int) string {
	return fmt.Sprintf("user:%d:active_session", userID)
}

// UserProgressKey returns the cache key for a user's persisted progress aggregate.
func (r *CacheKeyStruct) UserProgressKey(userID int) string {
	return fmt.Sprintf("user:%d:quiz_progress", userID)
}

// CategoryQuestionsKey returns the cache key for a category's question payload.
func (r *CacheKeyStruct) CategoryQuestionsKey(category string) string {
	return fmt.Sprintf("questions:category:%s", category)
}

var CacheKey = NewCacheKeyStruct()
