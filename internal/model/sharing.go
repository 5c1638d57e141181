package model

import "time"

// SocialSharing records whether a user has unlocked premium questions by
// sharing the app. Questions beyond the free limit stay locked until then.
type SocialSharing struct {
	UserID    int        `json:"user_id"`
	HasShared bool       `json:"has_shared"`
	SharedAt  *time.Time `json:"shared_at,omitempty"`
}
