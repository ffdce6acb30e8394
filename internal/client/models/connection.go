package models

import "time"

type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms lists the social platforms the backend accepts.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedIn}

func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type PrivacySetting string

const (
	PrivacyPublic  PrivacySetting = "public"
	PrivacyFriends PrivacySetting = "friends"
	PrivacyPrivate PrivacySetting = "private"
)

type SocialConnection struct {
	ID               int64          `json:"id"`
	UserID           int64          `json:"user_id"`
	Platform         Platform       `json:"platform"`
	PlatformUsername string         `json:"platform_username"`
	ConnectedAt      time.Time      `json:"connected_at"`
	IsActive         bool           `json:"is_active"`
	LastSynced       *time.Time     `json:"last_synced,omitempty"`
	PostCount        int            `json:"post_count"`
	FollowerCount    int            `json:"follower_count"`
	PrivacySetting   PrivacySetting `json:"privacy_setting"`
}

type AddConnectionData struct {
	Platform         Platform `json:"platform"`
	PlatformUsername string   `json:"platform_username"`
	AccessToken      string   `json:"access_token,omitempty"`
}

// ConnectionSettings is a partial update; nil fields are left untouched.
type ConnectionSettings struct {
	IsActive       *bool           `json:"is_active,omitempty"`
	PrivacySetting *PrivacySetting `json:"privacy_setting,omitempty"`
}

type SyncState string

const (
	SyncSyncing   SyncState = "syncing"
	SyncCompleted SyncState = "completed"
	SyncFailed    SyncState = "failed"
)

type SyncStatus struct {
	Status     SyncState `json:"status"`
	Message    string    `json:"message"`
	LastSynced time.Time `json:"last_synced"`
}
