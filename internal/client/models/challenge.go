package models

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

type Challenge struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Difficulty    Difficulty `json:"difficulty"`
	Points        int        `json:"points"`
	EstimatedTime string     `json:"estimated_time"`
	Category      string     `json:"category"`
	Icon          string     `json:"icon"`
	IsCompleted   bool       `json:"is_completed"`
	Progress      *float64   `json:"progress,omitempty"`
}

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

type ChallengeProgress struct {
	ChallengeID        int64          `json:"challenge_id"`
	UserID             int64          `json:"user_id"`
	Status             ProgressStatus `json:"status"`
	ProgressPercentage float64        `json:"progress_percentage"`
	StartedAt          *time.Time     `json:"started_at,omitempty"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
}

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

type Badge struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
	Tier        BadgeTier  `json:"tier"`
}

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	Username     string `json:"username"`
	Points       int    `json:"points"`
	BadgesEarned int    `json:"badges_earned"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

type Leaderboard struct {
	CurrentUserRank int                `json:"current_user_rank"`
	TopUsers        []LeaderboardEntry `json:"top_users"`
}
