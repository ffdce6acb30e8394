package models

import "time"

// DashboardData is the aggregate snapshot returned by GET /dashboard.
type DashboardData struct {
	RiskScore           RiskScore           `json:"risk_score"`
	QuickStats          QuickStats          `json:"quick_stats"`
	RecentActivity      []RecentActivity    `json:"recent_activity"`
	ConnectionsOverview ConnectionsOverview `json:"connections_overview"`
}

type RiskCategory string

const (
	RiskLow    RiskCategory = "low"
	RiskMedium RiskCategory = "medium"
	RiskHigh   RiskCategory = "high"
)

// RiskCategoryFor buckets a 0..100 score: up to 40 is low, up to 70 medium.
func RiskCategoryFor(score float64) RiskCategory {
	switch {
	case score <= 40:
		return RiskLow
	case score <= 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

type RiskTrend string

const (
	TrendImproving RiskTrend = "improving"
	TrendWorsening RiskTrend = "worsening"
	TrendStable    RiskTrend = "stable"
)

type RiskBreakdown struct {
	PrivacySettings      float64 `json:"privacy_settings"`
	PostFrequency        float64 `json:"post_frequency"`
	PersonalInfoExposure float64 `json:"personal_info_exposure"`
	ThirdPartyApps       float64 `json:"third_party_apps"`
}

type RiskScore struct {
	OverallScore float64       `json:"overall_score"`
	Category     RiskCategory  `json:"category"`
	Breakdown    RiskBreakdown `json:"breakdown"`
	LastUpdated  time.Time     `json:"last_updated"`
	Trend        RiskTrend     `json:"trend"`
}

type QuickStats struct {
	TotalConnections    int `json:"total_connections"`
	ActiveConnections   int `json:"active_connections"`
	CompletedChallenges int `json:"completed_challenges"`
	CurrentStreak       int `json:"current_streak"`
	PointsEarned        int `json:"points_earned"`
}

type ActivityType string

const (
	ActivityConnectionAdded       ActivityType = "connection_added"
	ActivityChallengeCompleted    ActivityType = "challenge_completed"
	ActivityScoreUpdated          ActivityType = "score_updated"
	ActivityRecommendationApplied ActivityType = "recommendation_applied"
)

type RecentActivity struct {
	ID          int64          `json:"id"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

type ConnectionsOverview struct {
	Total      int             `json:"total"`
	ByPlatform []PlatformCount `json:"by_platform"`
}
