package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tracetrail/tracetrail/internal/client/models"
)

const DefaultActivityLimit = 10

type DashboardService interface {
	Snapshot(ctx context.Context) (*models.DashboardData, error)
	RiskScore(ctx context.Context) (*models.RiskScore, error)
	QuickStats(ctx context.Context) (*models.QuickStats, error)
	RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error)
	RefreshRiskScore(ctx context.Context) (*models.RiskScore, error)
}

type dashboardService struct {
	api API
}

func NewDashboardService(api API) DashboardService {
	return &dashboardService{api: api}
}

// Snapshot fetches the whole dashboard aggregate in one call.
func (s *dashboardService) Snapshot(ctx context.Context) (*models.DashboardData, error) {
	var d models.DashboardData
	if err := s.api.Get(ctx, "/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *dashboardService) RiskScore(ctx context.Context) (*models.RiskScore, error) {
	var r models.RiskScore
	if err := s.api.Get(ctx, "/dashboard/risk-score", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *dashboardService) QuickStats(ctx context.Context) (*models.QuickStats, error) {
	var q models.QuickStats
	if err := s.api.Get(ctx, "/dashboard/stats", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// RecentActivity returns the latest activity entries; limit <= 0 means 10.
func (s *dashboardService) RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var out []models.RecentActivity
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := s.api.Get(ctx, "/dashboard/activity", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *dashboardService) RefreshRiskScore(ctx context.Context) (*models.RiskScore, error) {
	var r models.RiskScore
	if err := s.api.Post(ctx, "/dashboard/risk-score/refresh", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
