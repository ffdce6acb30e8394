package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
)

const DefaultHistoryDays = 30

type AnalysisService interface {
	Trends(ctx context.Context, period models.TrendPeriod) (*models.TrendData, error)
	PlatformBreakdown(ctx context.Context) ([]models.PlatformBreakdown, error)
	RiskHistory(ctx context.Context, days int) ([]models.RiskHistory, error)
	Report(ctx context.Context, kind models.ReportType) ([]byte, error)
}

type analysisService struct {
	api API
}

func NewAnalysisService(api API) AnalysisService {
	return &analysisService{api: api}
}

// Trends returns chart data for period; an empty period means 30d.
func (s *analysisService) Trends(ctx context.Context, period models.TrendPeriod) (*models.TrendData, error) {
	if period == "" {
		period = models.Period30d
	}
	if !period.Valid() {
		return nil, client.LocalError(fmt.Sprintf("Unsupported period %q (use 7d, 30d or 90d)", period))
	}

	var d models.TrendData
	if err := s.api.Get(ctx, "/analysis/trends", url.Values{"period": {string(period)}}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *analysisService) PlatformBreakdown(ctx context.Context) ([]models.PlatformBreakdown, error) {
	var out []models.PlatformBreakdown
	if err := s.api.Get(ctx, "/analysis/platform-breakdown", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RiskHistory returns one score per day; days <= 0 means 30.
func (s *analysisService) RiskHistory(ctx context.Context, days int) ([]models.RiskHistory, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	var out []models.RiskHistory
	if err := s.api.Get(ctx, "/analysis/risk-history", url.Values{"days": {strconv.Itoa(days)}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Report downloads a generated report document.
func (s *analysisService) Report(ctx context.Context, kind models.ReportType) ([]byte, error) {
	if !kind.Valid() {
		return nil, client.LocalError(fmt.Sprintf("Unsupported report type %q (use privacy or summary)", kind))
	}
	return s.api.GetRaw(ctx, "/analysis/report", url.Values{"type": {string(kind)}})
}
