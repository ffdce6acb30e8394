package models

type TrendPeriod string

const (
	Period7d  TrendPeriod = "7d"
	Period30d TrendPeriod = "30d"
	Period90d TrendPeriod = "90d"
)

func (p TrendPeriod) Valid() bool {
	return p == Period7d || p == Period30d || p == Period90d
}

type TrendDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
}

type TrendData struct {
	Labels   []string       `json:"labels"`
	Datasets []TrendDataset `json:"datasets"`
}

type PlatformBreakdown struct {
	Platform    string  `json:"platform"`
	Connections int     `json:"connections"`
	RiskScore   float64 `json:"risk_score"`
	Percentage  float64 `json:"percentage"`
}

// RiskHistory is one point of the score history; Date is YYYY-MM-DD.
type RiskHistory struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

type ReportType string

const (
	ReportPrivacy ReportType = "privacy"
	ReportSummary ReportType = "summary"
)

func (r ReportType) Valid() bool {
	return r == ReportPrivacy || r == ReportSummary
}
