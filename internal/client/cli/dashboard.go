package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
	"github.com/tracetrail/tracetrail/internal/client/stores"
)

// Dashboard prints the current snapshot. Nothing is fetched unless the store
// has never loaded.
func (a *App) Dashboard(ctx context.Context, _ []string) error {
	st := a.dashboard.State()
	if st.Snapshot == nil && !st.Loading {
		if err := a.dashboard.Load(ctx); err != nil {
			a.loadFailed(err)
			return err
		}
		st = a.dashboard.State()
	}

	if st.Error != "" {
		a.printf("! %s (showing last loaded data)\n", st.Error)
	}
	if st.Snapshot == nil {
		a.printf("No dashboard data yet.\n")
		return nil
	}
	a.printDashboard(st.Snapshot)
	return nil
}

// Refresh reloads the snapshot; on failure the previous one stays visible.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	if err := a.dashboard.Refresh(ctx); err != nil {
		a.loadFailed(err)
		return err
	}
	a.notes.Success("Dashboard updated")
	a.printDashboard(a.dashboard.State().Snapshot)
	return nil
}

// Rescore asks the backend to recalculate the risk score, then reloads the
// dashboard so the snapshot reflects it.
func (a *App) Rescore(ctx context.Context, _ []string) error {
	rs, err := a.stats.RefreshRiskScore(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to refresh risk score"))
		return err
	}
	a.notes.Success(fmt.Sprintf("Risk score recalculated: %.0f (%s)", rs.OverallScore, models.RiskCategoryFor(rs.OverallScore)))
	_ = a.dashboard.Refresh(ctx)
	return nil
}

// loadFailed reports a failed load. Superseded or abandoned loads are
// silent: a newer load owns the outcome.
func (a *App) loadFailed(err error) {
	if errors.Is(err, stores.ErrSuperseded) || errors.Is(err, stores.ErrClosed) {
		return
	}
	a.notes.Error(a.dashboard.State().Error)
}

func (a *App) printDashboard(d *models.DashboardData) {
	rs := d.RiskScore
	category := rs.Category
	if category == "" {
		category = models.RiskCategoryFor(rs.OverallScore)
	}
	a.printf("Risk score: %.0f/100 %s %s", rs.OverallScore, bar(rs.OverallScore, 20), category)
	if rs.Trend != "" {
		a.printf(", %s", rs.Trend)
	}
	a.printf("\n")
	if !rs.LastUpdated.IsZero() {
		a.printf("Updated:    %s\n", formatTime(&rs.LastUpdated))
	}

	b := rs.Breakdown
	tw := newTable(a.out, "  FACTOR", "SCORE")
	row(tw, "  privacy settings", fmt.Sprintf("%.0f", b.PrivacySettings))
	row(tw, "  post frequency", fmt.Sprintf("%.0f", b.PostFrequency))
	row(tw, "  personal info exposure", fmt.Sprintf("%.0f", b.PersonalInfoExposure))
	row(tw, "  third-party apps", fmt.Sprintf("%.0f", b.ThirdPartyApps))
	_ = tw.Flush()

	q := d.QuickStats
	a.printf("Connections: %d (%d active)  Challenges completed: %d  Streak: %d days  Points: %d\n",
		q.TotalConnections, q.ActiveConnections, q.CompletedChallenges, q.CurrentStreak, q.PointsEarned)

	if len(d.ConnectionsOverview.ByPlatform) > 0 {
		a.printf("By platform:")
		for _, p := range d.ConnectionsOverview.ByPlatform {
			a.printf(" %s=%d", p.Platform, p.Count)
		}
		a.printf("\n")
	}

	if len(d.RecentActivity) == 0 {
		a.printf("No recent activity.\n")
		return
	}
	a.printf("Recent activity:\n")
	tw = newTable(a.out, "  WHEN", "TYPE", "DESCRIPTION")
	for _, act := range d.RecentActivity {
		row(tw, "  "+formatTime(&act.Timestamp), act.Type, cell(act.Description, 60))
	}
	_ = tw.Flush()
}
