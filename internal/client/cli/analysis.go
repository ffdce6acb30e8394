package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
	"github.com/tracetrail/tracetrail/internal/client/reports"
)

func (a *App) Trends(ctx context.Context, args []string) error {
	var period models.TrendPeriod
	if len(args) > 0 {
		period = models.TrendPeriod(args[0])
	}
	td, err := a.analysis.Trends(ctx, period)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load trends"))
		return err
	}
	if len(td.Labels) == 0 {
		a.printf("No trend data yet.\n")
		return nil
	}

	header := []string{"PERIOD"}
	for _, ds := range td.Datasets {
		header = append(header, strings.ToUpper(cell(ds.Label, 20)))
	}
	tw := newTable(a.out, header...)
	for i, label := range td.Labels {
		cols := []any{label}
		for _, ds := range td.Datasets {
			if i < len(ds.Data) {
				cols = append(cols, fmt.Sprintf("%.1f", ds.Data[i]))
			} else {
				cols = append(cols, "-")
			}
		}
		row(tw, cols...)
	}
	return tw.Flush()
}

func (a *App) Breakdown(ctx context.Context, _ []string) error {
	list, err := a.analysis.PlatformBreakdown(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load platform breakdown"))
		return err
	}
	if len(list) == 0 {
		a.printf("No platforms connected.\n")
		return nil
	}

	tw := newTable(a.out, "PLATFORM", "CONNECTIONS", "RISK", "SHARE")
	for _, p := range list {
		row(tw, p.Platform, p.Connections,
			fmt.Sprintf("%.0f (%s)", p.RiskScore, models.RiskCategoryFor(p.RiskScore)),
			fmt.Sprintf("%.0f%%", p.Percentage))
	}
	return tw.Flush()
}

func (a *App) History(ctx context.Context, args []string) error {
	days := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			err := client.LocalError(fmt.Sprintf("Invalid number of days %q", args[0]))
			a.notes.Warning(client.Message(err, ""))
			return err
		}
		days = n
	}
	list, err := a.analysis.RiskHistory(ctx, days)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load risk history"))
		return err
	}
	if len(list) == 0 {
		a.printf("No history yet.\n")
		return nil
	}

	tw := newTable(a.out, "DATE", "SCORE", "")
	for _, h := range list {
		row(tw, h.Date, fmt.Sprintf("%.0f", h.Score), bar(h.Score, 20))
	}
	return tw.Flush()
}

// Report downloads the requested report and stores it with the configured
// sink (local directory or S3).
func (a *App) Report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		err := wrongUsage("report", "<privacy|summary>")
		a.notes.Warning(client.Message(err, ""))
		return err
	}
	kind := models.ReportType(strings.ToLower(args[0]))

	body, err := a.analysis.Report(ctx, kind)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to generate report"))
		return err
	}

	loc, err := a.sink.Save(ctx, reports.NewName(kind), body)
	if err != nil {
		a.logger.Error(ctx, "save report", "error", err)
		a.notes.Error("Report downloaded but could not be saved")
		return err
	}
	a.notes.Success(fmt.Sprintf("Report saved to %s", loc))
	return nil
}
