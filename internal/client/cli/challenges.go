package cli

import (
	"context"
	"fmt"

	"github.com/tracetrail/tracetrail/internal/client/client"
)

func (a *App) Challenges(ctx context.Context, _ []string) error {
	list, err := a.challenges.List(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load challenges"))
		return err
	}
	if len(list) == 0 {
		a.printf("No challenges available.\n")
		return nil
	}

	tw := newTable(a.out, "ID", "TITLE", "DIFFICULTY", "POINTS", "TIME", "STATUS")
	for _, c := range list {
		status := "open"
		switch {
		case c.IsCompleted:
			status = "done"
		case c.Progress != nil:
			status = fmt.Sprintf("%.0f%%", *c.Progress)
		}
		row(tw, c.ID, cell(c.Title, 40), c.Difficulty, c.Points, c.EstimatedTime, status)
	}
	return tw.Flush()
}

func (a *App) StartChallenge(ctx context.Context, args []string) error {
	id, err := parseID(args, "start", "<id>")
	if err != nil {
		a.notes.Warning(client.Message(err, ""))
		return err
	}
	if _, err := a.challenges.Start(ctx, id); err != nil {
		a.notes.Error(client.Message(err, "Failed to start challenge"))
		return err
	}
	a.notes.Success(fmt.Sprintf("Challenge %d started", id))
	return nil
}

func (a *App) CompleteChallenge(ctx context.Context, args []string) error {
	id, err := parseID(args, "complete", "<id>")
	if err != nil {
		a.notes.Warning(client.Message(err, ""))
		return err
	}
	if _, err := a.challenges.Complete(ctx, id); err != nil {
		a.notes.Error(client.Message(err, "Failed to complete challenge"))
		return err
	}
	a.notes.Success(fmt.Sprintf("Challenge %d completed", id))
	_ = a.dashboard.Refresh(ctx)
	return nil
}

func (a *App) Progress(ctx context.Context, _ []string) error {
	list, err := a.challenges.Progress(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load progress"))
		return err
	}
	if len(list) == 0 {
		a.printf("No challenges started yet.\n")
		return nil
	}

	tw := newTable(a.out, "CHALLENGE", "STATUS", "PROGRESS", "STARTED", "COMPLETED")
	for _, p := range list {
		row(tw, p.ChallengeID, p.Status, bar(p.ProgressPercentage, 10), formatTime(p.StartedAt), formatTime(p.CompletedAt))
	}
	return tw.Flush()
}

func (a *App) Badges(ctx context.Context, _ []string) error {
	list, err := a.challenges.Badges(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load badges"))
		return err
	}
	if len(list) == 0 {
		a.printf("No badges yet. Complete challenges to earn them.\n")
		return nil
	}

	tw := newTable(a.out, "BADGE", "TIER", "EARNED", "DESCRIPTION")
	for _, b := range list {
		row(tw, cell(b.Name, 30), b.Tier, formatTime(b.EarnedAt), cell(b.Description, 50))
	}
	return tw.Flush()
}

func (a *App) Leaderboard(ctx context.Context, _ []string) error {
	lb, err := a.challenges.Leaderboard(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load leaderboard"))
		return err
	}

	tw := newTable(a.out, "RANK", "USER", "POINTS", "BADGES")
	for _, e := range lb.TopUsers {
		row(tw, e.Rank, cell(e.Username, 30), e.Points, e.BadgesEarned)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if lb.CurrentUserRank > 0 {
		a.printf("Your rank: %d\n", lb.CurrentUserRank)
	}
	return nil
}
