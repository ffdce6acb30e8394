package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
)

func (a *App) Connections(ctx context.Context, _ []string) error {
	list, err := a.connections.List(ctx)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to load connections"))
		return err
	}
	if len(list) == 0 {
		a.printf("No connected accounts. Use: connect <platform> <username>\n")
		return nil
	}

	tw := newTable(a.out, "ID", "PLATFORM", "USERNAME", "ACTIVE", "PRIVACY", "POSTS", "FOLLOWERS", "LAST SYNC")
	for _, c := range list {
		row(tw, c.ID, c.Platform, cell(c.PlatformUsername, 30), c.IsActive, c.PrivacySetting, c.PostCount, c.FollowerCount, formatTime(c.LastSynced))
	}
	return tw.Flush()
}

func (a *App) Connect(ctx context.Context, args []string) error {
	if len(args) < 2 {
		err := wrongUsage("connect", "<platform> <username>")
		a.notes.Warning(client.Message(err, ""))
		return err
	}
	c, err := a.connections.Add(ctx, models.AddConnectionData{
		Platform:         models.Platform(args[0]),
		PlatformUsername: args[1],
	})
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to add connection"))
		return err
	}
	a.notes.Success(fmt.Sprintf("Connected %s account %s (id %d)", c.Platform, client.Sanitize(c.PlatformUsername), c.ID))
	_ = a.dashboard.Refresh(ctx)
	return nil
}

func (a *App) Disconnect(ctx context.Context, args []string) error {
	id, err := parseID(args, "disconnect", "<id>")
	if err != nil {
		a.notes.Warning(client.Message(err, ""))
		return err
	}
	if err := a.connections.Delete(ctx, id); err != nil {
		a.notes.Error(client.Message(err, "Failed to remove connection"))
		return err
	}
	a.notes.Success(fmt.Sprintf("Connection %d removed", id))
	_ = a.dashboard.Refresh(ctx)
	return nil
}

func (a *App) SyncConnection(ctx context.Context, args []string) error {
	id, err := parseID(args, "sync", "<id>")
	if err != nil {
		a.notes.Warning(client.Message(err, ""))
		return err
	}
	st, err := a.connections.Sync(ctx, id)
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to sync connection"))
		return err
	}

	msg := client.Sanitize(st.Message)
	if msg == "" {
		msg = fmt.Sprintf("Sync %s", st.Status)
	}
	if st.Status == models.SyncFailed {
		a.notes.Error(msg)
		return nil
	}
	a.notes.Success(msg)
	return nil
}

func (a *App) SetPrivacy(ctx context.Context, args []string) error {
	const usage = "<id> <public|friends|private>"
	id, err := parseID(args, "privacy", usage)
	if err == nil && len(args) < 2 {
		err = wrongUsage("privacy", usage)
	}
	if err != nil {
		a.notes.Warning(client.Message(err, ""))
		return err
	}

	setting := models.PrivacySetting(strings.ToLower(args[1]))
	switch setting {
	case models.PrivacyPublic, models.PrivacyFriends, models.PrivacyPrivate:
	default:
		err := wrongUsage("privacy", usage)
		a.notes.Warning(client.Message(err, ""))
		return err
	}

	c, err := a.connections.Update(ctx, id, models.ConnectionSettings{PrivacySetting: &setting})
	if err != nil {
		a.notes.Error(client.Message(err, "Failed to update connection"))
		return err
	}
	a.notes.Success(fmt.Sprintf("%s account %s is now %s", c.Platform, client.Sanitize(c.PlatformUsername), setting))
	return nil
}
