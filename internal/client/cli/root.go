package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/stores"
)

func (a *App) getStatus() string {
	u := a.session.User()
	if u == nil {
		return "(guest) "
	}
	return fmt.Sprintf("(%s) ", u.DisplayName())
}

// Root prints the welcome line, resolves the persisted session and runs the
// REPL until the user leaves.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to TraceTrail CLI (type 'help' for commands)")

	stop := a.watchNotifications()
	defer stop()

	a.restore(ctx)
	runREPL(ctx, a.commands(), a.isLoggedIn, a.getStatus, a.reader)
}

func (a *App) restore(ctx context.Context) {
	err := a.session.Restore(ctx)
	switch {
	case err == nil:
	case errors.Is(err, stores.ErrTokenExpired), errors.Is(err, client.ErrUnauthorized):
		a.notes.Info("Your session has expired. Please log in again.")
	case errors.Is(err, stores.ErrAlreadyRestored), errors.Is(err, stores.ErrClosed):
		return
	default:
		a.notes.Warning(client.Message(err, "Could not restore your session. Please log in again."))
	}

	if u := a.session.User(); u != nil {
		a.notes.Success(fmt.Sprintf("Welcome back, %s", client.Sanitize(u.DisplayName())))
		if err := a.dashboard.Load(ctx); err != nil &&
			!errors.Is(err, stores.ErrSuperseded) && !errors.Is(err, stores.ErrClosed) {
			a.notes.Warning(client.Message(err, "Failed to load dashboard data"))
		}
	}
}

// watchNotifications prints every notification once, when it is pushed.
func (a *App) watchNotifications() (stop func()) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	return a.notes.Subscribe(func(list []stores.Notification) {
		mu.Lock()
		defer mu.Unlock()
		current := make(map[string]bool, len(list))
		for i := len(list) - 1; i >= 0; i-- {
			n := list[i]
			current[n.ID] = true
			if !seen[n.ID] {
				printlnFn(fmt.Sprintf("[%s] %s", n.Severity, n.Message))
			}
		}
		seen = current
	})
}

func (a *App) commands() []command {
	return []command{
		{name: "signup", help: "create an account", guestOnly: true, run: a.Signup},
		{name: "login", usage: "[email]", help: "sign in", guestOnly: true, run: a.Login},
		{name: "forgot", usage: "[email]", help: "request a password reset email", run: a.ForgotPassword},
		{name: "reset", usage: "[token]", help: "set a new password with a reset token", run: a.ResetPassword},
		{name: "logout", help: "sign out", needsAuth: true, run: a.Logout},
		{name: "whoami", help: "show the signed-in user", needsAuth: true, run: a.WhoAmI},
		{name: "refresh-token", help: "renew the access token", needsAuth: true, run: a.RefreshToken},

		{name: "dashboard", help: "show the dashboard snapshot", needsAuth: true, run: a.Dashboard},
		{name: "refresh", help: "reload the dashboard", needsAuth: true, run: a.Refresh},
		{name: "rescore", help: "recalculate the risk score", needsAuth: true, run: a.Rescore},

		{name: "connections", help: "list connected accounts", needsAuth: true, run: a.Connections},
		{name: "connect", usage: "<platform> <username>", help: "connect a social account", needsAuth: true, run: a.Connect},
		{name: "disconnect", usage: "<id>", help: "remove a connection", needsAuth: true, run: a.Disconnect},
		{name: "sync", usage: "<id>", help: "sync a connection", needsAuth: true, run: a.SyncConnection},
		{name: "privacy", usage: "<id> <public|friends|private>", help: "change a connection's privacy setting", needsAuth: true, run: a.SetPrivacy},

		{name: "challenges", help: "list privacy challenges", needsAuth: true, run: a.Challenges},
		{name: "start", usage: "<id>", help: "start a challenge", needsAuth: true, run: a.StartChallenge},
		{name: "complete", usage: "<id>", help: "complete a challenge", needsAuth: true, run: a.CompleteChallenge},
		{name: "progress", help: "show challenge progress", needsAuth: true, run: a.Progress},
		{name: "badges", help: "show earned badges", needsAuth: true, run: a.Badges},
		{name: "leaderboard", help: "show the leaderboard", needsAuth: true, run: a.Leaderboard},

		{name: "trends", usage: "[7d|30d|90d]", help: "show risk trends", needsAuth: true, run: a.Trends},
		{name: "breakdown", help: "show risk by platform", needsAuth: true, run: a.Breakdown},
		{name: "history", usage: "[days]", help: "show risk score history", needsAuth: true, run: a.History},
		{name: "report", usage: "<privacy|summary>", help: "download a report", needsAuth: true, run: a.Report},

		{name: "notifications", help: "list notifications", run: a.Notifications},
		{name: "dismiss", usage: "<id|#>", help: "dismiss a notification", run: a.Dismiss},
		{name: "clear", help: "clear all notifications", run: a.ClearNotifications},
	}
}
