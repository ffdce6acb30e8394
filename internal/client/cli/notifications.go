package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tracetrail/tracetrail/internal/client/client"
)

// Notifications lists the visible notifications, newest first, numbered so
// they can be dismissed by position.
func (a *App) Notifications(_ context.Context, _ []string) error {
	list := a.notes.List()
	if len(list) == 0 {
		a.printf("No notifications.\n")
		return nil
	}
	tw := newTable(a.out, "#", "SEVERITY", "MESSAGE", "ID")
	for i, n := range list {
		row(tw, i+1, n.Severity, n.Message, n.ID)
	}
	return tw.Flush()
}

// Dismiss removes a notification by id or by its position in the list.
func (a *App) Dismiss(_ context.Context, args []string) error {
	if len(args) == 0 {
		err := wrongUsage("dismiss", "<id|#>")
		a.printf("%s\n", client.Message(err, ""))
		return err
	}

	id := args[0]
	if pos, err := strconv.Atoi(id); err == nil {
		list := a.notes.List()
		if pos < 1 || pos > len(list) {
			err := client.LocalError(fmt.Sprintf("No notification #%d", pos))
			a.printf("%s\n", client.Message(err, ""))
			return err
		}
		id = list[pos-1].ID
	}
	a.notes.Dismiss(id)
	return nil
}

func (a *App) ClearNotifications(_ context.Context, _ []string) error {
	a.notes.Clear()
	return nil
}
