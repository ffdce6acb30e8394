package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePrintln replaces printlnFn and returns the captured lines.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

type recorder struct {
	calls    []string
	loggedIn bool
}

func (r *recorder) cmd(name string, needsAuth bool) command {
	return command{
		name:      name,
		help:      name + " help",
		needsAuth: needsAuth,
		run: func(_ context.Context, args []string) error {
			r.calls = append(r.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
			if name == "login" {
				r.loggedIn = true
			}
			return nil
		},
	}
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	out := capturePrintln(t)
	r := &recorder{}
	cmds := []command{r.cmd("login", false), r.cmd("sync", true), r.cmd("notifications", false)}

	runREPL(context.Background(), cmds, func() bool { return r.loggedIn }, func() string { return "" },
		input("sync 4", "", "login a@b.c", "sync 4", "notifications", "foobar", "exit", "sync 5"))

	assert.Equal(t, []string{"login a@b.c", "sync 4", "notifications"}, r.calls)
	assert.Contains(t, *out, "Please log in first (login or signup).")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)
	r := &recorder{}
	runREPL(context.Background(), []command{r.cmd("login", false)}, func() bool { return false }, func() string { return "" },
		input("login x"))
	assert.Equal(t, []string{"login x"}, r.calls)
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	capturePrintln(t)
	r := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runREPL(ctx, []command{r.cmd("login", false)}, func() bool { return false }, func() string { return "" },
		input("login x", "exit"))
	assert.Empty(t, r.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	out := capturePrintln(t)
	runREPL(context.Background(), nil, func() bool { return false }, func() string { return "(alice) " }, input("exit"))
	require.NotEmpty(t, *out)
	assert.Equal(t, "tt (alice) > ", (*out)[0])
}

func TestHelpText(t *testing.T) {
	cmds := []command{
		{name: "login", help: "sign in", guestOnly: true},
		{name: "logout", help: "sign out", needsAuth: true},
		{name: "notifications", help: "list notifications"},
	}

	guest := helpText(cmds, false)
	assert.Contains(t, guest, "login")
	assert.Contains(t, guest, "notifications")
	assert.NotContains(t, guest, "logout")

	member := helpText(cmds, true)
	assert.NotContains(t, member, "sign in")
	assert.Contains(t, member, "logout")
	assert.Contains(t, member, "notifications")
}
