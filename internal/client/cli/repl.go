package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. Commands with needsAuth are refused until the
// session is authenticated; guestOnly ones are left out of help once it is.
type command struct {
	name      string
	usage     string
	help      string
	needsAuth bool
	guestOnly bool
	run       func(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to it. Unknown commands are reported back to
// the user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Errors returned by commands are not printed here; commands report their
// own outcome through the notification store.
func runREPL(ctx context.Context, cmds []command, isLoggedIn func() bool, statusFn func() string, reader *bufio.Reader) {
	byName := make(map[string]command, len(cmds))
	for _, c := range cmds {
		byName[c.name] = c
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("tt %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			printlnFn(helpText(cmds, isLoggedIn()))
			continue
		}

		c, ok := byName[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if c.needsAuth && !isLoggedIn() {
			printlnFn("Please log in first (login or signup).")
			continue
		}
		_ = c.run(ctx, args)
	}
}

func helpText(cmds []command, loggedIn bool) string {
	visible := make([]command, 0, len(cmds))
	for _, c := range cmds {
		if loggedIn && c.guestOnly || !loggedIn && c.needsAuth {
			continue
		}
		visible = append(visible, c)
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].name < visible[j].name })

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range visible {
		usage := c.name
		if c.usage != "" {
			usage += " " + c.usage
		}
		fmt.Fprintf(&b, "  %-28s %s\n", usage, c.help)
	}
	b.WriteString("  help | exit")
	return b.String()
}
