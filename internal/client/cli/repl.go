package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// command is one REPL verb. auth commands are hidden from signed-out users.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	auth    bool
	run     func(ctx context.Context, args []string) error
}

// errQuit ends the REPL.
var errQuit = errors.New("quit")

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to the matching entry of cmds. The loop exits on EOF or when a
// command returns errQuit. Other command errors are printed and the loop
// goes on; handlers print their own success output.
func runREPL(ctx context.Context, cmds []command, loggedIn func() bool, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "collabnotes %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		if name == "help" {
			printHelp(cmds, loggedIn(), w)
			continue
		}

		cmd, ok := lookup(cmds, name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}

		switch err := cmd.run(ctx, args); {
		case errors.Is(err, errQuit):
			return
		case err != nil:
			fmt.Fprintln(w, "Error:", err)
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
		for _, alias := range c.aliases {
			if alias == name {
				return c, true
			}
		}
	}
	return command{}, false
}

func printHelp(cmds []command, loggedIn bool, w io.Writer) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range cmds {
		if c.auth && !loggedIn {
			continue
		}
		usage := c.name
		if c.usage != "" {
			usage += " " + c.usage
		}
		fmt.Fprintf(w, "  %-28s %s\n", usage, c.help)
	}
	fmt.Fprintf(w, "  %-28s %s\n", "help", "show this list")
}
