package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// command is one REPL verb. Public commands work without a session.
type command struct {
	name   string
	usage  string
	about  string
	public bool
	hidden bool
	// action completes "Could not ..." when the handler fails.
	action string
	run    func(ctx context.Context, args []string) error
}

// execIface is the surface the REPL needs. The real App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

// runREPL reads lines from reader, parses the first token as the command and
// dispatches to the matching handler with the remaining tokens as arguments.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Handler errors are printed as user-facing messages and never end the loop.
//
// Handlers prompt through the same reader, so the loop never reads ahead.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gratitudes %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			printHelp(a, w)
			continue
		}

		cmd, ok := lookup(a.commands(), name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		if !cmd.public && !a.isLoggedIn() {
			fmt.Fprintln(w, msgLogIn)
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			fmt.Fprintln(w, userMessage(cmd.action, err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// printHelp lists the commands available in the current session state.
func printHelp(a execIface, w io.Writer) {
	loggedIn := a.isLoggedIn()
	fmt.Fprintln(w, "Available commands:")
	for _, c := range a.commands() {
		if c.public == loggedIn && (c.name == "register" || c.name == "login") {
			continue
		}
		if c.hidden || (!c.public && !loggedIn) {
			continue
		}
		fmt.Fprintf(w, "  %-26s %s\n", c.usage, c.about)
	}
	fmt.Fprintf(w, "  %-26s %s\n", "exit", "leave the program")
}
