package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface used by the REPL and Execute. *App
// satisfies it; tests use a recording stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Feed(ctx context.Context) error
	Join(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoCommand      = errors.New("no command given")
)

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "feed", "f":
		return a.Feed(ctx)
	case "join":
		return a.Join(ctx, args)
	case "profile":
		return a.Profile(ctx, args)
	case "whoami":
		return a.WhoAmI(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func help(loggedIn bool) string {
	if loggedIn {
		return "Available commands: (f)eed, join <id>, profile <id>, whoami, logout, exit"
	}
	return "Available commands: register, login, whoami, exit"
}

// runREPL reads commands line by line and dispatches them until EOF, "exit"
// or "quit". Command errors have already been shown to the user, so the
// loop only reports unknown commands.
//
// Prompts inside commands read from the same reader, so lines are taken from
// it one at a time instead of through a bufio.Scanner.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "ah %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			fmt.Fprintln(w, help(a.isLoggedIn(ctx)))
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			if err := dispatch(ctx, a, cmd, parts[1:]); errors.Is(err, ErrUnknownCommand) {
				fmt.Fprintln(w, "Unknown command:", cmd)
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Root starts the interactive loop. It blocks until the user exits or ctx
// is done.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to activityhub (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader, a.out)
}

// Execute runs a single command given as arguments, e.g. ["join", "12"].
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrNoCommand
	}
	if args[0] == "help" {
		a.println(help(a.isLoggedIn(ctx)))
		return nil
	}
	return dispatch(ctx, a, args[0], args[1:])
}
