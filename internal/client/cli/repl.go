package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Get(ctx context.Context, path string) error
	Health(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the VTV CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that prompt for more input read from
// the same reader. The loop exits on EOF, on a cancelled ctx or when the user
// types "exit" or "quit".
//
//	Not logged in:
//	  - help, login, status, health, exit | quit
//
//	Logged in:
//	  - help, get <path>, status, health, logout, exit | quit
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("vtv %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: get <path>, status, health, logout, exit")
			} else {
				printlnFn("Available commands: login, status, health, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "health":
			_ = a.Health(ctx)

		case "get":
			if len(args) == 0 {
				printlnFn("Usage: get <path>, e.g. get /vehiculos/AB123CD")
				continue
			}
			_ = a.Get(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
