package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/vtvclient/internal/client/session"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
)

// APIClient is the part of client.Client the CLI drives.
type APIClient interface {
	Login(ctx context.Context, email, password string) (session.TokenPair, error)
	Logout(ctx context.Context)
	IsAuthenticated() bool
	State() session.State
	Do(ctx context.Context, method, path string, in, out any) error
	Health(ctx context.Context) error
	Watch() (<-chan session.State, func())
}

type App struct {
	client APIClient
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	watch  bool
}

// NewApp builds the CLI around c. With watch set, session transitions are
// printed as they happen.
func NewApp(c APIClient, watch bool, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		client: c,
		logger: logger.With("component", "cli"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		watch:  watch,
	}
}

// Run starts the session watcher and blocks in the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "VTV client (type 'help' for commands)")
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Session restored")
	}

	if a.watch {
		go a.StartSessionWatcher(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.client.IsAuthenticated()
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.client.State())
}

// StartSessionWatcher reports session transitions, including those that
// happen outside an explicit login or logout such as a rejected refresh.
func (a *App) StartSessionWatcher(ctx context.Context) {
	ch, stop := a.client.Watch()
	defer stop()

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			a.logger.Debug(ctx, "session state changed", "state", st)
			switch st {
			case session.StateAnonymous:
				fmt.Fprintln(a.out, "Session ended, please log in again")
			case session.StateAuthenticated:
				fmt.Fprintln(a.out, "Session is now authenticated")
			}
		case <-ctx.Done():
			return
		}
	}
}
