package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/activityhub/internal/client/connectivity"
	"github.com/dmitrijs2005/activityhub/internal/client/models"
	"github.com/dmitrijs2005/activityhub/internal/client/result"
	"github.com/dmitrijs2005/activityhub/internal/client/services"
	"github.com/dmitrijs2005/activityhub/internal/client/session"
	"github.com/dmitrijs2005/activityhub/internal/logging"
)

// Sessions is the part of *session.Controller the CLI reads.
type Sessions interface {
	Authenticated(ctx context.Context) (bool, error)
	ResolvedProfileID(ctx context.Context) (int64, error)
	Subscribe() (<-chan session.LogoutEvent, func())
}

// Deps is everything the App needs. Status may be nil when no connectivity
// watcher runs.
type Deps struct {
	Auth       services.AuthService
	Activities services.ActivityService
	Sessions   Sessions
	Status     func() connectivity.State
	In         io.Reader
	Out        io.Writer
	Log        logging.Logger
}

// App is the controller layer of the client. Each logical operation owns a
// result.Slot; all of them live in one scope that ends with Close.
type App struct {
	auth       services.AuthService
	activities services.ActivityService
	sessions   Sessions
	status     func() connectivity.State
	reader     *bufio.Reader
	log        logging.Logger

	scope    *result.Scope
	authSlot *result.Slot[int64]
	feedSlot *result.Slot[[]models.Activity]
	joinSlot *result.Slot[models.Activity]
	ackSlot  *result.Slot[struct{}]

	out io.Writer
	wg  sync.WaitGroup

	netMu   sync.Mutex
	offline bool
}

func NewApp(ctx context.Context, d Deps) *App {
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "cli")

	scope := result.NewScope(ctx)
	a := &App{
		auth:       d.Auth,
		activities: d.Activities,
		sessions:   d.Sessions,
		status:     d.Status,
		reader:     bufio.NewReader(d.In),
		out:        &syncWriter{w: d.Out},
		log:        log,
		scope:      scope,
		authSlot:   result.NewSlot[int64](scope, "auth", log),
		feedSlot:   result.NewSlot[[]models.Activity](scope, "feed", log),
		joinSlot:   result.NewSlot[models.Activity](scope, "join", log),
		ackSlot:    result.NewSlot[struct{}](scope, "ack", log),
	}

	events, unsub := d.Sessions.Subscribe()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer unsub()
		a.watchLogout(scope.Context(), events)
	}()

	return a
}

// Close ends the scope. Running operations are cancelled and their results
// are never rendered.
func (a *App) Close() {
	a.scope.Close()
	a.wg.Wait()
	a.scope.Wait()
}

// ConnectivityChanged is meant for connectivity.Watcher.OnChange. It tells
// the user when the device goes offline and when it comes back; the first
// online report after start is silent.
func (a *App) ConnectivityChanged(st connectivity.State) {
	a.netMu.Lock()
	defer a.netMu.Unlock()

	switch st {
	case connectivity.StateOffline:
		if !a.offline {
			a.offline = true
			a.println("No internet connection, requests will fail until it is back")
		}
	case connectivity.StateOnline:
		if a.offline {
			a.offline = false
			a.println("Back online")
		}
	}
}

func (a *App) watchLogout(ctx context.Context, events <-chan session.LogoutEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Reason != "" {
				a.println(ev.Reason)
			} else {
				a.println("Logged out.")
			}
		case <-ctx.Done():
			return
		}
	}
}

// syncWriter serializes writes from the command loop and the logout
// watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	ok, err := a.sessions.Authenticated(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read session", "error", err)
		return false
	}
	return ok
}

// getStatus renders the prompt suffix, for example "(profile 7, online)".
func (a *App) getStatus(ctx context.Context) string {
	var parts []string
	if id, err := a.sessions.ResolvedProfileID(ctx); err == nil {
		parts = append(parts, fmt.Sprintf("profile %d", id))
	}
	if a.status != nil {
		if st := a.status(); st != connectivity.StateUnknown {
			parts = append(parts, string(st))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// track runs op in slot, prints a progress line for Loading and then waits
// for the terminal value. On Error the normalized message is printed and
// returned as an error.
func track[T any](ctx context.Context, a *App, slot *result.Slot[T], label string, op result.Operation[T]) (T, error) {
	var zero T

	if slot.Run(op) == 0 {
		return zero, fmt.Errorf("%s: app closed", label)
	}
	// Run publishes Loading before it returns.
	a.println(label + "...")

	r, err := slot.Await(ctx)
	if err != nil {
		if a.scope.Closed() {
			return zero, fmt.Errorf("%s: app closed", label)
		}
		return zero, err
	}
	if r.Status == result.StatusError {
		a.println("Error:", r.Message)
		return zero, fmt.Errorf("%s: %s", label, r.Message)
	}
	return r.Data, nil
}
