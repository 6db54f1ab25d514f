package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/activityhub/internal/logging"
	"github.com/jonboulle/clockwork"
)

type State string

const (
	StateUnknown State = "unknown"
	StateOnline  State = "online"
	StateOffline State = "offline"
)

// Watcher polls a Checker on a fixed interval and logs every change of state.
type Watcher struct {
	checker  Checker
	clock    clockwork.Clock
	interval time.Duration
	log      logging.Logger

	mu       sync.RWMutex
	state    State
	onChange func(State)
}

func NewWatcher(checker Checker, clock clockwork.Clock, interval time.Duration, log logging.Logger) *Watcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Watcher{
		checker:  checker,
		clock:    clock,
		interval: interval,
		log:      log.With("component", "connectivity"),
		state:    StateUnknown,
	}
}

// OnChange registers fn to be called after every state change. Must be set
// before Run.
func (w *Watcher) OnChange(fn func(State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Run checks once immediately, then on every tick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx)
	for {
		select {
		case <-ticker.Chan():
			w.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	next := StateOffline
	if w.checker.Reachable(ctx) {
		next = StateOnline
	}

	w.mu.Lock()
	prev := w.state
	w.state = next
	fn := w.onChange
	w.mu.Unlock()

	if prev == next {
		return
	}
	w.log.Info(ctx, "connectivity changed", "from", prev, "to", next)
	if fn != nil {
		fn(next)
	}
}
