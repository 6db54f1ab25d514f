package result

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/activityhub/internal/broadcast"
	"github.com/dmitrijs2005/activityhub/internal/client/client"
	"github.com/dmitrijs2005/activityhub/internal/logging"
)

// Operation is a repository call tracked by a Slot.
type Operation[T any] func(ctx context.Context) (T, error)

// Slot tracks one logical operation ("load feed", "join activity").
//
// Run publishes Loading, executes the operation on its own goroutine and
// publishes its terminal value. When Run is called again before an earlier
// invocation has finished, the earlier result is discarded: the most
// recently initiated invocation wins.
type Slot[T any] struct {
	name  string
	scope *Scope
	log   logging.Logger

	mu    sync.Mutex
	gen   uint64
	state Result[T]
	hub   *broadcast.Hub[Result[T]]

	// settled is closed when the next terminal value is published. It does
	// not depend on the hub, so a slow subscriber cannot make Await miss it.
	settled chan struct{}
}

func NewSlot[T any](scope *Scope, name string, log logging.Logger) *Slot[T] {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("slot", name)
	return &Slot[T]{
		name:    name,
		scope:   scope,
		log:     log,
		hub:     broadcast.NewHub[Result[T]](broadcast.DefaultBuffer, log),
		settled: make(chan struct{}),
	}
}

// State returns the latest published value, StatusIdle before the first Run.
func (s *Slot[T]) State() Result[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe streams values published from now on. Delivery never blocks
// the slot: a subscriber that falls DefaultBuffer values behind misses the
// newer ones. Use Await to wait for a terminal value reliably.
func (s *Slot[T]) Subscribe() (<-chan Result[T], func()) {
	return s.hub.Subscribe()
}

// Run starts a new invocation and returns its generation. Loading is
// published before Run returns. On a closed scope Run does nothing and
// returns 0.
func (s *Slot[T]) Run(op Operation[T]) uint64 {
	s.mu.Lock()
	if s.scope.Closed() {
		s.mu.Unlock()
		return 0
	}
	s.gen++
	gen := s.gen
	if s.state.Terminal() {
		s.settled = make(chan struct{})
	}
	s.publishLocked(Loading[T]())
	s.mu.Unlock()

	s.scope.spawn(func(ctx context.Context) {
		s.finish(ctx, gen, s.invoke(ctx, op))
	})
	return gen
}

func (s *Slot[T]) invoke(ctx context.Context, op Operation[T]) (r Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Error(ctx, "operation panicked", "panic", fmt.Sprint(p))
			r = Failure[T](client.MsgUnknown)
		}
	}()
	return From(op(ctx))
}

func (s *Slot[T]) finish(ctx context.Context, gen uint64, r Result[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scope.Closed() {
		s.log.Debug(ctx, "scope closed, result dropped", "generation", gen)
		return
	}
	if gen != s.gen {
		s.log.Debug(ctx, "superseded result dropped", "generation", gen, "current", s.gen)
		return
	}
	s.publishLocked(r)
	close(s.settled)
}

func (s *Slot[T]) publishLocked(r Result[T]) {
	s.state = r
	s.hub.Publish(s.scope.Context(), r)
}

// Await blocks until the slot holds a terminal value and returns it. It
// fails when ctx is done or the scope is closed first.
func (s *Slot[T]) Await(ctx context.Context) (Result[T], error) {
	for {
		s.mu.Lock()
		r, settled := s.state, s.settled
		s.mu.Unlock()

		if r.Terminal() {
			return r, nil
		}

		select {
		case <-settled:
			// A new Run may already have replaced the value; look again.
		case <-ctx.Done():
			return Result[T]{}, ctx.Err()
		case <-s.scope.Context().Done():
			return Result[T]{}, s.scope.Context().Err()
		}
	}
}
