package result

import (
	"context"
	"sync"
)

// Scope is the lifetime of the controller that owns a set of slots. Closing
// it cancels the context passed to running operations; their results are
// dropped without being published.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

func (s *Scope) Closed() bool {
	return s.ctx.Err() != nil
}

// Close is idempotent.
func (s *Scope) Close() {
	s.cancel()
}

// Wait blocks until every operation started in the scope has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}

func (s *Scope) spawn(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}
