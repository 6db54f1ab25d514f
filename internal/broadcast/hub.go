package broadcast

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/activityhub/internal/logging"
)

const DefaultBuffer = 16

type subscriber[T any] struct {
	ch chan T
}

// Hub fans values out to the current subscribers.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[*subscriber[T]]struct{}
	buffer int
	closed bool
	log    logging.Logger
}

// NewHub creates a hub whose subscriber channels hold up to buffer values.
// buffer <= 0 means DefaultBuffer.
func NewHub[T any](buffer int, log logging.Logger) *Hub[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Hub[T]{
		subs:   make(map[*subscriber[T]]struct{}),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and
// closes the channel; calling it more than once is safe.
// Subscribing to a closed hub yields an already closed channel.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	s := &subscriber[T]{ch: make(chan T, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(s.ch)
		return s.ch, func() {}
	}
	h.subs[s] = struct{}{}

	var once sync.Once
	return s.ch, func() {
		once.Do(func() { h.remove(s) })
	}
}

func (h *Hub[T]) remove(s *subscriber[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

// Publish delivers v to every current subscriber and returns how many
// received it.
func (h *Hub[T]) Publish(ctx context.Context, v T) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for s := range h.subs {
		select {
		case s.ch <- v:
			delivered++
		default:
			h.log.Warn(ctx, "subscriber buffer full, value dropped", "buffer", h.buffer)
		}
	}
	return delivered
}

// Close closes every subscriber channel. Later Publish calls deliver nothing.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.ch)
	}
}
