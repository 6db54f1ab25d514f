package broadcast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliversToAllSubscribers(t *testing.T) {
	h := NewHub[string](0, nil)
	a, unsubA := h.Subscribe()
	defer unsubA()
	b, unsubB := h.Subscribe()
	defer unsubB()

	n := h.Publish(context.Background(), "bye")

	assert.Equal(t, 2, n)
	assert.Equal(t, "bye", <-a)
	assert.Equal(t, "bye", <-b)
}

func TestHub_NoReplayForLateSubscribers(t *testing.T) {
	h := NewHub[int](0, nil)
	h.Publish(context.Background(), 1)

	ch, unsub := h.Subscribe()
	defer unsub()

	select {
	case v := <-ch:
		t.Fatalf("late subscriber received %d", v)
	default:
	}

	h.Publish(context.Background(), 2)
	assert.Equal(t, 2, <-ch)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub[int](0, nil)
	ch, unsub := h.Subscribe()

	unsub()
	unsub()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Publish(context.Background(), 1))
}

func TestHub_FullBufferDropsWithoutBlocking(t *testing.T) {
	h := NewHub[int](1, nil)
	ch, unsub := h.Subscribe()
	defer unsub()

	require.Equal(t, 1, h.Publish(context.Background(), 1))
	require.Equal(t, 0, h.Publish(context.Background(), 2))

	assert.Equal(t, 1, <-ch)
}

func TestHub_Close(t *testing.T) {
	h := NewHub[int](0, nil)
	ch, unsub := h.Subscribe()

	h.Close()
	h.Close()
	unsub()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
