package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/activityhub/internal/client/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore lets Clear fail while recording the call order.
type failingStore struct {
	credentials.MemoryStore
	clearErr error
	calls    *[]string
}

func (f *failingStore) Clear(ctx context.Context) error {
	*f.calls = append(*f.calls, "clear")
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryStore.Clear(ctx)
}

func receive(t *testing.T, ch <-chan LogoutEvent) LogoutEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	default:
		t.Fatal("expected a logout event")
		return LogoutEvent{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan LogoutEvent) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestLogout_ClearsThenPublishes(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "abc", 7))
	require.NoError(t, store.SetActiveProfile(ctx, 42))

	c := NewController(store, nil)
	events, unsub := c.Subscribe()
	defer unsub()

	require.NoError(t, c.Logout(ctx, "bye"))

	ev := receive(t, events)
	assert.Equal(t, "bye", ev.Reason)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, credentials.Record{}, rec)
}

func TestLogout_ObserverSeesClearedStore(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "abc", 7))
	c := NewController(store, nil)

	events, unsub := c.Subscribe()
	defer unsub()

	seen := make(chan sql.NullString, 1)
	go func() {
		<-events
		tok, _ := c.CurrentToken(ctx)
		seen <- tok
	}()

	require.NoError(t, c.Logout(ctx, ""))
	assert.False(t, (<-seen).Valid)
}

func TestLogout_TwiceStillPublishes(t *testing.T) {
	ctx := context.Background()
	c := NewController(credentials.NewMemoryStore(), nil)
	events, unsub := c.Subscribe()
	defer unsub()

	require.NoError(t, c.Logout(ctx, "first"))
	require.NoError(t, c.Logout(ctx, "second"))

	assert.Equal(t, "first", receive(t, events).Reason)
	assert.Equal(t, "second", receive(t, events).Reason)
	assertNoEvent(t, events)
}

func TestLogout_ClearFailureStillPublishes(t *testing.T) {
	var calls []string
	boom := errors.New("disk gone")
	store := &failingStore{clearErr: boom, calls: &calls}
	c := NewController(store, nil)
	events, unsub := c.Subscribe()
	defer unsub()

	err := c.Logout(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "x", receive(t, events).Reason)
	assert.Equal(t, []string{"clear"}, calls)
}

func TestSubscribe_NoReplay(t *testing.T) {
	ctx := context.Background()
	c := NewController(credentials.NewMemoryStore(), nil)

	require.NoError(t, c.Logout(ctx, "before"))

	events, unsub := c.Subscribe()
	defer unsub()
	assertNoEvent(t, events)
}

func TestSubscribe_IndependentObservers(t *testing.T) {
	c := NewController(credentials.NewMemoryStore(), nil)
	a, unsubA := c.Subscribe()
	b, unsubB := c.Subscribe()
	defer unsubB()

	unsubA()
	require.NoError(t, c.Logout(context.Background(), "r"))

	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, "r", receive(t, b).Reason)
}

func TestHandleUnauthorized_UsesExpiredReason(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "abc", 7))
	c := NewController(store, nil)
	events, unsub := c.Subscribe()
	defer unsub()

	c.HandleUnauthorized(ctx)

	assert.Equal(t, ExpiredReason, receive(t, events).Reason)
	ok, err := c.Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolvedProfileID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(s *credentials.MemoryStore)
		want    int64
		wantErr error
	}{
		{
			name: "active profile wins",
			setup: func(s *credentials.MemoryStore) {
				_ = s.Save(ctx, "t", 7)
				_ = s.SetActiveProfile(ctx, 42)
			},
			want: 42,
		},
		{
			name:  "falls back to user id",
			setup: func(s *credentials.MemoryStore) { _ = s.Save(ctx, "t", 7) },
			want:  7,
		},
		{
			name:    "nothing stored",
			setup:   func(s *credentials.MemoryStore) {},
			want:    NoProfileID,
			wantErr: ErrNoProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := credentials.NewMemoryStore()
			tt.setup(s)

			got, err := NewController(s, nil).ResolvedProfileID(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticated_FollowsStoredToken(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	c := NewController(store, nil)

	ok, err := c.Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "tok", 0))
	ok, err = c.Authenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "a zero user id is still a stored user id")

	require.NoError(t, c.Logout(ctx, ""))
	ok, err = c.Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClose_EndsSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	c := NewController(store, nil)
	ch, unsub := c.Subscribe()
	defer unsub()

	c.Close()

	_, ok := <-ch
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "tok", 1))
	require.NoError(t, c.Logout(ctx, "bye"))
	tok, err := store.Token(ctx)
	require.NoError(t, err)
	assert.False(t, tok.Valid, "logout after Close still clears the store")
}
