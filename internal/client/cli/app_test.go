package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/activityhub/internal/client/client"
	"github.com/dmitrijs2005/activityhub/internal/client/connectivity"
	"github.com/dmitrijs2005/activityhub/internal/client/credentials"
	"github.com/dmitrijs2005/activityhub/internal/client/models"
	"github.com/dmitrijs2005/activityhub/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

type safeBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

type fakeAuth struct {
	store    credentials.Store
	sessions *session.Controller

	loginErr     error
	lastEmail    string
	lastPassword string
	lastName     string
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (int64, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return 0, f.loginErr
	}
	return 7, f.store.Save(ctx, "tok", 7)
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password string) (int64, error) {
	f.lastName = name
	return f.Login(ctx, email, password)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	return f.sessions.Logout(ctx, "")
}

func (f *fakeAuth) SelectProfile(ctx context.Context, id int64) error {
	return f.store.SetActiveProfile(ctx, id)
}

type fakeActivities struct {
	feed    []models.Activity
	feedErr error
	block   chan struct{}
	joined  int64
	joinErr error
}

func (f *fakeActivities) Feed(ctx context.Context) ([]models.Activity, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.feed, f.feedErr
}

func (f *fakeActivities) Join(_ context.Context, id int64) (models.Activity, error) {
	f.joined = id
	if f.joinErr != nil {
		return models.Activity{}, f.joinErr
	}
	return models.Activity{ID: id, Title: "Morning run", Joined: true}, nil
}

type fixture struct {
	app      *App
	out      *safeBuffer
	store    *credentials.MemoryStore
	sessions *session.Controller
	auth     *fakeAuth
	acts     *fakeActivities
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()

	store := credentials.NewMemoryStore()
	sess := session.NewController(store, nil)
	auth := &fakeAuth{store: store, sessions: sess}
	acts := &fakeActivities{}
	out := &safeBuffer{}

	app := NewApp(context.Background(), Deps{
		Auth:       auth,
		Activities: acts,
		Sessions:   sess,
		Status:     func() connectivity.State { return connectivity.StateOnline },
		In:         strings.NewReader(input),
		Out:        out,
	})
	t.Cleanup(app.Close)

	oldPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { getPassword = oldPw })

	return &fixture{app: app, out: out, store: store, sessions: sess, auth: auth, acts: acts}
}

// ------------ tests ------------

func TestLogin(t *testing.T) {
	f := newFixture(t, "ann@example.com\n")
	ctx := context.Background()

	require.NoError(t, f.app.Login(ctx))

	assert.Equal(t, "ann@example.com", f.auth.lastEmail)
	assert.Equal(t, "secret", f.auth.lastPassword)
	assert.Contains(t, f.out.String(), "Signing in...")
	assert.Contains(t, f.out.String(), "Login successful (user 7)")
	assert.True(t, f.app.isLoggedIn(ctx))
}

func TestLogin_ErrorIsNormalized(t *testing.T) {
	f := newFixture(t, "ann@example.com\n")
	f.auth.loginErr = &client.StatusError{Code: 401, Message: "Invalid email or password"}

	err := f.app.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, f.out.String(), "Error: Invalid email or password")
}

func TestRegister(t *testing.T) {
	f := newFixture(t, "Ann\nann@example.com\n")

	require.NoError(t, f.app.Register(context.Background()))
	assert.Equal(t, "Ann", f.auth.lastName)
	assert.Contains(t, f.out.String(), "Welcome, Ann! (user 7)")
}

func TestFeed(t *testing.T) {
	f := newFixture(t, "")
	f.acts.feed = []models.Activity{
		{ID: 1, Title: "Morning run", Category: "sport", Participants: 3, Capacity: 10},
		{ID: 2, Title: "Chess", Participants: 4, Capacity: 4},
	}

	require.NoError(t, f.app.Feed(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Loading feed...")
	assert.Contains(t, out, "#1 Morning run [sport] (3/10)")
	assert.Contains(t, out, "#2 Chess (4/4) full")
}

func TestFeed_Empty(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.app.Feed(context.Background()))
	assert.Contains(t, f.out.String(), "No activities yet")
}

func TestFeed_Offline(t *testing.T) {
	f := newFixture(t, "")
	f.acts.feedErr = client.ErrNoConnectivity

	require.Error(t, f.app.Feed(context.Background()))
	assert.Contains(t, f.out.String(), "Error: "+client.MsgNoConnectivity)
}

func TestJoin(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.app.Join(context.Background(), []string{"12"}))
	assert.Equal(t, int64(12), f.acts.joined)
	assert.Contains(t, f.out.String(), `Joined "Morning run"`)

	require.Error(t, f.app.Join(context.Background(), nil))
	assert.Contains(t, f.out.String(), "usage: join <id>")
}

func TestProfileAndWhoAmI(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	require.NoError(t, f.app.WhoAmI(ctx))
	assert.Contains(t, f.out.String(), "Not logged in")

	require.NoError(t, f.store.Save(ctx, "tok", 7))
	require.NoError(t, f.app.WhoAmI(ctx))
	assert.Contains(t, f.out.String(), "Logged in as profile 7")

	require.NoError(t, f.app.Profile(ctx, []string{"42"}))
	require.NoError(t, f.app.WhoAmI(ctx))
	assert.Contains(t, f.out.String(), "Logged in as profile 42")
	assert.Equal(t, "(profile 42, online)", f.app.getStatus(ctx))
}

func TestForcedLogoutIsPrinted(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "tok", 7))

	f.sessions.HandleUnauthorized(ctx)

	assert.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), session.ExpiredReason)
	}, time.Second, 5*time.Millisecond)
	assert.False(t, f.app.isLoggedIn(ctx))
}

func TestLogout(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "tok", 7))

	require.NoError(t, f.app.Logout(ctx))

	assert.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "Logged out.")
	}, time.Second, 5*time.Millisecond)
}

func TestClose_DiscardsRunningOperation(t *testing.T) {
	f := newFixture(t, "")
	f.acts.block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.app.Feed(context.Background()) }()

	assert.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "Loading feed...")
	}, time.Second, 5*time.Millisecond)

	f.app.Close()

	err := <-done
	require.Error(t, err)
	assert.NotContains(t, f.out.String(), "Error:")

	require.Error(t, f.app.Feed(context.Background()), "closed app runs nothing")
}

func TestExecute(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	require.NoError(t, f.app.Execute(ctx, []string{"help"}))
	assert.Contains(t, f.out.String(), "register, login")

	require.ErrorIs(t, f.app.Execute(ctx, []string{"dance"}), ErrUnknownCommand)
	require.Error(t, f.app.Execute(ctx, nil))

	f.acts.joinErr = errors.New("boom")
	require.Error(t, f.app.Execute(ctx, []string{"join", "3"}))
	assert.Contains(t, f.out.String(), "Error: boom")
}

func TestConnectivityChanged(t *testing.T) {
	f := newFixture(t, "")

	f.app.ConnectivityChanged(connectivity.StateOnline)
	assert.Empty(t, f.out.String(), "initial online report is silent")

	f.app.ConnectivityChanged(connectivity.StateOffline)
	f.app.ConnectivityChanged(connectivity.StateOffline)
	f.app.ConnectivityChanged(connectivity.StateOnline)

	out := f.out.String()
	assert.Equal(t, 1, strings.Count(out, "No internet connection"))
	assert.Contains(t, out, "Back online")
}
