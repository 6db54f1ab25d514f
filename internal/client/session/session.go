// Package session owns logout semantics for the client. It wraps the
// credential store, resolves who is making a request, and broadcasts a
// LogoutEvent whenever the session ends.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/activityhub/internal/broadcast"
	"github.com/dmitrijs2005/activityhub/internal/client/credentials"
	"github.com/dmitrijs2005/activityhub/internal/logging"
)

// ExpiredReason is the reason carried by a forced logout.
const ExpiredReason = "Session expired, please login again."

// NoProfileID is returned together with ErrNoProfile.
const NoProfileID int64 = -1

var ErrNoProfile = errors.New("no profile: not logged in")

// LogoutEvent is published once per logout. An empty Reason means none was given.
type LogoutEvent struct {
	Reason string
}

type Controller struct {
	store credentials.Store
	hub   *broadcast.Hub[LogoutEvent]
	log   logging.Logger
}

func NewController(store credentials.Store, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "session")
	return &Controller{
		store: store,
		hub:   broadcast.NewHub[LogoutEvent](broadcast.DefaultBuffer, log),
		log:   log,
	}
}

// Logout clears the store and then publishes a LogoutEvent to the current
// subscribers. The event is published even if clearing fails; the clear
// error is returned.
func (c *Controller) Logout(ctx context.Context, reason string) error {
	clearErr := c.store.Clear(ctx)
	if clearErr != nil {
		c.log.Error(ctx, "failed to clear credentials", "error", clearErr)
		clearErr = fmt.Errorf("clear credentials: %w", clearErr)
	}

	n := c.hub.Publish(ctx, LogoutEvent{Reason: reason})
	c.log.Info(ctx, "logged out", "reason", reason, "observers", n)

	return clearErr
}

// HandleUnauthorized forces a logout after the server rejected the token.
// It touches local state only and never performs network calls.
func (c *Controller) HandleUnauthorized(ctx context.Context) {
	_ = c.Logout(ctx, ExpiredReason)
}

func (c *Controller) CurrentToken(ctx context.Context) (sql.NullString, error) {
	return c.store.Token(ctx)
}

func (c *Controller) Authenticated(ctx context.Context) (bool, error) {
	rec, err := c.store.Load(ctx)
	if err != nil {
		return false, err
	}
	return rec.Authenticated(), nil
}

// Close ends every subscription; their channels are closed. Logouts after
// Close still clear the store but reach no one.
func (c *Controller) Close() {
	c.hub.Close()
}

// ResolvedProfileID returns the active profile id when one is selected,
// otherwise the account's user id. With neither stored it returns
// (NoProfileID, ErrNoProfile).
func (c *Controller) ResolvedProfileID(ctx context.Context) (int64, error) {
	rec, err := c.store.Load(ctx)
	if err != nil {
		return NoProfileID, err
	}
	switch {
	case rec.ActiveProfileID.Valid:
		return rec.ActiveProfileID.Int64, nil
	case rec.UserID.Valid:
		return rec.UserID.Int64, nil
	default:
		return NoProfileID, ErrNoProfile
	}
}

// Subscribe returns a stream of logout events published from now on and a
// func to stop receiving them.
func (c *Controller) Subscribe() (<-chan LogoutEvent, func()) {
	return c.hub.Subscribe()
}
