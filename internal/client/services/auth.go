// Package services contains the client's repositories: thin wrappers that
// turn one feature action into calls on the API client and updates of the
// local session.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/activityhub/internal/client/client"
	"github.com/dmitrijs2005/activityhub/internal/client/credentials"
	"github.com/dmitrijs2005/activityhub/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoUserID = errors.New("server returned no user id")

// AuthService defines session-level operations.
//
// Login and Register persist the returned token and user id. Logout ends
// the session locally. SelectProfile scopes later requests to a sub-profile.
type AuthService interface {
	Login(ctx context.Context, email, password string) (int64, error)
	Register(ctx context.Context, name, email, password string) (int64, error)
	Logout(ctx context.Context) error
	SelectProfile(ctx context.Context, profileID int64) error
}

type authService struct {
	api      API
	store    credentials.Store
	sessions Sessions
}

func NewAuthService(api API, store credentials.Store, sessions Sessions) AuthService {
	return &authService{api: api, store: store, sessions: sessions}
}

// Login authenticates and returns the user id.
func (a *authService) Login(ctx context.Context, email, password string) (int64, error) {
	var resp models.AuthResponse
	if err := a.api.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}
	return a.persist(ctx, resp)
}

// Register creates the account and signs it in.
func (a *authService) Register(ctx context.Context, name, email, password string) (int64, error) {
	req := models.RegisterRequest{Name: name, Email: email, Password: password}

	var resp models.AuthResponse
	if err := a.api.Post(ctx, "/auth/register", req, &resp); err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}
	return a.persist(ctx, resp)
}

func (a *authService) persist(ctx context.Context, resp models.AuthResponse) (int64, error) {
	if resp.Token == "" {
		return 0, fmt.Errorf("%w: empty token in response", client.ErrTransport)
	}

	var userID int64
	if resp.UserID != nil {
		userID = *resp.UserID
	} else {
		id, err := userIDFromToken(resp.Token)
		if err != nil {
			return 0, err
		}
		userID = id
	}

	if err := a.store.Save(ctx, resp.Token, userID); err != nil {
		return 0, fmt.Errorf("save credentials: %w", err)
	}
	return userID, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx, "")
}

func (a *authService) SelectProfile(ctx context.Context, profileID int64) error {
	if err := a.store.SetActiveProfile(ctx, profileID); err != nil {
		return fmt.Errorf("select profile: %w", err)
	}
	return nil
}

// userIDFromToken reads the user id out of the token claims. The signature
// is not checked; the server does that on every call.
func userIDFromToken(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoUserID, err)
	}

	if v, ok := claims["user_id"]; ok {
		switch id := v.(type) {
		case float64:
			return int64(id), nil
		case string:
			if n, err := strconv.ParseInt(id, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrNoUserID
	}
	n, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q is not numeric", ErrNoUserID, sub)
	}
	return n, nil
}
