package services

import (
	"context"
	"net/url"
)

// API is the part of *client.APIClient the services depend on.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// Sessions is the part of *session.Controller the services depend on.
type Sessions interface {
	Logout(ctx context.Context, reason string) error
	ResolvedProfileID(ctx context.Context) (int64, error)
}
