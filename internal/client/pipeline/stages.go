package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/activityhub/internal/client/client"
	"github.com/dmitrijs2005/activityhub/internal/client/connectivity"
	"github.com/dmitrijs2005/activityhub/internal/common"
	"github.com/dmitrijs2005/activityhub/internal/logging"
)

// TokenSource yields the current bearer token. It is read on every call.
type TokenSource interface {
	CurrentToken(ctx context.Context) (sql.NullString, error)
}

// UnauthorizedHandler is told, synchronously, that the server rejected the
// attached token. It must not perform network calls through this pipeline.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context)
}

// UnauthorizedFunc adapts a plain func to UnauthorizedHandler.
type UnauthorizedFunc func(ctx context.Context)

func (f UnauthorizedFunc) HandleUnauthorized(ctx context.Context) { f(ctx) }

// ConnectivityGate fails a call with client.ErrNoConnectivity when the
// checker reports no usable network. The call never reaches Next.
type ConnectivityGate struct {
	Checker connectivity.Checker
	Next    http.RoundTripper
	Log     logging.Logger
}

func (g *ConnectivityGate) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !g.Checker.Reachable(ctx) {
		closeBody(req.Body)
		orNop(g.Log).Debug(ctx, "call rejected: offline", "method", req.Method, "path", req.URL.Path)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, client.ErrNoConnectivity)
	}
	return g.Next.RoundTrip(req)
}

// AuthInjector attaches "Authorization: Bearer <token>" when a token is
// stored and reports 401 replies to OnUnauthorized before returning them.
type AuthInjector struct {
	Tokens         TokenSource
	OnUnauthorized UnauthorizedHandler
	Next           http.RoundTripper
	Log            logging.Logger
}

func (a *AuthInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	tok, err := a.Tokens.CurrentToken(ctx)
	if err != nil {
		closeBody(req.Body)
		return nil, fmt.Errorf("%w: %w", client.ErrCredentials, err)
	}

	if tok.Valid {
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(ctx)
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+tok.String)
	}

	resp, err := a.Next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if tok.Valid {
		// Callers inspect resp.Request to learn whether a token was sent.
		resp.Request = req
	}

	if resp.StatusCode == http.StatusUnauthorized && tok.Valid && a.OnUnauthorized != nil {
		orNop(a.Log).Warn(ctx, "token rejected by server, forcing logout", "method", req.Method, "path", req.URL.Path)
		a.OnUnauthorized.HandleUnauthorized(ctx)
	}
	return resp, nil
}

func orNop(l logging.Logger) logging.Logger {
	if l == nil {
		return logging.Nop()
	}
	return l
}

func closeBody(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
