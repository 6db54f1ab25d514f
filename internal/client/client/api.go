package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/activityhub/internal/common"
	"github.com/dmitrijs2005/activityhub/internal/logging"
	"github.com/google/uuid"
)

const maxErrorBody = 64 << 10

// APIClient speaks JSON to the backend. The http.Client it is given is
// expected to be the request pipeline (see package pipeline); APIClient
// itself neither attaches credentials nor checks connectivity.
type APIClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
	newID   func() string
}

func NewAPIClient(baseURL string, httpClient *http.Client, log logging.Logger) (*APIClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &APIClient{
		baseURL: u,
		http:    httpClient,
		log:     log.With("component", "api"),
		newID:   uuid.NewString,
	}, nil
}

// errorBody is the envelope the backend uses for failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *APIClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *APIClient) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, in, out)
}

// Do sends in (when non-nil) as JSON and decodes a 2xx body into out (when
// non-nil). A non-2xx reply becomes a *StatusError.
func (c *APIClient) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	reqID := c.newID()
	ctx = logging.WithRequestID(ctx, reqID)

	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	req.Header.Set(common.RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "call failed", "method", method, "path", path, "error", err)
		if errors.Is(err, ErrNoConnectivity) || errors.Is(err, ErrCredentials) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "call finished", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s response: %w", ErrTransport, method, path, err)
	}
	return nil
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *APIClient) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	se := &StatusError{Code: resp.StatusCode}
	if resp.Request != nil {
		se.TokenSent = resp.Request.Header.Get(common.AuthorizationHeader) != ""
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		se.Message = strings.TrimSpace(eb.Message)
		if se.Message == "" {
			se.Message = strings.TrimSpace(eb.Error)
		}
	}
	return se
}
