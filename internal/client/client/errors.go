package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoConnectivity = errors.New("no internet connection")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTransport      = errors.New("transport failure")
	ErrCredentials    = errors.New("credentials unavailable")
)

// User-facing messages.
const (
	MsgNoConnectivity = "No internet connection"
	MsgUnauthorized   = "Session expired, please login again."
	MsgUnknown        = "Unknown error"
)

// StatusError is a non-2xx reply from the backend. Message is the server's
// own explanation when the body carried one. TokenSent records whether the
// request carried a bearer token, which tells an expired session apart from
// rejected credentials on a 401.
type StatusError struct {
	Code      int
	Message   string
	TokenSent bool
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("http %d", e.Code)
}

// Unwrap maps 401 to ErrUnauthorized and every other status to ErrTransport.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return ErrTransport
}

// Message turns any pipeline error into a string a user can read.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var se *StatusError
	switch {
	case errors.Is(err, ErrNoConnectivity):
		return MsgNoConnectivity
	case errors.As(err, &se):
		if se.Message != "" {
			return se.Message
		}
		if se.Code == http.StatusUnauthorized && se.TokenSent {
			return MsgUnauthorized
		}
		if text := http.StatusText(se.Code); text != "" {
			return text
		}
		return MsgUnknown
	case errors.Is(err, ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgUnknown
}
