package pipeline

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/activityhub/internal/client/connectivity"
	"github.com/dmitrijs2005/activityhub/internal/logging"
)

type Options struct {
	// Base is the transport at the end of the chain. Defaults to
	// http.DefaultTransport.
	Base           http.RoundTripper
	Checker        connectivity.Checker
	Tokens         TokenSource
	OnUnauthorized UnauthorizedHandler
	// Timeout bounds a whole HTTP call. Zero means no limit beyond the
	// transport's own.
	Timeout time.Duration
	Log     logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Log == nil {
		return logging.Nop()
	}
	return o.Log.With("component", "pipeline")
}

func (o Options) checker() connectivity.Checker {
	if o.Checker == nil {
		return connectivity.NewInterfaceChecker()
	}
	return o.Checker
}

// NewTransport composes gate -> auth -> base.
func NewTransport(o Options) http.RoundTripper {
	base := o.Base
	if base == nil {
		base = http.DefaultTransport
	}
	log := o.logger()

	auth := &AuthInjector{
		Tokens:         o.Tokens,
		OnUnauthorized: o.OnUnauthorized,
		Next:           base,
		Log:            log,
	}
	return &ConnectivityGate{
		Checker: o.checker(),
		Next:    auth,
		Log:     log,
	}
}

// New returns an http.Client whose every call runs through the pipeline.
func New(o Options) *http.Client {
	return &http.Client{
		Transport: NewTransport(o),
		Timeout:   o.Timeout,
	}
}
