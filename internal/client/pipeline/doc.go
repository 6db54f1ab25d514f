// Package pipeline is the request path shared by every remote call.
//
// Stage order is fixed: the connectivity gate runs first, the auth injector
// second and the transport last.
//
//	ConnectivityGate -> AuthInjector -> transport
//
// A call without connectivity therefore fails before any credential is read
// and can never trigger a forced logout. The same order is applied to HTTP
// (http.RoundTripper chain, see New) and gRPC (unary interceptor chain, see
// UnaryInterceptors and Dial).
//
// The auth injector does not know how a session is torn down. It reports an
// unauthorized reply to the UnauthorizedHandler supplied at construction
// and returns the reply to the caller unchanged.
package pipeline
