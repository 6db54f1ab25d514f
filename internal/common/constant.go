// Package common holds wire-level names shared by the HTTP and gRPC paths.
package common

const (
	// AuthorizationHeader carries the bearer credential on HTTP calls.
	AuthorizationHeader = "Authorization"
	// AuthorizationMetadataKey is the gRPC metadata equivalent (keys are lower-case).
	AuthorizationMetadataKey = "authorization"
	BearerPrefix             = "Bearer "

	// RequestIDHeader correlates a client call with server logs.
	RequestIDHeader = "X-Request-ID"
)
