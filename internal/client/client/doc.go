// Package client contains the client's remote-call building blocks.
//
// # Overview
//
//  1. The error taxonomy of the request path (ErrNoConnectivity,
//     ErrUnauthorized, ErrTransport, ErrCredentials, StatusError) and Message,
//     which turns any of them into text a user can read.
//  2. APIClient, a JSON client meant to sit on top of the request pipeline.
//     It stamps every call with an X-Request-ID and maps non-2xx replies to
//     *StatusError.
//  3. Local database bootstrap (InitDatabase, RunMigrations) wiring SQLite
//     and the embedded goose migrations.
//
// # Error Handling
//
// Match errors with errors.Is / errors.As. A *StatusError unwraps to
// ErrUnauthorized for 401 and to ErrTransport for every other status.
package client
