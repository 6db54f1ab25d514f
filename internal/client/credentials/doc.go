// Package credentials persists the current session on the device: the bearer
// token, the account's user id and the optionally selected active profile.
//
// Absence is explicit. Every accessor returns a sql.NullString or
// sql.NullInt64 whose Valid flag is false when nothing is stored, so a zero
// user id is never confused with "no user".
//
// # Concurrency
//
// Implementations allow concurrent readers and serialize writers. Save and
// Clear are atomic from a reader's point of view: a reader observes either the
// full previous record or the full new one, never a token without its user id.
package credentials
