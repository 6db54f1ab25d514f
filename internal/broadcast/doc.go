// Package broadcast provides an in-process publish/subscribe hub without
// replay: a subscriber only receives values published after it subscribed.
//
// Publish never blocks. Every subscriber owns a buffered channel; when that
// buffer is full the value is dropped for that subscriber only and the
// drop is logged.
package broadcast
