// Package cli is the command-line front end of the activityhub client.
//
// App plays the role of the UI controllers: every user action runs through
// a result.Slot, so the user sees a progress line for Loading and then
// either the data or one normalized error message. A background watcher
// prints the reason of every logout, including forced logouts after the
// server rejects the session.
//
// Commands can be run one at a time (App.Execute) or from an interactive
// loop (App.Root):
//
//	register | login | logout | whoami
//	feed | join <id> | profile <id>
package cli
