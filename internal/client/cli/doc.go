// Package cli provides the interactive VTV command-line client.
//
// App drives a client.Client from a small REPL: login and logout, raw GET
// requests against the API, a health probe and the session status. A
// background watcher reports when the session ends on its own, e.g. after
// the server rejects a refresh.
package cli
