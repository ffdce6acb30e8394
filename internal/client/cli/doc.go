// Package cli provides the interactive TraceTrail command-line client.
//
// It wires configuration, the local state database, the API client and
// services, and the three stores (session, dashboard, notifications), then
// runs a REPL on top of them. On start the persisted session is restored
// and, when it is valid, the dashboard is loaded.
//
// Command outcomes are pushed to the notification store; a subscriber
// prints each new notification as it arrives, so the terminal behaves like
// the toast area of the web dashboard.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp, App.ServeMetrics and runREPL for details.
package cli
