// Package app wires shelf together.
//
// # Overview
//
// Run is the composition root for the TUI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()       TOML + .env + SHELF_* overrides
//	       ├─────> SetupLogging()      logrus to the log file
//	       ├─────> prefs.Load()        theme and sort order
//	       ├─────> NewClient()         shiori.Client (session + transport)
//	       ├─────> state.Store{}       shared bookmark snapshot
//	       ├─────> StartPoller()       only when refresh > 0
//	       └─────> ui.Run()            Bubble Tea program (blocks)
//
// NewClient and SetupLogging are shared with the CLI subcommands in
// cmd/shelf, which log to stderr instead of the file.
//
// # Polling
//
// The poller is optional. When enabled it calls ListBookmarks every refresh
// interval and records the result in the store. Consecutive failures double
// the wait, capped at five minutes; the first success restores the base
// interval. A refresh cut short by context cancellation is not recorded as a
// failure.
//
// The poller and TUI commands share one shiori.Client, so they also share one
// session: when the token expires, exactly one of them logs in again.
//
// # Errors
//
// Run fails fast only on local problems: an unreadable config file, a bad log
// level or format, an unparseable server URL. Missing credentials and server
// errors surface in the TUI status line instead.
package app
