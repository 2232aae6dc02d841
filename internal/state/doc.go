// Package state holds the bookmark list shared between the TUI and the
// background refresh poller.
//
// # Overview
//
// Store is a mutex-guarded container for the most recent bookmark list. The
// poller (and TUI commands such as refresh or delete) write to it; the TUI
// reads Snapshot on every tick.
//
//	Poller / commands:              UI:
//	┌────────────────────┐          ┌────────────────────┐
//	│ ListBookmarks()    │          │                    │
//	│      ↓             │          │                    │
//	│ store.Update()     │─────────→│ store.Snapshot()   │
//	│ store.Remove()     │ (mutex)  │      ↓             │
//	└────────────────────┘          │ render list        │
//	                                └────────────────────┘
//
// # Update Semantics
//
// A successful Update replaces the list, clears LastError and resets
// ConsecutiveFailures. A failed Update keeps the previous list and records the
// error, so the UI can keep showing the last good data with an error line.
// LastUpdated moves on every call.
//
// HasBookmarks distinguishes "fetched, and the server has no bookmarks" from
// "never fetched".
//
// # Copying
//
// Update and Snapshot copy the slice so the UI and the poller never share
// backing arrays. The zero Store is ready to use.
package state
