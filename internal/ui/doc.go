// Package ui provides shelf's terminal user interface.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. It never talks HTTP itself: every
// server call goes through shiori.Operations inside a tea.Cmd, so the update
// loop stays responsive while requests are in flight. The bookmark list lives
// in a state.Store shared with the optional background poller; the model
// re-reads it on every tick and after each command completes.
//
// # Package Structure
//
//   - app.go: Model, Update/View, tick and refresh commands, Run
//   - bookmarks.go: sorting, selection and list rendering
//   - article.go: article fetch, HTML to text, scrolling viewport
//   - prompt.go: add-URL prompt and delete confirmation
//   - logs.go: client log view (logtail + level colors)
//   - header.go: header bar, footer bar, connection state
//   - help.go: help overlay
//   - keys.go: key bindings (bubbles/key)
//   - theme.go: color themes and lipgloss styles
//
// # Views
//
//   - List: bookmarks with ID, title, host and date. Rows can be marked for a
//     batch delete.
//   - Article: the archived page rendered as text.
//   - Log: the tail of shelf's own log file.
//
// # Key Bindings
//
//   - j/k, g/G, ctrl+d/ctrl+u: Move
//   - enter: Read the selected article
//   - a: Add a bookmark by URL
//   - space or m: Mark or unmark for deletion
//   - d: Delete marked bookmarks, or the selected one, after confirmation
//   - r: Refresh now
//   - s: Cycle sort order (newest, oldest, title)
//   - T: Cycle theme
//   - l: Client log
//   - esc: Back to the list
//   - ?: Help
//   - q or ctrl+c: Quit
//
// Theme and sort changes are written to the prefs file immediately.
//
// # Errors
//
// Failed commands put a one-line description in the footer until the next
// successful refresh. The header shows "refresh failed" after one failed
// refresh and "offline" after two in a row.
package ui
