// Package logtail reads the tail of shelf's own log file.
//
// # Reading
//
// Read returns the last maxLines lines of a file using a ring buffer, so
// memory stays O(maxLines) regardless of file size. A non-positive maxLines
// returns the whole file. A missing file yields nil, nil so a fresh install
// with no log yet renders an empty view instead of an error.
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//
// # Parsing
//
// Parse splits a line written by logrus into time, level, message and the
// remaining fields. Both logrus formatters are understood:
//
//	time="2026-10-19T10:00:00Z" level=info msg="login succeeded" username=shiori
//	{"level":"info","msg":"login succeeded","time":"2026-10-19T10:00:00Z","username":"shiori"}
//
// Text fields keep their line order. JSON fields are sorted by key. Lines in
// neither format are returned with the whole line as the message.
//
// Colorizing is left to callers (the TUI log view and `shelf logs`).
package logtail
