package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the date column is hidden.
	LayoutCompactWidth = 70

	// LayoutURLWidth is the minimum width to show the host column.
	LayoutURLWidth = 110
)

// Log display limits.
const (
	// LogTailLines is how many lines of the client log the log view reads.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the store.
	DefaultUIInterval = time.Second

	// StatusMessageTTL is how long a non-error status message stays visible.
	StatusMessageTTL = 5 * time.Second
)
