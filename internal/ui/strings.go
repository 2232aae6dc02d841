package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/five82/shelf/internal/shiori"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// humanizeDuration renders d in its largest whole unit.
func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// hostOf returns the host of a bookmark URL without a leading www.
func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// describeError turns a client error into a one-line status message.
func describeError(err error) string {
	var cfgErr *shiori.ConfigError
	var statusErr *shiori.StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "Missing configuration: " + strings.Join(cfgErr.Missing, ", ")
	case errors.Is(err, shiori.ErrAuthenticationFailed):
		return "Login failed: check username and password"
	case errors.Is(err, shiori.ErrTimeout):
		return "Server timed out"
	case errors.Is(err, shiori.ErrNetwork):
		return "Server unreachable"
	case errors.Is(err, shiori.ErrMalformedResponse):
		return "Unexpected response from server"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server returned %d", statusErr.Code)
	default:
		return err.Error()
	}
}
