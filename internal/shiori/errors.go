package shiori

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingConfiguration means the server URL, username or password is unset.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrAuthenticationFailed means the server rejected the credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrNetwork is a transport-level failure other than a timeout.
	ErrNetwork = errors.New("network failure")
	// ErrTimeout means the request did not complete within the timeout.
	ErrTimeout = errors.New("network timeout")
	// ErrMalformedResponse means the response body could not be decoded or
	// lacked an expected field.
	ErrMalformedResponse = errors.New("malformed response")
)

// ConfigError lists the settings that must be configured before any
// authenticated call.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("missing configuration: %s", strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// AuthError carries the server's rejection message.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}

// NetworkError wraps a failed round trip.
type NetworkError struct {
	Operation string
	Timeout   bool
	Err       error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return ""
	}
	kind := "request failed"
	if e.Timeout {
		kind = "request timed out"
	}
	return fmt.Sprintf("%s: %s: %v", e.Operation, kind, e.Err)
}

func (e *NetworkError) Is(target error) bool {
	if e.Timeout {
		return target == ErrTimeout
	}
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Operation string
	Code      int
	Body      string
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: server returned status %d: %s", e.Operation, e.Code, e.Body)
	}
	return fmt.Sprintf("%s: server returned status %d", e.Operation, e.Code)
}

const maxErrorBody = 200

func newStatusError(op string, resp *Response) *StatusError {
	body := strings.TrimSpace(string(resp.Body))
	if runes := []rune(body); len(runes) > maxErrorBody {
		body = string(runes[:maxErrorBody]) + "..."
	}
	return &StatusError{Operation: op, Code: resp.StatusCode, Body: body}
}

func malformed(op, what string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %s: %w", op, ErrMalformedResponse, what, err)
	}
	return fmt.Errorf("%s: %w: %s", op, ErrMalformedResponse, what)
}
