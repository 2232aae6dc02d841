package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/shiori"
)

const (
	ErrCodeConfig            = "config_error"
	ErrCodeAuth              = "auth_error"
	ErrCodeTimeout           = "timeout"
	ErrCodeNetwork           = "network_error"
	ErrCodeMalformedResponse = "malformed_response"
	ErrCodeAPI               = "api_error"
	ErrCodeInvalidUsage      = "invalid_usage"
	ErrCodeUnknown           = "unknown"
)

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a cobra argument validator so its failures classify as
// usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func errorCodeForError(err error) string {
	if err == nil {
		return ""
	}
	var usage usageError
	if errors.As(err, &usage) {
		return ErrCodeInvalidUsage
	}
	var status *shiori.StatusError
	switch {
	case errors.Is(err, shiori.ErrMissingConfiguration):
		return ErrCodeConfig
	case errors.Is(err, shiori.ErrAuthenticationFailed):
		return ErrCodeAuth
	case errors.Is(err, shiori.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, shiori.ErrNetwork):
		return ErrCodeNetwork
	case errors.Is(err, shiori.ErrMalformedResponse):
		return ErrCodeMalformedResponse
	case errors.As(err, &status):
		return ErrCodeAPI
	}
	return ErrCodeUnknown
}

func exitCodeForError(err error) int {
	if errorCodeForError(err) == ErrCodeInvalidUsage {
		return 2
	}
	return 1
}

// printError writes "shelf: <code>: <message>" and returns the exit status.
func printError(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "shelf: %s: %v\n", errorCodeForError(err), err)
	return exitCodeForError(err)
}
