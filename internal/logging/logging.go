// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options select the level, format and destination of log output.
type Options struct {
	Level  string // logrus level name; empty means info
	Format string // "text" or "json"; empty means text
	File   string // log file path; empty writes to Output
	Output io.Writer
}

// Setup applies opts to the standard logrus logger. The returned closer
// releases the log file, if one was opened.
func Setup(opts Options) (io.Closer, error) {
	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
	}
	logrusLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	if strings.TrimSpace(opts.File) == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		logrus.SetOutput(out)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(file)
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
