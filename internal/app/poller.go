package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/shelf/internal/shiori"
	"github.com/five82/shelf/internal/state"
)

const (
	defaultPollInterval = 5 * time.Minute
	maxBackoff          = 5 * time.Minute
)

// bookmarkLister is the slice of shiori.Operations the poller needs.
type bookmarkLister interface {
	ListBookmarks(ctx context.Context) ([]shiori.BookmarkSummary, error)
}

// StartPoller launches a background goroutine that refreshes the store. After
// a failure the wait doubles up to maxBackoff; a success restores the base
// interval. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client bookmarkLister, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := Refresh(ctx, store, client); err != nil {
				failures++
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// Refresh fetches the bookmark list once and records the outcome in store.
func Refresh(ctx context.Context, store *state.Store, client bookmarkLister) error {
	bookmarks, err := client.ListBookmarks(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		store.Update(nil, err)
		logrus.WithError(err).Warn("bookmark refresh failed")
		return err
	}
	store.Update(bookmarks, nil)
	logrus.WithField("count", len(bookmarks)).Debug("bookmarks refreshed")
	return nil
}

// calculateBackoff returns base doubled once per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
