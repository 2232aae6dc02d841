package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelf/internal/shiori"
)

// Snapshot represents the latest bookmark list available to the UI.
type Snapshot struct {
	Bookmarks           []shiori.BookmarkSummary
	HasBookmarks        bool // at least one successful fetch
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the server has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored bookmark list. When err is non-nil the previous
// list is kept but the error is recorded for visibility.
func (s *Store) Update(bookmarks []shiori.BookmarkSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Bookmarks = cloneBookmarks(bookmarks)
	s.snapshot.HasBookmarks = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Remove drops bookmarks with the given IDs without waiting for the next
// refresh. Used after a successful delete.
func (s *Store) Remove(ids ...int) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snapshot.Bookmarks[:0:0]
	for _, b := range s.snapshot.Bookmarks {
		if _, ok := drop[b.ID]; !ok {
			kept = append(kept, b)
		}
	}
	s.snapshot.Bookmarks = kept
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Bookmarks = cloneBookmarks(s.snapshot.Bookmarks)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBookmarks(items []shiori.BookmarkSummary) []shiori.BookmarkSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]shiori.BookmarkSummary, len(items))
	copy(dup, items)
	return dup
}
