package shiori

import (
	"strconv"
	"strings"
	"time"
)

// BookmarkSummary is one entry of the bookmarks list.
type BookmarkSummary struct {
	ID        int    `json:"id"`
	URL       string `json:"url,omitempty"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// bookmarksResponse mirrors the list endpoint. A nil Bookmarks means the
// field was absent.
type bookmarksResponse struct {
	Bookmarks *[]BookmarkSummary `json:"bookmarks"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsedCreatedAt parses CreatedAt using the layouts servers are known to
// send. It returns the zero time when none match.
func (b BookmarkSummary) ParsedCreatedAt() time.Time {
	value := strings.TrimSpace(b.CreatedAt)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatIDs renders ids as the JSON array body of the delete operation.
func FormatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
