package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/shiori"
)

// sortedBookmarks returns the snapshot's bookmarks in the current sort order.
func (m Model) sortedBookmarks() []shiori.BookmarkSummary {
	return SortBookmarks(m.snapshot.Bookmarks, m.sortMode)
}

// SortBookmarks returns a sorted copy of in. mode is one of the prefs sort
// values; anything else sorts newest first.
func SortBookmarks(in []shiori.BookmarkSummary, mode string) []shiori.BookmarkSummary {
	items := make([]shiori.BookmarkSummary, len(in))
	copy(items, in)

	switch mode {
	case prefs.SortTitle:
		sort.SliceStable(items, func(i, j int) bool {
			ti := strings.ToLower(DisplayTitle(items[i]))
			tj := strings.ToLower(DisplayTitle(items[j]))
			if ti != tj {
				return ti < tj
			}
			return items[i].ID < items[j].ID
		})
	case prefs.SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return newer(items[j], items[i])
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return newer(items[i], items[j])
		})
	}
	return items
}

// newer orders by creation time, falling back to ID (IDs grow over time).
// Bookmarks without a parseable time sort after those with one.
func newer(a, b shiori.BookmarkSummary) bool {
	ta, tb := a.ParsedCreatedAt(), b.ParsedCreatedAt()
	switch {
	case ta.IsZero() && !tb.IsZero():
		return false
	case tb.IsZero() && !ta.IsZero():
		return true
	case !ta.Equal(tb):
		return ta.After(tb)
	}
	return a.ID > b.ID
}

// DisplayTitle falls back to the URL, then the ID, when the title is empty.
func DisplayTitle(b shiori.BookmarkSummary) string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if b.URL != "" {
		return b.URL
	}
	return fmt.Sprintf("Bookmark #%d", b.ID)
}

// selectedBookmark returns the bookmark under the cursor, or nil.
func (m Model) selectedBookmark() *shiori.BookmarkSummary {
	items := m.sortedBookmarks()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return nil
	}
	item := items[m.selectedRow]
	return &item
}

// deleteTargets returns the marked IDs in list order, or the selected ID when
// nothing is marked.
func (m Model) deleteTargets(items []shiori.BookmarkSummary) []int {
	var ids []int
	for _, item := range items {
		if m.marked[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	if len(ids) == 0 && m.selectedRow < len(items) {
		ids = append(ids, items[m.selectedRow].ID)
	}
	return ids
}

func (m Model) listHeight() int {
	return m.contentHeight()
}

// renderList renders the bookmark list with the selected row highlighted.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	items := m.sortedBookmarks()
	if len(items) == 0 {
		msg := "No bookmarks yet. Press a to add one."
		if !m.snapshot.HasBookmarks {
			msg = "Loading bookmarks..."
			if m.snapshot.LastError != nil {
				msg = "Could not load bookmarks. Press r to retry."
			}
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	// Scroll so the selected row stays visible.
	start := 0
	if m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := min(len(items), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := items[i]
		row := m.formatRow(item, m.width)
		switch {
		case i == m.selectedRow:
			row = styles.Selected.Width(m.width).Render(row)
		case m.marked[item.ID]:
			row = styles.Marked.Render(row)
		default:
			row = styles.Text.Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// formatRow lays out one bookmark as "[x] #ID  Title  host  date".
func (m Model) formatRow(item shiori.BookmarkSummary, width int) string {
	mark := "[ ]"
	if m.marked[item.ID] {
		mark = "[x]"
	}
	id := padRight(fmt.Sprintf("#%d", item.ID), 6)

	var tail []string
	if width >= LayoutURLWidth {
		if host := hostOf(item.URL); host != "" {
			tail = append(tail, padRight(truncate(host, 24), 24))
		}
	}
	if width >= LayoutCompactWidth {
		date := ""
		if t := item.ParsedCreatedAt(); !t.IsZero() {
			date = t.Local().Format("2006-01-02")
		}
		tail = append(tail, padRight(date, 10))
	}

	suffix := strings.Join(tail, "  ")
	titleWidth := width - len([]rune(mark)) - len([]rune(id)) - 2
	if suffix != "" {
		titleWidth -= len([]rune(suffix)) + 2
	}
	title := padRight(truncate(DisplayTitle(item), titleWidth), titleWidth)

	row := mark + " " + id + " " + title
	if suffix != "" {
		row += "  " + suffix
	}
	return row
}
