package ui

import (
	"strings"
	"testing"

	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/shiori"
)

func ids(items []shiori.BookmarkSummary) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestSortBookmarks(t *testing.T) {
	items := []shiori.BookmarkSummary{
		{ID: 1, Title: "beta", CreatedAt: "2025-01-01 00:00:00"},
		{ID: 2, Title: "Alpha", CreatedAt: "2026-01-01 00:00:00"},
		{ID: 3, Title: "gamma"},
		{ID: 4, Title: "", URL: "https://a.example"},
	}

	cases := []struct {
		mode string
		want []int
	}{
		{prefs.SortNewest, []int{2, 1, 4, 3}},
		{prefs.SortOldest, []int{3, 4, 1, 2}},
		{prefs.SortTitle, []int{2, 1, 3, 4}},
	}
	for _, tc := range cases {
		got := ids(SortBookmarks(items, tc.mode))
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("SortBookmarks(%s) = %v, want %v", tc.mode, got, tc.want)
			}
		}
	}

	if items[0].ID != 1 {
		t.Fatalf("SortBookmarks mutated its input")
	}
}

func TestDisplayTitleFallbacks(t *testing.T) {
	if got := DisplayTitle(shiori.BookmarkSummary{ID: 9, Title: "  "}); got != "Bookmark #9" {
		t.Fatalf("DisplayTitle = %q, want Bookmark #9", got)
	}
	if got := DisplayTitle(shiori.BookmarkSummary{URL: "https://go.dev"}); got != "https://go.dev" {
		t.Fatalf("DisplayTitle = %q, want URL", got)
	}
}

func TestFormatRowMarksAndTruncates(t *testing.T) {
	m := Model{marked: map[int]bool{7: true}}
	row := m.formatRow(shiori.BookmarkSummary{ID: 7, Title: strings.Repeat("x", 200)}, 60)
	if !strings.HasPrefix(row, "[x] #7") {
		t.Fatalf("row = %q, want marked prefix", row)
	}
	if n := len([]rune(row)); n > 60 {
		t.Fatalf("row is %d runes, want <= 60", n)
	}
}
