package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders "shelf · server · N bookmarks · sort" with the
// connection state on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	left := []string{styles.Logo.Render("shelf")}
	if m.serverURL != "" {
		left = append(left, styles.MutedText.Render(truncate(m.serverURL, 40)))
	}
	switch m.currentView {
	case ViewArticle:
		left = append(left, styles.Text.Render(truncate(displayTitleOf(m.article), 60)))
	case ViewLogs:
		left = append(left, styles.Text.Render("Client log"))
	default:
		left = append(left,
			styles.Text.Render(pluralize(len(m.snapshot.Bookmarks), "bookmark")),
			styles.FaintText.Render("sort: "+m.sortMode),
		)
		if n := len(m.marked); n > 0 {
			left = append(left, styles.WarningText.Render(fmt.Sprintf("%d marked", n)))
		}
	}

	right := m.connectionState()
	sep := styles.FaintText.Render(" · ")
	leftText := strings.Join(left, sep)

	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := leftText + strings.Repeat(" ", gap) + right
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(line)
}

func displayTitleOf(a articleState) string {
	if t := strings.TrimSpace(a.title); t != "" {
		return t
	}
	if a.url != "" {
		return a.url
	}
	return fmt.Sprintf("Bookmark #%d", a.id)
}

// connectionState summarizes the last refresh.
func (m Model) connectionState() string {
	styles := m.theme.Styles()
	if m.busy > 0 {
		return m.spinner.View()
	}
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return styles.DangerText.Render("offline")
	case snap.LastError != nil:
		return styles.WarningText.Render("refresh failed")
	case snap.LastUpdated.IsZero():
		return styles.FaintText.Render("waiting")
	default:
		return styles.SuccessText.Render("updated " + humanizeDuration(time.Since(snap.LastUpdated)) + " ago")
	}
}

// renderFooter shows the active prompt, else the last status message, else
// short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	var line string
	switch {
	case m.mode != inputNone:
		line = m.promptLine()
	case m.statusText != "" && m.statusIsErr:
		line = styles.DangerText.Render(m.statusText)
	case m.statusText != "" && time.Now().Before(m.statusExpiry):
		line = styles.SuccessText.Render(m.statusText)
	default:
		line = m.help.ShortHelpView(m.contextHelp())
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(line)
}

// contextHelp returns the footer bindings for the current view.
func (m Model) contextHelp() []key.Binding {
	switch m.currentView {
	case ViewArticle:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.HalfPageDown, m.keys.Back, m.keys.Help}
	case ViewLogs:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Refresh, m.keys.Back, m.keys.Help}
	}
	return m.keys.ShortHelp()
}
