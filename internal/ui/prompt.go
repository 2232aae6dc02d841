package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/shiori"
	"github.com/five82/shelf/internal/state"
)

type addDoneMsg struct {
	url string
	err error
}

type deleteDoneMsg struct {
	ids []int
	err error
}

// handleAddInput routes keys to the URL prompt.
func (m Model) handleAddInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		if raw == "" {
			return m, nil
		}
		m.busy++
		return m, tea.Batch(addBookmarkCmd(m.ctx, m.client, raw), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmDelete waits for a yes or no on the pending deletion.
func (m Model) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		ids := m.pendingIDs
		m.closePrompt()
		if len(ids) == 0 {
			return m, nil
		}
		m.busy++
		return m, tea.Batch(deleteBookmarksCmd(m.ctx, m.client, m.store, ids), m.spinner.Tick)
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
	}
	return m, nil
}

func (m *Model) closePrompt() {
	m.mode = inputNone
	m.pendingIDs = nil
	m.input.Blur()
	m.input.Reset()
}

func addBookmarkCmd(ctx context.Context, client shiori.Operations, rawURL string) tea.Cmd {
	return func() tea.Msg {
		return addDoneMsg{url: rawURL, err: client.AddBookmark(ctx, rawURL)}
	}
}

// deleteBookmarksCmd deletes ids in one request and drops them from the store
// on success so the list updates before the next refresh.
func deleteBookmarksCmd(ctx context.Context, client shiori.Operations, store *state.Store, ids []int) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteBookmarks(ctx, shiori.FormatIDs(ids)); err != nil {
			return deleteDoneMsg{ids: ids, err: err}
		}
		if store != nil {
			store.Remove(ids...)
		}
		return deleteDoneMsg{ids: ids}
	}
}

// promptLine renders the active prompt for the footer.
func (m Model) promptLine() string {
	styles := m.theme.Styles()
	switch m.mode {
	case inputAddURL:
		return m.input.View()
	case inputConfirmDelete:
		return styles.WarningText.Render("Delete "+pluralize(len(m.pendingIDs), "bookmark")+"? ") +
			styles.MutedText.Render("[y/N]")
	}
	return ""
}
