package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/render"
	"github.com/five82/shelf/internal/shiori"
)

// articleState holds the article being read.
type articleState struct {
	id       int
	title    string
	url      string
	text     string
	loading  bool
	err      error
	viewport viewport.Model
}

type articleMsg struct {
	id   int
	text string
	err  error
}

// fetchArticleCmd downloads the archived HTML and renders it to text off the
// UI goroutine.
func fetchArticleCmd(ctx context.Context, client shiori.Operations, id int) tea.Cmd {
	return func() tea.Msg {
		body, err := client.FetchArticle(ctx, id)
		if err != nil {
			return articleMsg{id: id, err: err}
		}
		text, err := render.Text(body)
		if err != nil {
			return articleMsg{id: id, err: err}
		}
		return articleMsg{id: id, text: text}
	}
}

func (m Model) handleArticle(msg articleMsg) (tea.Model, tea.Cmd) {
	// Ignore a late response for an article the user already left.
	if msg.id != m.article.id {
		return m, nil
	}
	m.article.loading = false
	if msg.err != nil {
		m.article.err = msg.err
		m.setError(msg.err)
		return m, nil
	}
	m.article.text = msg.text
	if strings.TrimSpace(msg.text) == "" {
		m.article.text = "(this article has no readable content)"
	}
	m.article.viewport.SetContent(m.wrapArticle(m.article.text))
	m.article.viewport.GotoTop()
	return m, nil
}

// wrapArticle wraps text to the viewport width, leaving a small margin.
func (m Model) wrapArticle(text string) string {
	width := max(20, min(m.width-4, 100))
	return lipgloss.NewStyle().Width(width).Render(text)
}

// renderArticle renders the article view.
func (m Model) renderArticle() string {
	styles := m.theme.Styles()
	switch {
	case m.article.loading:
		msg := fmt.Sprintf("%s Loading %s", m.spinner.View(), truncate(m.article.title, 60))
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	case m.article.err != nil:
		msg := "Could not load article: " + describeError(m.article.err)
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, styles.DangerText.Render(msg))
	}
	return m.article.viewport.View()
}
