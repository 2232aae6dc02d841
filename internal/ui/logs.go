package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

func (m Model) loadLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.setError(msg.err)
		return
	}
	m.logLines = msg.lines
	m.renderLogViewport()
	m.logViewport.GotoBottom()
}

// renderLogViewport colorizes the loaded lines into the log viewport.
func (m *Model) renderLogViewport() {
	if m.logViewport.Width == 0 {
		m.logViewport.Width = m.width
		m.logViewport.Height = m.contentHeight()
	}
	styles := m.theme.Styles()
	out := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		out = append(out, colorizeLogLine(styles, line))
	}
	m.logViewport.SetContent(strings.Join(out, "\n"))
}

// colorizeLogLine renders a logrus line as "time LEVEL message key=value".
func colorizeLogLine(styles Styles, line string) string {
	entry := logtail.Parse(line)
	if entry.Level == "" && entry.Time == "" {
		return styles.Text.Render(entry.Message)
	}

	var parts []string
	if entry.Time != "" {
		parts = append(parts, styles.FaintText.Render(entry.Time))
	}
	if entry.Level != "" {
		parts = append(parts, styles.LevelStyle(entry.Level).Render(padRight(strings.ToUpper(entry.Level), 5)))
	}
	if entry.Message != "" {
		parts = append(parts, styles.Text.Render(entry.Message))
	}
	for _, f := range entry.Fields {
		parts = append(parts, styles.AccentText.Render(f.Key+"=")+styles.MutedText.Render(f.Value))
	}
	return strings.Join(parts, " ")
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	if len(m.logLines) == 0 {
		styles := m.theme.Styles()
		msg := "Log is empty"
		if m.logPath != "" {
			msg += ": " + m.logPath
		}
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}
	return m.logViewport.View()
}
