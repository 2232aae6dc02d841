package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/shiori"
	"github.com/five82/shelf/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewArticle
	ViewLogs
)

// inputMode is the prompt shown in the footer, if any.
type inputMode int

const (
	inputNone inputMode = iota
	inputAddURL
	inputConfirmDelete
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    shiori.Operations
	Store     *state.Store
	ServerURL string
	LogPath   string
	PollTick  time.Duration // how often the UI re-reads the store
	ThemeName string
	Sort      string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    shiori.Operations
	store     *state.Store
	serverURL string
	logPath   string
	prefsPath string
	pollTick  time.Duration

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model
	busy        int // in-flight commands

	// Data state
	snapshot state.Snapshot
	sortMode string

	// List state
	selectedRow int
	marked      map[int]bool

	// Article state
	article articleState

	// Log state
	logViewport viewport.Model
	logLines    []string

	// Prompt state
	mode         inputMode
	input        textinput.Model
	pendingIDs   []int
	statusText   string
	statusIsErr  bool
	statusExpiry time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sortMode := opts.Sort
	if sortMode == "" {
		sortMode = prefs.SortNewest
	}

	ti := textinput.New()
	ti.Placeholder = "https://example.com/article"
	ti.Prompt = "Add URL: "
	ti.CharLimit = 2048

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		serverURL:   opts.ServerURL,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewList,
		spinner:     sp,
		sortMode:    sortMode,
		marked:      make(map[int]bool),
		input:       ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil && m.client != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.store, m.client))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshDoneMsg:
		m.finish()
		if msg.err != nil {
			m.setError(msg.err)
		} else if m.statusIsErr {
			m.statusText = ""
			m.statusIsErr = false
		}
		return m, m.snapshotCmd()

	case articleMsg:
		m.finish()
		return m.handleArticle(msg)

	case addDoneMsg:
		m.finish()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("Added " + msg.url)
		return m, m.startRefresh()

	case deleteDoneMsg:
		m.finish()
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		for _, id := range msg.ids {
			delete(m.marked, id)
		}
		m.setStatus(pluralize(len(msg.ids), "bookmark") + " deleted")
		return m, m.snapshotCmd()

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case inputAddURL:
		return m.handleAddInput(msg)
	case inputConfirmDelete:
		return m.handleConfirmDelete(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		if m.currentView == ViewLogs {
			m.renderLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs) && m.currentView != ViewLogs:
		m.currentView = ViewLogs
		return m, m.loadLogsCmd()

	case key.Matches(msg, m.keys.Back) && m.currentView != ViewList:
		m.currentView = ViewList
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewArticle:
		var cmd tea.Cmd
		m.article.viewport, cmd = m.article.viewport.Update(msg)
		return m, cmd
	case ViewLogs:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.loadLogsCmd()
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleListKey processes keyboard input for the bookmark list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.sortedBookmarks()
	count := len(items)

	switch {
	case key.Matches(msg, m.keys.Add):
		m.mode = inputAddURL
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()

	case key.Matches(msg, m.keys.Sort):
		m.sortMode = prefs.NextSort(m.sortMode)
		m.savePrefs()
		m.selectedRow = 0
		return m, nil
	}

	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(count-1, m.selectedRow+m.listHeight()/2)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(0, m.selectedRow-m.listHeight()/2)

	case key.Matches(msg, m.keys.Mark):
		id := items[m.selectedRow].ID
		if m.marked[id] {
			delete(m.marked, id)
		} else {
			m.marked[id] = true
		}
		if m.selectedRow < count-1 {
			m.selectedRow++
		}

	case key.Matches(msg, m.keys.Delete):
		m.pendingIDs = m.deleteTargets(items)
		m.mode = inputConfirmDelete

	case key.Matches(msg, m.keys.Open):
		item := items[m.selectedRow]
		m.article = articleState{id: item.ID, title: item.Title, url: item.URL, loading: true}
		m.article.viewport = viewport.New(m.width, m.contentHeight())
		m.currentView = ViewArticle
		m.busy++
		return m, tea.Batch(fetchArticleCmd(m.ctx, m.client, item.ID), m.spinner.Tick)
	}

	return m, nil
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	var selectedID int
	if item := m.selectedBookmark(); item != nil {
		selectedID = item.ID
	}
	m.snapshot = snap

	// Drop marks for bookmarks that no longer exist.
	present := make(map[int]bool, len(snap.Bookmarks))
	for _, b := range snap.Bookmarks {
		present[b.ID] = true
	}
	for id := range m.marked {
		if !present[id] {
			delete(m.marked, id)
		}
	}

	items := m.sortedBookmarks()
	if len(items) == 0 {
		m.selectedRow = 0
		return
	}
	if selectedID > 0 {
		for i, item := range items {
			if item.ID == selectedID {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(items) {
		m.selectedRow = len(items) - 1
	}
}

func (m *Model) startRefresh() tea.Cmd {
	if m.store == nil || m.client == nil {
		return nil
	}
	m.busy++
	return tea.Batch(refreshCmd(m.ctx, m.store, m.client), m.spinner.Tick)
}

func (m *Model) finish() {
	if m.busy > 0 {
		m.busy--
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return fetchSnapshotCmd(m.store)
}

func (m *Model) setStatus(text string) {
	m.statusText = text
	m.statusIsErr = false
	m.statusExpiry = time.Now().Add(StatusMessageTTL)
}

func (m *Model) setError(err error) {
	m.statusText = describeError(err)
	m.statusIsErr = true
	m.statusExpiry = time.Time{}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Sort: m.sortMode}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		logrus.WithError(err).Warn("save prefs failed")
	}
}

func (m *Model) resizeViewports() {
	h := m.contentHeight()
	m.article.viewport.Width = m.width
	m.article.viewport.Height = h
	if m.article.text != "" {
		m.article.viewport.SetContent(m.wrapArticle(m.article.text))
	}
	m.logViewport.Width = m.width
	m.logViewport.Height = h
	m.renderLogViewport()
}

// contentHeight is the space between the header and footer lines.
func (m Model) contentHeight() int {
	return max(1, m.height-2)
}

// renderMain renders the header, the active view and the footer.
func (m Model) renderMain() string {
	var body string
	switch m.currentView {
	case ViewArticle:
		body = m.renderArticle()
	case ViewLogs:
		body = m.renderLogs()
	default:
		body = m.renderList()
	}
	body = lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(body)

	return strings.Join([]string{m.renderHeader(), body, m.renderFooter()}, "\n")
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, store *state.Store, client shiori.Operations) tea.Cmd {
	return func() tea.Msg {
		bookmarks, err := client.ListBookmarks(ctx)
		if err != nil {
			store.Update(nil, err)
			logrus.WithError(err).Warn("bookmark refresh failed")
			return refreshDoneMsg{err: err}
		}
		store.Update(bookmarks, nil)
		return refreshDoneMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
