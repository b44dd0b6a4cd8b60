package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lumina/internal/catalog"
	"github.com/vovakirdan/lumina/internal/commentary"
	"github.com/vovakirdan/lumina/internal/imagery"
	"github.com/vovakirdan/lumina/internal/progress"
	"github.com/vovakirdan/lumina/internal/puzzle"
	"github.com/vovakirdan/lumina/internal/session"
	"github.com/vovakirdan/lumina/internal/storage"
)

// HistoryStore keeps completed levels. *storage.Store implements it.
type HistoryStore interface {
	session.History
	RecentCompletions(limit int) ([]storage.Completion, error)
}

// Options wires a Model to its collaborators.
type Options struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	// Preferences persists language and theme; nil keeps them in memory.
	Preferences progress.Backend
	// History may be nil when no database is available.
	History    HistoryStore
	Commentary commentary.Provider
	Images     *imagery.Resolver
	Logger     *log.Logger

	Seed     int64
	Language catalog.Language // overrides the stored preference when set
	Theme    progress.Theme   // overrides the stored preference when set

	CommentaryTimeout time.Duration
	ImageTimeout      time.Duration

	// StartLevel opens a level directly; -1 starts in the menu.
	StartLevel int
	Width      int
	Height     int
}

// Model is the Bubble Tea model for one player.
type Model struct {
	opts Options
	ctrl *session.Controller

	prefs progress.Preferences
	theme Theme

	menuKeys  MenuKeyMap
	boardKeys BoardKeyMap
	wonKeys   WonKeyMap
	help      help.Model

	menuCursor int // index within the current chapter
	cursor     int // board cell
	peek       bool
	labels     bool

	images         map[int]imagery.Resolution // resolved pictures by level id
	imagePending   bool
	commentPending bool
	status         string

	history     HistoryModel
	showHistory bool

	width    int
	height   int
	quitting bool
}

// NewModel creates the model. A level that cannot be started from
// opts.StartLevel is reported in the status line and the menu is shown.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Images == nil {
		opts.Images = imagery.New(imagery.Options{Logger: opts.Logger})
	}
	opts.Commentary = commentary.WithFallback(opts.Commentary, opts.Logger)
	if opts.CommentaryTimeout <= 0 {
		opts.CommentaryTimeout = 15 * time.Second
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = imagery.DefaultTimeout
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 80, 24
	}

	prefs := progress.LoadPreferences(opts.Preferences)
	if opts.Language != "" {
		prefs.Language = opts.Language
	}
	if opts.Theme != "" {
		prefs.Theme = opts.Theme
	}

	ctrl := session.New(opts.Catalog, opts.Progress,
		session.WithSeed(opts.Seed),
		session.WithHistory(opts.History),
		session.WithLogger(opts.Logger),
	)

	h := help.New()
	h.Width = opts.Width

	m := Model{
		opts:      opts,
		ctrl:      ctrl,
		prefs:     prefs,
		theme:     ThemeFor(prefs.Theme),
		menuKeys:  DefaultMenuKeyMap(),
		boardKeys: DefaultBoardKeyMap(),
		wonKeys:   DefaultWonKeyMap(),
		help:      h,
		images:    make(map[int]imagery.Resolution),
		width:     opts.Width,
		height:    opts.Height,
	}

	if opts.StartLevel >= 0 {
		if err := m.ctrl.Start(opts.StartLevel); err != nil {
			m.status = m.startError(err, opts.StartLevel)
		} else {
			m.prepareAttempt()
		}
	}
	m.syncMenuCursor()
	return m
}

// Controller exposes the session for tests and embedding models.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// Init starts the clock and picture lookup when opening on a level.
func (m Model) Init() tea.Cmd {
	if m.ctrl.State() == session.StatePlaying {
		return m.attemptCmds()
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.showHistory {
			m.history = m.history.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case ClockTickMsg:
		// A rejected tick ends that lease's chain
		if m.ctrl.Tick(msg.Lease) {
			return m, clockTick(msg.Lease)
		}
		return m, nil

	case imageMsg:
		if msg.res.Resolved() {
			m.images[msg.levelID] = msg.res
		}
		if msg.gen == m.ctrl.Generation() {
			m.imagePending = false
		}
		return m, nil

	case commentaryMsg:
		if m.ctrl.AcceptCommentary(msg.gen, msg.text) {
			m.commentPending = false
		} else {
			m.opts.Logger.Debug("dropped stale commentary", "generation", msg.gen)
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHistory {
			return m.updateHistory(msg)
		}
		switch m.ctrl.State() {
		case session.StatePlaying:
			return m.handleBoardKey(msg)
		case session.StateWon:
			return m.handleWonKey(msg)
		default:
			return m.handleMenuKey(msg)
		}
	}

	return m, nil
}

// prepareAttempt resets per-attempt view state after the controller has
// (re)started a level.
func (m *Model) prepareAttempt() {
	m.cursor = 0
	m.peek = false
	m.status = ""
	m.commentPending = false
	_, cached := m.images[m.ctrl.Level().ID]
	m.imagePending = !cached
	m.syncMenuCursor()
}

// attemptCmds starts the clock for the current lease and looks up the
// pictures for this level and the next.
func (m Model) attemptCmds() tea.Cmd {
	cmds := []tea.Cmd{}
	if lease, running := m.ctrl.Lease(); running {
		cmds = append(cmds, clockTick(lease))
	}

	gen := m.ctrl.Generation()
	lvl := m.ctrl.Level()
	if _, ok := m.images[lvl.ID]; !ok {
		cmds = append(cmds, resolveImage(m.opts.Images, m.opts.ImageTimeout, gen, lvl))
	}
	if next, ok := m.ctrl.NextLevel(); ok {
		if _, cached := m.images[next.ID]; !cached {
			cmds = append(cmds, resolveImage(m.opts.Images, m.opts.ImageTimeout, 0, next))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) syncMenuCursor() {
	_, start := m.opts.Catalog.Chapter(m.ctrl.Chapter())
	m.menuCursor = max(0, m.ctrl.LevelIndex()-start)
}

func (m Model) startError(err error, index int) string {
	if errors.Is(err, session.ErrLevelLocked) {
		lvl, _ := m.opts.Catalog.At(index)
		return fmt.Sprintf(tr(m.prefs.Language, "level_locked"), lvl.ID)
	}
	return err.Error()
}

// handleMenuKey processes keyboard input in the level picker.
func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	levels, start := m.opts.Catalog.Chapter(m.ctrl.Chapter())

	switch {
	case key.Matches(msg, m.menuKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.menuKeys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}

	case key.Matches(msg, m.menuKeys.Down):
		if m.menuCursor < len(levels)-1 {
			m.menuCursor++
		}

	case key.Matches(msg, m.menuKeys.PrevChapter):
		m.ctrl.SetChapter(m.ctrl.Chapter() - 1)
		m.menuCursor = 0
		m.status = ""

	case key.Matches(msg, m.menuKeys.NextChapter):
		m.ctrl.SetChapter(m.ctrl.Chapter() + 1)
		m.menuCursor = 0
		m.status = ""

	case key.Matches(msg, m.menuKeys.Select):
		index := start + m.menuCursor
		if err := m.ctrl.Start(index); err != nil {
			m.status = m.startError(err, index)
			return m, nil
		}
		m.prepareAttempt()
		return m, m.attemptCmds()

	case key.Matches(msg, m.menuKeys.History):
		m.history = NewHistoryModel(m.opts.History, m.opts.Catalog, m.prefs.Language, m.width, m.height)
		m.showHistory = true

	case key.Matches(msg, m.menuKeys.Language):
		if m.prefs.Language == catalog.LangZH {
			m.prefs.Language = catalog.LangEN
		} else {
			m.prefs.Language = catalog.LangZH
		}
		m.savePreferences()

	case key.Matches(msg, m.menuKeys.Theme):
		m.prefs.Theme = m.prefs.Theme.Toggle()
		m.theme = ThemeFor(m.prefs.Theme)
		m.savePreferences()

	case key.Matches(msg, m.menuKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) savePreferences() {
	if err := progress.SavePreferences(m.opts.Preferences, m.prefs); err != nil {
		m.opts.Logger.Warn("cannot save preferences", "error", err)
	}
}

// handleBoardKey processes keyboard input while playing.
func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.ctrl.Puzzle()
	n := p.GridSize()
	row, col := m.cursor/n, m.cursor%n

	switch {
	case key.Matches(msg, m.boardKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.boardKeys.Up):
		row = (row + n - 1) % n
	case key.Matches(msg, m.boardKeys.Down):
		row = (row + 1) % n
	case key.Matches(msg, m.boardKeys.Left):
		col = (col + n - 1) % n
	case key.Matches(msg, m.boardKeys.Right):
		col = (col + 1) % n

	case key.Matches(msg, m.boardKeys.Select):
		tile, ok := p.TileAt(m.cursor)
		if !ok {
			return m, nil
		}
		m.peek = false
		if out := m.ctrl.Select(tile.ID); out == puzzle.OutcomeSolved {
			return m, m.onWin()
		}
		return m, nil

	case key.Matches(msg, m.boardKeys.Peek):
		m.peek = !m.peek
	case key.Matches(msg, m.boardKeys.Labels):
		m.labels = !m.labels
	case key.Matches(msg, m.boardKeys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.boardKeys.Restart):
		if err := m.ctrl.Restart(); err != nil {
			return m, nil
		}
		m.prepareAttempt()
		return m, m.attemptCmds()

	case key.Matches(msg, m.boardKeys.Home):
		m.ctrl.Home()
		m.syncMenuCursor()
		return m, nil
	}

	m.cursor = row*n + col
	return m, nil
}

// onWin asks for commentary on the level just solved.
func (m *Model) onWin() tea.Cmd {
	m.commentPending = true
	lvl := m.ctrl.Level()
	req := commentary.Request{
		LevelName:    lvl.Name.In(m.prefs.Language),
		ImageKeyword: lvl.ImageKeyword,
		Language:     m.prefs.Language,
	}
	return requestCommentary(m.opts.Commentary, m.opts.CommentaryTimeout, m.ctrl.Generation(), req)
}

// handleWonKey processes keyboard input on the level complete screen.
func (m Model) handleWonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.wonKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.wonKeys.Next):
		err := m.ctrl.Next()
		if errors.Is(err, session.ErrNoNextLevel) {
			m.ctrl.Home()
			m.syncMenuCursor()
			m.status = tr(m.prefs.Language, "all_done")
			return m, nil
		}
		if err != nil {
			return m, nil
		}
		m.prepareAttempt()
		return m, m.attemptCmds()

	case key.Matches(msg, m.wonKeys.Replay):
		if err := m.ctrl.Replay(); err != nil {
			return m, nil
		}
		m.prepareAttempt()
		return m, m.attemptCmds()

	case key.Matches(msg, m.wonKeys.Home):
		m.ctrl.Home()
		m.syncMenuCursor()
	}
	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.showHistory = false
	}
	return m, cmd
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHistory {
		return m.history.View()
	}

	switch m.ctrl.State() {
	case session.StatePlaying:
		return m.viewBoard()
	case session.StateWon:
		return m.viewWon()
	default:
		return m.viewMenu()
	}
}

// Run starts the Bubble Tea program for a local player.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
