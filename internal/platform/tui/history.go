package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lumina/internal/catalog"
	"github.com/vovakirdan/lumina/internal/storage"
)

// maxHistory is the number of completions loaded into the table.
const maxHistory = 100

// HistoryModel shows recent completions in a table.
type HistoryModel struct {
	store     HistoryStore
	catalog   *catalog.Catalog
	lang      catalog.Language
	entries   []storage.Completion
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel loads recent completions from store. A nil store shows
// an explanatory message instead of a table.
func NewHistoryModel(store HistoryStore, cat *catalog.Catalog, lang catalog.Language, width, height int) HistoryModel {
	m := HistoryModel{
		store:   store,
		catalog: cat,
		lang:    lang,
		help:    help.New(),
		keys:    DefaultHistoryKeyMap(),
		width:   width,
		height:  height,
	}
	m.help.Width = width

	if store != nil {
		m.entries, m.loadErr = store.RecentCompletions(maxHistory)
	}

	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a new table with columns sized to the terminal.
func (m HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: tr(m.lang, "col_date"), Width: 12},
		{Title: tr(m.lang, "col_level"), Width: 20},
		{Title: tr(m.lang, "col_score"), Width: 8},
		{Title: tr(m.lang, "col_stars"), Width: 6},
		{Title: tr(m.lang, "col_moves"), Width: 6},
		{Title: tr(m.lang, "col_time"), Width: 6},
	}

	// Give spare width to the level name
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := m.width - 8 - used; spare > 0 {
		columns[1].Width += min(spare, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded completions.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, c := range m.entries {
		name := strconv.Itoa(c.LevelID)
		if lvl, ok := m.catalog.ByID(c.LevelID); ok {
			name = fmt.Sprintf("%d %s", c.LevelID, lvl.Name.In(m.lang))
		}
		score := strconv.Itoa(c.Score)
		if c.NewBest {
			score += "*"
		}
		rows[i] = table.Row{
			c.CreatedAt.Local().Format("Jan 02 15:04"),
			name,
			score,
			starString(c.Stars),
			strconv.Itoa(c.Moves),
			formatDuration(c.Seconds),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Resize adapts the table to a new terminal size.
func (m HistoryModel) Resize(width, height int) HistoryModel {
	m.width = width
	m.height = height
	m.help.Width = width
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		}
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText(tr(m.lang, "history"), m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tableStyle.Render(m.renderTableContent())))

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render(tr(m.lang, "no_store"))
	case m.loadErr != nil:
		return emptyStyle.Render(m.loadErr.Error())
	case len(m.entries) == 0:
		return emptyStyle.Render(tr(m.lang, "history_empty"))
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}
