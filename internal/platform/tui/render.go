package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lumina/internal/puzzle"
	"github.com/vovakirdan/lumina/internal/scoring"
)

// Board layout constants
const (
	hudLines    = 6 // title, stats, status and help around the board
	minTileW    = 2
	maxTileW    = 12
	tileAspect  = 2 // terminal cells are about twice as tall as wide
	boardMargin = 4
)

// tileSize picks a tile size that fits an n x n board in the terminal.
func tileSize(n, width, height int) (w, h int) {
	w = (width - boardMargin) / n
	w = max(minTileW, min(maxTileW, w))
	h = max(1, w/tileAspect)
	if avail := (height - hudLines - 2) / n; h > avail {
		h = max(1, avail)
		w = max(minTileW, min(w, h*tileAspect))
	}
	return w, h
}

// boardView is what the board renderer needs to know about a board.
type boardView struct {
	tiles    []puzzle.Tile
	gridSize int
	cursor   int  // -1 hides the cursor
	selected int  // -1 when nothing is selected
	labels   bool // print home cell numbers on tiles
}

// renderBoard draws each tile's fragment (by CorrectIndex) at its
// CurrentIndex.
func renderBoard(v boardView, pic Picture, theme Theme, tileW, tileH int) string {
	n := v.gridSize
	byCell := make([]puzzle.Tile, n*n)
	for _, t := range v.tiles {
		byCell[t.CurrentIndex] = t
	}

	rows := make([]string, n)
	for r := range n {
		cells := make([]string, n)
		for c := range n {
			cell := r*n + c
			cells[c] = renderTile(byCell[cell], cell == v.cursor, byCell[cell].ID == v.selected, v.labels, pic, theme, tileW, tileH)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderTile(t puzzle.Tile, cursor, selected, labels bool, pic Picture, theme Theme, w, h int) string {
	style := lipgloss.NewStyle().
		Background(pic.Color(t.CorrectIndex)).
		Foreground(theme.TileMark).
		Width(w).
		Height(h).
		Align(lipgloss.Center, lipgloss.Center)

	label := ""
	if labels {
		label = strconv.Itoa(t.CorrectIndex + 1)
	}

	switch {
	case selected:
		style = style.Foreground(theme.TileSelected).Bold(true)
		label = "◆" + label + "◆"
	case cursor:
		label = "[" + label + "]"
	}

	if lipgloss.Width(label) > w {
		label = strings.Trim(label, "[]◆")
		if lipgloss.Width(label) > w {
			label = ""
		}
		if cursor || selected {
			label = "•"
		}
	}
	return style.Render(label)
}

// viewBoard renders the level being played.
func (m Model) viewBoard() string {
	lang := m.prefs.Language
	lvl := m.ctrl.Level()
	p := m.ctrl.Puzzle()
	n := p.GridSize()

	var b strings.Builder

	// Title line
	title := fmt.Sprintf(tr(lang, "level"), lvl.ID) + "  " + lvl.Name.In(lang)
	b.WriteString(centerText(m.theme.Title.Render(title), m.width))
	b.WriteString("\n")

	// HUD
	hud := fmt.Sprintf("%s %s   %s %s   %s %s",
		m.theme.HUDLabel.Render(tr(lang, "moves")), m.theme.HUDValue.Render(strconv.Itoa(m.ctrl.Moves())),
		m.theme.HUDLabel.Render(tr(lang, "time")), m.theme.HUDValue.Render(formatDuration(m.ctrl.Seconds())),
		m.theme.HUDLabel.Render(tr(lang, "misplaced")), m.theme.HUDValue.Render(fmt.Sprintf("%d/%d", p.Misplaced(), n*n)),
	)
	b.WriteString(centerText(hud, m.width))
	b.WriteString("\n\n")

	// Board, or the solved picture while peeking
	tileW, tileH := tileSize(n, m.width, m.height)
	view := boardView{tiles: p.Tiles(), gridSize: n, cursor: m.cursor, selected: -1, labels: m.labels}
	if sel, ok := p.Selected(); ok {
		view.selected = sel
	}
	if m.peek {
		preview, _ := puzzle.New(n, puzzle.ModePreview, nil)
		view = boardView{tiles: preview.Tiles(), gridSize: n, cursor: -1, selected: -1, labels: m.labels}
	}
	board := m.theme.Frame.Render(renderBoard(view, NewPicture(lvl.ImageKeyword, n), m.theme, tileW, tileH))
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, board))
	b.WriteString("\n")

	// Picture source or peek notice
	var status string
	switch {
	case m.peek:
		status = m.theme.Warning.Render(tr(lang, "peek"))
	case m.imagePending:
		status = m.theme.Muted.Render(tr(lang, "image_loading"))
	default:
		if res, ok := m.images[lvl.ID]; ok {
			status = m.theme.Muted.Render(res.URI)
		} else {
			status = m.theme.Muted.Render(tr(lang, "image_missing"))
		}
	}
	b.WriteString(centerText(status, m.width))
	b.WriteString("\n")

	b.WriteString(centerText(m.theme.Help.Render(m.help.View(m.boardKeys)), m.width))
	return b.String()
}

// viewWon renders the level complete screen.
func (m Model) viewWon() string {
	lang := m.prefs.Language
	lvl := m.ctrl.Level()
	res, _ := m.ctrl.Result()

	var body strings.Builder
	body.WriteString(m.theme.OverlayHead.Render(tr(lang, "complete")))
	body.WriteString("\n")
	body.WriteString(m.theme.Subtitle.Render(lvl.Name.In(lang)))
	body.WriteString("\n\n")
	body.WriteString(m.theme.Stars.Render(starString(res.Stars)))
	body.WriteString("\n\n")

	line := func(label, value string) {
		body.WriteString(m.theme.HUDLabel.Render(padRight(label, 10)))
		body.WriteString(m.theme.HUDValue.Render(value))
		body.WriteString("\n")
	}
	line(tr(lang, "score"), fmt.Sprintf("%d / %d", res.Score, res.Base))
	line(tr(lang, "moves"), strconv.Itoa(res.Moves))
	line(tr(lang, "time"), formatDuration(res.Seconds))
	line(tr(lang, "best"), strconv.Itoa(res.Best))
	line(tr(lang, "average"), strconv.Itoa(res.Avg))
	line(tr(lang, "plays"), strconv.Itoa(res.Plays))

	if res.NewBest {
		body.WriteString("\n")
		body.WriteString(m.theme.Warning.Render(tr(lang, "new_best")))
		body.WriteString("\n")
	}

	// Commentary arrives asynchronously
	body.WriteString("\n")
	if text, ok := m.ctrl.Commentary(); ok {
		body.WriteString(m.theme.Commentary.Width(40).Render("“" + text + "”"))
	} else {
		body.WriteString(m.theme.Muted.Render(tr(lang, "thinking")))
	}
	body.WriteString("\n\n")

	if next, ok := m.ctrl.NextLevel(); ok {
		label := fmt.Sprintf(tr(lang, "next_up"), next.Name.In(lang))
		if res.UnlockedLevel == next.ID {
			label = fmt.Sprintf(tr(lang, "unlocked"), next.Name.In(lang))
		}
		body.WriteString(m.theme.Muted.Render(label))
	} else {
		body.WriteString(m.theme.Muted.Render(tr(lang, "all_done")))
	}

	overlay := m.theme.Overlay.Render(body.String())

	// Solved picture next to the results when there is room
	n := lvl.GridSize
	tileW, tileH := tileSize(n, m.width/2, m.height)
	preview, _ := puzzle.New(n, puzzle.ModePreview, nil)
	pic := renderBoard(boardView{tiles: preview.Tiles(), gridSize: n, cursor: -1, selected: -1},
		NewPicture(lvl.ImageKeyword, n), m.theme, tileW, tileH)

	content := overlay
	if lipgloss.Width(pic)+lipgloss.Width(overlay)+4 <= m.width {
		content = lipgloss.JoinHorizontal(lipgloss.Center, m.theme.Frame.Render(pic), "  ", overlay)
	}

	helpLine := m.theme.Help.Render(m.help.View(m.wonKeys))
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content) + "\n" + centerText(helpLine, m.width)
}

// starsFor rates a stored best score on a grid.
func starsFor(best, gridSize int) int {
	if best <= 0 {
		return 0
	}
	return scoring.Stars(best, scoring.Base(gridSize))
}

// starString draws a three-star rating.
func starString(stars int) string {
	stars = max(0, min(3, stars))
	return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
}

// formatDuration renders seconds as m:ss.
func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
