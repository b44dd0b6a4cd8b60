package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// viewMenu renders the level picker for the current chapter.
func (m Model) viewMenu() string {
	lang := m.prefs.Language
	cat := m.opts.Catalog
	store := m.opts.Progress
	ch := m.ctrl.Chapter()
	levels, _ := cat.Chapter(ch)

	var b strings.Builder

	// Title
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Title.Render(tr(lang, "title")), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Subtitle.Render(tr(lang, "subtitle")), m.width))
	b.WriteString("\n\n")

	// Chapter header with paging arrows
	left, right := "  ", "  "
	if ch > 0 {
		left = "< "
	}
	if ch < cat.ChapterCount()-1 {
		right = " >"
	}
	header := fmt.Sprintf(tr(lang, "chapter"), ch+1, cat.ChapterCount()) + "  " + cat.ChapterTitle(ch, lang)
	b.WriteString(centerText(m.theme.Chapter.Render(left+header+right), m.width))
	b.WriteString("\n\n")

	// Level list
	var list strings.Builder
	for i, lvl := range levels {
		st := store.GetOrDefault(lvl.ID)
		unlocked := store.IsUnlocked(lvl.ID)

		cursor := "  "
		style := m.theme.ItemNormal
		if i == m.menuCursor {
			cursor = "> "
			style = m.theme.ItemActive
		}
		if !unlocked {
			style = m.theme.ItemLocked
		}

		name := truncate(lvl.Name.In(lang), 22)
		line := fmt.Sprintf("%s%3d  %s  %dx%d", cursor, lvl.ID, padRight(name, 22), lvl.GridSize, lvl.GridSize)

		var detail string
		switch {
		case !unlocked:
			detail = m.theme.ItemLocked.Render("  " + tr(lang, "locked"))
		case st.Plays > 0:
			stars := starsFor(st.Best, lvl.GridSize)
			detail = "  " + m.theme.Stars.Render(starString(stars)) +
				m.theme.Muted.Render(fmt.Sprintf("  %s %d", tr(lang, "best"), st.Best))
		default:
			detail = m.theme.Muted.Render("  " + tr(lang, "new"))
		}

		list.WriteString(style.Render(line))
		list.WriteString(detail)
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.TrimRight(list.String(), "\n")))
	b.WriteString("\n\n")

	// Chapter and overall progress
	sum := store.Summarize(cat.IDs())
	b.WriteString(centerText(m.theme.Muted.Render(fmt.Sprintf(tr(lang, "progress"),
		sum.Played, sum.Levels, sum.Unlocked, sum.TotalPlays)), m.width))
	b.WriteString("\n")
	if store.DevMode() {
		b.WriteString(centerText(m.theme.Warning.Render(tr(lang, "dev_mode")), m.width))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(centerText(m.theme.Warning.Render(m.status), m.width))
		b.WriteString("\n")
	}

	// Description of the highlighted level
	if m.menuCursor < len(levels) {
		lvl := levels[m.menuCursor]
		if desc := lvl.Description.In(lang); desc != "" {
			b.WriteString("\n")
			b.WriteString(centerText(m.theme.Subtitle.Render(desc), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Help.Render(m.help.View(m.menuKeys)), m.width))
	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// padRight pads text with spaces to a display width.
func padRight(text string, width int) string {
	if w := lipgloss.Width(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}

// truncate shortens text to a display width.
func truncate(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
