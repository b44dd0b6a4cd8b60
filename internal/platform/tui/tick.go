// Package tui provides the Bubble Tea front-end for lumina: the level
// picker, the board, the level complete screen, the history table and SSH
// serving.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lumina/internal/catalog"
	"github.com/vovakirdan/lumina/internal/commentary"
	"github.com/vovakirdan/lumina/internal/imagery"
)

// ClockTickMsg advances the play clock by one second. Lease ties it to the
// attempt that scheduled it.
type ClockTickMsg struct {
	Lease uint64
}

// clockTick schedules the next one-second tick for lease.
func clockTick(lease uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return ClockTickMsg{Lease: lease}
	})
}

// commentaryMsg carries a commentary line for the attempt gen.
type commentaryMsg struct {
	gen  uint64
	text string
}

func requestCommentary(p commentary.Provider, timeout time.Duration, gen uint64, req commentary.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		text, err := p.Comment(ctx, req)
		if err != nil {
			text = commentary.FailedText(req.Language)
		}
		return commentaryMsg{gen: gen, text: text}
	}
}

// imageMsg carries the picture resolution for a level. gen is the attempt
// that asked for it, or 0 for a prefetch.
type imageMsg struct {
	gen     uint64
	levelID int
	res     imagery.Resolution
}

func resolveImage(r *imagery.Resolver, timeout time.Duration, gen uint64, lvl catalog.Level) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return imageMsg{gen: gen, levelID: lvl.ID, res: r.Resolve(ctx, lvl)}
	}
}
