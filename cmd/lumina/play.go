package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lumina/internal/commentary"
	"github.com/vovakirdan/lumina/internal/imagery"
	"github.com/vovakirdan/lumina/internal/platform/tui"
	"github.com/vovakirdan/lumina/internal/progress"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play lumina",
	Long: `Start the game. Without --level the level picker is shown.

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Pick a tile, then another to swap them
  P            - Peek at the finished picture
  N            - Show tile numbers
  R            - Reshuffle the level
  Esc          - Back to the level picker
  Shift+L      - Switch language (picker)
  Shift+T      - Switch theme (picker)
  Tab          - Completion history (picker)
  Q/Ctrl+C     - Quit

Commentary after each level needs GEMINI_API_KEY (or API_KEY) in the
environment.

Examples:
  lumina play
  lumina play --level 12
  lumina play --dev --level 40
  lumina play --lang en --seed 7`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level id to open directly (0 = level picker)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	startIndex := -1
	if flagLevel != 0 {
		startIndex = e.catalog.IndexOf(flagLevel)
		if startIndex < 0 {
			return fmt.Errorf("unknown level %d, run 'lumina levels' to list them", flagLevel)
		}
	}

	// Get terminal size for the first frame
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := e.tuiOptions(context.Background())
	opts.Preferences = e.backend
	opts.Seed = flagSeed
	opts.StartLevel = startIndex
	opts.Width = width
	opts.Height = height

	e.logger.Info("starting", "levels", e.catalog.Len(), "dev", e.cfg.DevMode, "db", e.db != nil)
	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// tuiOptions builds the collaborators shared by local and SSH play.
func (e *env) tuiOptions(ctx context.Context) tui.Options {
	opts := tui.Options{
		Catalog:  e.catalog,
		Progress: e.progress,
		Images: imagery.New(imagery.Options{
			LocalDir:       e.cfg.Images.LocalDir,
			RemoteTemplate: e.cfg.Images.RemoteTemplate,
			Timeout:        e.cfg.Images.Timeout,
			Logger:         e.logger,
		}),
		Commentary:        e.commentaryProvider(ctx),
		Logger:            e.logger,
		Language:          e.language(),
		Theme:             progress.Theme(e.cfg.Theme),
		CommentaryTimeout: e.cfg.Commentary.Timeout,
		ImageTimeout:      e.cfg.Images.Timeout,
	}
	if e.db != nil {
		opts.History = e.db
	}
	return opts
}

// commentaryProvider returns the Gemini provider, or nil when commentary
// is disabled or no API key is set.
func (e *env) commentaryProvider(ctx context.Context) commentary.Provider {
	if !e.cfg.Commentary.Enabled {
		return nil
	}
	g, err := commentary.NewGemini(ctx, commentary.APIKeyFromEnv(), e.cfg.Commentary.Model)
	if errors.Is(err, commentary.ErrUnavailable) {
		e.logger.Info("commentary disabled: no API key")
		return nil
	}
	if err != nil {
		e.logger.Warn("commentary disabled", "error", err)
		return nil
	}
	e.logger.Debug("commentary enabled", "model", g.Model())
	return g
}
