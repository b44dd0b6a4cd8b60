// Package session drives one player's run through the level catalog:
// menu, playing and won states, move and time counters, scoring and
// progress recording.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lumina/internal/catalog"
	"github.com/vovakirdan/lumina/internal/progress"
	"github.com/vovakirdan/lumina/internal/puzzle"
	"github.com/vovakirdan/lumina/internal/scoring"
	"github.com/vovakirdan/lumina/internal/storage"
)

var (
	ErrLevelOutOfRange   = errors.New("session: level index out of range")
	ErrLevelLocked       = errors.New("session: level is locked")
	ErrNoNextLevel       = errors.New("session: no next level")
	ErrInvalidTransition = errors.New("session: invalid transition")
)

// State is the controller's position in the menu/play/won cycle.
type State int

const (
	StateMenu State = iota
	StatePlaying
	StateWon
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	default:
		return "unknown"
	}
}

// History receives one entry per completed level. *storage.Store
// implements it.
type History interface {
	SaveCompletion(c storage.Completion) (string, error)
}

// Result is captured when a level is solved.
type Result struct {
	LevelID       int
	Score         int
	Base          int
	Stars         int
	Moves         int
	Seconds       int
	NewBest       bool
	Best          int
	Avg           int
	Plays         int
	UnlockedLevel int
}

// Controller is the session state machine. It is not safe for concurrent
// use; the UI drives it from a single goroutine.
type Controller struct {
	catalog  *catalog.Catalog
	progress *progress.Store
	history  History
	logger   *log.Logger
	rng      *rand.Rand

	state      State
	index      int
	chapter    int
	puzzle     *puzzle.Puzzle
	moves      int
	clock      Clock
	generation uint64

	result     Result
	commentary string
	hasComment bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistory records every completion in h.
func WithHistory(h History) Option {
	return func(c *Controller) {
		c.history = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSeed makes shuffles deterministic. A zero seed uses the current time.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		if seed != 0 {
			c.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// New creates a controller in the menu state.
func New(cat *catalog.Catalog, store *progress.Store, opts ...Option) *Controller {
	c := &Controller{
		catalog:  cat,
		progress: store,
		logger:   log.New(io.Discard),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		state:    StateMenu,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins the level at levelIndex. It is valid from any state.
func (c *Controller) Start(levelIndex int) error {
	lvl, ok := c.catalog.At(levelIndex)
	if !ok {
		return fmt.Errorf("%w: %d", ErrLevelOutOfRange, levelIndex)
	}
	if !c.progress.IsUnlocked(lvl.ID) {
		return fmt.Errorf("%w: %d", ErrLevelLocked, lvl.ID)
	}
	return c.begin(levelIndex)
}

// Restart reshuffles the level being played without recording anything.
func (c *Controller) Restart() error {
	if c.state != StatePlaying {
		return ErrInvalidTransition
	}
	return c.begin(c.index)
}

// Replay plays the level just won again.
func (c *Controller) Replay() error {
	if c.state != StateWon {
		return ErrInvalidTransition
	}
	return c.begin(c.index)
}

// Next moves from a won level to the following one.
func (c *Controller) Next() error {
	if c.state != StateWon {
		return ErrInvalidTransition
	}
	if _, ok := c.catalog.Next(c.index); !ok {
		return ErrNoNextLevel
	}
	return c.begin(c.index + 1)
}

// Home abandons the current level and returns to the menu. Nothing is
// recorded.
func (c *Controller) Home() {
	if c.state == StateMenu {
		return
	}
	c.clock.Release()
	c.generation++
	c.state = StateMenu
	c.puzzle = nil
	c.logger.Debug("back to menu", "level", c.Level().ID)
}

func (c *Controller) begin(index int) error {
	lvl, _ := c.catalog.At(index)

	p, err := puzzle.New(lvl.GridSize, puzzle.ModePlay, c.rng)
	if err != nil {
		return fmt.Errorf("session: cannot build level %d: %w", lvl.ID, err)
	}
	p.OnMove(func() { c.moves++ })
	p.OnSolved(c.win)

	c.clock.Release()
	c.index = index
	c.chapter = c.catalog.ChapterOf(index)
	c.puzzle = p
	c.moves = 0
	c.result = Result{}
	c.commentary = ""
	c.hasComment = false
	c.generation++
	c.clock.Acquire()
	c.state = StatePlaying

	c.logger.Debug("level started", "level", lvl.ID, "grid", lvl.GridSize, "generation", c.generation)
	return nil
}

// Select forwards a tile selection to the puzzle while playing.
func (c *Controller) Select(tileID int) puzzle.Outcome {
	if c.state != StatePlaying || c.puzzle == nil {
		return puzzle.OutcomeIgnored
	}
	return c.puzzle.SelectOrSwap(tileID)
}

// win runs once per solved puzzle, from the puzzle's solved callback.
func (c *Controller) win() {
	c.clock.Release()

	lvl, _ := c.catalog.At(c.index)
	seconds := c.clock.Seconds()
	score := scoring.Compute(lvl.GridSize, c.moves, seconds)

	nextID := progress.NoNextLevel
	if next, ok := c.catalog.Next(c.index); ok {
		nextID = next.ID
	}

	upd, err := c.progress.RecordResult(lvl.ID, score.Raw, nextID)
	if err != nil {
		c.logger.Error("cannot save progress", "level", lvl.ID, "error", err)
	}

	c.result = Result{
		LevelID:       lvl.ID,
		Score:         score.Raw,
		Base:          score.Base,
		Stars:         score.Stars,
		Moves:         c.moves,
		Seconds:       seconds,
		NewBest:       upd.NewBest,
		Best:          upd.Stats.Best,
		Avg:           upd.Stats.Avg,
		Plays:         upd.Stats.Plays,
		UnlockedLevel: upd.UnlockedLevel,
	}
	c.state = StateWon

	if c.history != nil {
		_, err := c.history.SaveCompletion(storage.Completion{
			LevelID: lvl.ID,
			Score:   score.Raw,
			Stars:   score.Stars,
			Moves:   c.moves,
			Seconds: seconds,
			NewBest: upd.NewBest,
		})
		if err != nil {
			c.logger.Warn("cannot save completion", "level", lvl.ID, "error", err)
		}
	}

	c.logger.Info("level solved", "level", lvl.ID, "score", score.Raw, "stars", score.Stars,
		"moves", c.moves, "seconds", seconds, "new_best", upd.NewBest)
}

// Tick advances the clock by one second if lease is still current.
func (c *Controller) Tick(lease uint64) bool {
	if c.state != StatePlaying {
		return false
	}
	return c.clock.Tick(lease)
}

// Lease returns the clock lease the UI should tag its next tick with.
func (c *Controller) Lease() (uint64, bool) {
	return c.clock.Lease()
}

// Generation identifies the current level attempt. Asynchronous work started
// for one attempt carries its generation back.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// AcceptCommentary stores text for the won view if gen is still current.
func (c *Controller) AcceptCommentary(gen uint64, text string) bool {
	if gen != c.generation || c.state != StateWon {
		return false
	}
	c.commentary = text
	c.hasComment = true
	return true
}

// Commentary returns the accepted commentary, if any.
func (c *Controller) Commentary() (string, bool) {
	return c.commentary, c.hasComment
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// LevelIndex returns the catalog index of the current (or last) level.
func (c *Controller) LevelIndex() int {
	return c.index
}

// Level returns the current (or last) level.
func (c *Controller) Level() catalog.Level {
	lvl, _ := c.catalog.At(c.index)
	return lvl
}

// NextLevel returns the level after the current one.
func (c *Controller) NextLevel() (catalog.Level, bool) {
	return c.catalog.Next(c.index)
}

// Puzzle returns the board being played, or nil in the menu.
func (c *Controller) Puzzle() *puzzle.Puzzle {
	return c.puzzle
}

// Moves returns the number of swaps in the current attempt.
func (c *Controller) Moves() int {
	return c.moves
}

// Seconds returns the elapsed play time of the current attempt.
func (c *Controller) Seconds() int {
	return c.clock.Seconds()
}

// Result returns the outcome of the last solve, valid in StateWon.
func (c *Controller) Result() (Result, bool) {
	return c.result, c.state == StateWon
}

// Chapter returns the chapter shown in the menu.
func (c *Controller) Chapter() int {
	return c.chapter
}

// SetChapter pages the menu. Out of range values are clamped.
func (c *Controller) SetChapter(ch int) {
	c.chapter = max(0, min(ch, c.catalog.ChapterCount()-1))
}

// Catalog returns the level catalog.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Progress returns the progress store.
func (c *Controller) Progress() *progress.Store {
	return c.progress
}
