// Package puzzle implements the tile-swap board: shuffling, selection,
// swapping and solved detection. It has no knowledge of levels, scores or
// time; the session layer owns those.
package puzzle

import (
	"errors"
	"math/rand"
)

// ErrInvalidGridSize is returned for boards smaller than 2x2.
var ErrInvalidGridSize = errors.New("puzzle: grid size must be at least 2")

// Mode controls whether a puzzle is shuffled and accepts input.
type Mode int

const (
	// ModePreview shows the solved image and ignores input.
	ModePreview Mode = iota
	// ModePlay shuffles the tiles and accepts swaps.
	ModePlay
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModePlay:
		return "play"
	default:
		return "unknown"
	}
}

// Outcome reports what a call to SelectOrSwap did.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeSelected
	OutcomeDeselected
	OutcomeSwapped
	OutcomeSolved // a swap that completed the picture
)

// Moved reports whether the outcome counts as a move.
func (o Outcome) Moved() bool {
	return o == OutcomeSwapped || o == OutcomeSolved
}

// Tile is one fragment of the image. CorrectIndex is its home cell,
// CurrentIndex the cell it occupies now. Cells are row-major from 0.
type Tile struct {
	ID           int
	CorrectIndex int
	CurrentIndex int
}

// InPlace reports whether the tile sits on its home cell.
func (t Tile) InPlace() bool {
	return t.CurrentIndex == t.CorrectIndex
}

// Puzzle is a single board instance. Tile IDs equal their slice index and
// their CorrectIndex.
type Puzzle struct {
	gridSize int
	mode     Mode
	tiles    []Tile
	cells    []int // cell -> tile id

	selected    int
	hasSelected bool

	solvedSignalled bool
	onMove          func()
	onSolved        func()
}

// New builds a board of gridSize x gridSize tiles. In ModePlay the tiles are
// shuffled with a uniform Fisher-Yates permutation drawn from rng; a shuffle
// that happens to come out solved gets its first two tiles exchanged so the
// player never starts on a finished picture.
func New(gridSize int, mode Mode, rng *rand.Rand) (*Puzzle, error) {
	if gridSize < 2 {
		return nil, ErrInvalidGridSize
	}

	n := gridSize * gridSize
	p := &Puzzle{
		gridSize: gridSize,
		mode:     mode,
		tiles:    make([]Tile, n),
		cells:    make([]int, n),
	}

	for i := range n {
		p.tiles[i] = Tile{ID: i, CorrectIndex: i, CurrentIndex: i}
	}

	if mode == ModePlay {
		positions := Shuffle(n, rng)
		for i := range p.tiles {
			p.tiles[i].CurrentIndex = positions[i]
		}
		if p.allInPlace() {
			p.tiles[0].CurrentIndex, p.tiles[1].CurrentIndex = p.tiles[1].CurrentIndex, p.tiles[0].CurrentIndex
		}
	}

	p.reindex()
	return p, nil
}

// Shuffle returns a uniformly random permutation of [0, n) using
// Fisher-Yates.
func Shuffle(n int, rng *rand.Rand) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		positions[i], positions[j] = positions[j], positions[i]
	}
	return positions
}

// reindex rebuilds the cell lookup from tile positions.
func (p *Puzzle) reindex() {
	for _, t := range p.tiles {
		p.cells[t.CurrentIndex] = t.ID
	}
}

// OnMove registers a callback invoked once per completed swap.
func (p *Puzzle) OnMove(fn func()) {
	p.onMove = fn
}

// OnSolved registers a callback invoked once, on the swap that solves the
// board.
func (p *Puzzle) OnSolved(fn func()) {
	p.onSolved = fn
}

// SelectOrSwap handles a click on tileID. With nothing selected the tile
// becomes selected; clicking it again clears the selection; clicking a
// different tile exchanges the two tiles' cells. Preview boards, solved
// boards and unknown tile ids are left untouched.
func (p *Puzzle) SelectOrSwap(tileID int) Outcome {
	if p.mode != ModePlay || p.solvedSignalled {
		return OutcomeIgnored
	}
	if tileID < 0 || tileID >= len(p.tiles) {
		return OutcomeIgnored
	}

	if !p.hasSelected {
		p.selected = tileID
		p.hasSelected = true
		return OutcomeSelected
	}

	if p.selected == tileID {
		p.hasSelected = false
		return OutcomeDeselected
	}

	p.swap(p.selected, tileID)
	p.hasSelected = false

	if p.onMove != nil {
		p.onMove()
	}

	if p.checkSolved() {
		return OutcomeSolved
	}
	return OutcomeSwapped
}

// swap exchanges the current cells of two tiles.
func (p *Puzzle) swap(a, b int) {
	ta, tb := &p.tiles[a], &p.tiles[b]
	ta.CurrentIndex, tb.CurrentIndex = tb.CurrentIndex, ta.CurrentIndex
	p.cells[ta.CurrentIndex] = ta.ID
	p.cells[tb.CurrentIndex] = tb.ID
}

// checkSolved fires the solved callback on the first transition into the
// solved state and reports whether that transition happened now.
func (p *Puzzle) checkSolved() bool {
	if p.solvedSignalled || !p.allInPlace() {
		return false
	}
	p.solvedSignalled = true
	if p.onSolved != nil {
		p.onSolved()
	}
	return true
}

func (p *Puzzle) allInPlace() bool {
	for _, t := range p.tiles {
		if !t.InPlace() {
			return false
		}
	}
	return true
}

// IsSolved reports whether every tile is on its home cell.
func (p *Puzzle) IsSolved() bool {
	return p.allInPlace()
}

// Misplaced counts tiles not on their home cell.
func (p *Puzzle) Misplaced() int {
	count := 0
	for _, t := range p.tiles {
		if !t.InPlace() {
			count++
		}
	}
	return count
}

// GridSize returns the number of tiles per row.
func (p *Puzzle) GridSize() int {
	return p.gridSize
}

// Mode returns the puzzle mode.
func (p *Puzzle) Mode() Mode {
	return p.mode
}

// Selected returns the selected tile id, if any.
func (p *Puzzle) Selected() (int, bool) {
	return p.selected, p.hasSelected
}

// Tiles returns a copy of the tiles ordered by id.
func (p *Puzzle) Tiles() []Tile {
	out := make([]Tile, len(p.tiles))
	copy(out, p.tiles)
	return out
}

// TileAt returns the tile currently occupying cell.
func (p *Puzzle) TileAt(cell int) (Tile, bool) {
	if cell < 0 || cell >= len(p.cells) {
		return Tile{}, false
	}
	return p.tiles[p.cells[cell]], true
}
