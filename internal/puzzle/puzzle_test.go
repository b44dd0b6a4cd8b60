package puzzle

import (
	"math/rand"
	"testing"
)

// assertPermutation fails unless current indexes cover [0, n) exactly once.
func assertPermutation(t *testing.T, p *Puzzle) {
	t.Helper()
	n := p.GridSize() * p.GridSize()
	seen := make([]bool, n)
	tiles := p.Tiles()
	if len(tiles) != n {
		t.Fatalf("expected %d tiles, got %d", n, len(tiles))
	}
	for _, tile := range tiles {
		if tile.CurrentIndex < 0 || tile.CurrentIndex >= n {
			t.Fatalf("tile %d out of range: %d", tile.ID, tile.CurrentIndex)
		}
		if seen[tile.CurrentIndex] {
			t.Fatalf("cell %d occupied twice", tile.CurrentIndex)
		}
		seen[tile.CurrentIndex] = true

		at, ok := p.TileAt(tile.CurrentIndex)
		if !ok || at.ID != tile.ID {
			t.Fatalf("cell index disagrees with tile %d", tile.ID)
		}
	}
}

func TestNewPlayIsShuffledPermutation(t *testing.T) {
	for size := 2; size <= 8; size++ {
		for seed := int64(0); seed < 50; seed++ {
			p, err := New(size, ModePlay, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("New(%d) failed: %v", size, err)
			}
			assertPermutation(t, p)
			if p.IsSolved() {
				t.Fatalf("size %d seed %d: fresh play board is solved", size, seed)
			}
		}
	}
}

func TestNewPreviewIsIdentity(t *testing.T) {
	p, err := New(4, ModePreview, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, tile := range p.Tiles() {
		if tile.CurrentIndex != tile.CorrectIndex || tile.ID != tile.CorrectIndex {
			t.Errorf("preview tile %+v not at home", tile)
		}
	}
	if !p.IsSolved() {
		t.Error("preview board should be solved")
	}
	if out := p.SelectOrSwap(0); out != OutcomeIgnored {
		t.Errorf("preview SelectOrSwap = %v, want ignored", out)
	}
}

func TestNewRejectsSmallGrid(t *testing.T) {
	for _, size := range []int{-1, 0, 1} {
		if _, err := New(size, ModePlay, rand.New(rand.NewSource(1))); err != ErrInvalidGridSize {
			t.Errorf("New(%d) err = %v, want ErrInvalidGridSize", size, err)
		}
	}
}

func TestSolvedShuffleGuard(t *testing.T) {
	// A 2x2 board has 24 permutations; some seed within a few hundred draws
	// must hit the identity and exercise the guard.
	hit := false
	for seed := int64(0); seed < 500; seed++ {
		positions := Shuffle(4, rand.New(rand.NewSource(seed)))
		identity := true
		for i, pos := range positions {
			if pos != i {
				identity = false
				break
			}
		}
		if !identity {
			continue
		}
		hit = true

		p, err := New(2, ModePlay, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		tiles := p.Tiles()
		if tiles[0].CurrentIndex != 1 || tiles[1].CurrentIndex != 0 {
			t.Errorf("guard should swap first two tiles, got %+v", tiles)
		}
		if tiles[2].CurrentIndex != 2 || tiles[3].CurrentIndex != 3 {
			t.Errorf("guard touched other tiles: %+v", tiles)
		}
		break
	}
	if !hit {
		t.Skip("no identity shuffle found in seed range")
	}
}

func TestSelectSameTileTwiceIsNoop(t *testing.T) {
	p, _ := New(3, ModePlay, rand.New(rand.NewSource(7)))
	before := p.Tiles()

	moves := 0
	p.OnMove(func() { moves++ })

	if out := p.SelectOrSwap(4); out != OutcomeSelected {
		t.Fatalf("first click = %v, want selected", out)
	}
	if id, ok := p.Selected(); !ok || id != 4 {
		t.Fatalf("Selected() = %d, %v", id, ok)
	}
	if out := p.SelectOrSwap(4); out != OutcomeDeselected {
		t.Fatalf("second click = %v, want deselected", out)
	}
	if _, ok := p.Selected(); ok {
		t.Error("selection should be cleared")
	}

	after := p.Tiles()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("tile %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if moves != 0 {
		t.Errorf("moves = %d, want 0", moves)
	}
}

func TestSwapExchangesCells(t *testing.T) {
	p, _ := New(3, ModePlay, rand.New(rand.NewSource(3)))
	tiles := p.Tiles()
	a, b := tiles[2].CurrentIndex, tiles[5].CurrentIndex

	moves := 0
	p.OnMove(func() { moves++ })

	p.SelectOrSwap(2)
	out := p.SelectOrSwap(5)
	if !out.Moved() {
		t.Fatalf("expected a move, got %v", out)
	}

	tiles = p.Tiles()
	if tiles[2].CurrentIndex != b || tiles[5].CurrentIndex != a {
		t.Errorf("swap did not exchange cells: %+v %+v", tiles[2], tiles[5])
	}
	if _, ok := p.Selected(); ok {
		t.Error("selection should be cleared after swap")
	}
	if moves != 1 {
		t.Errorf("moves = %d, want 1", moves)
	}
	assertPermutation(t, p)
}

func TestRandomSwapsPreservePermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p, _ := New(5, ModePlay, rand.New(rand.NewSource(99)))
	moves := 0
	p.OnMove(func() { moves++ })

	swaps := 0
	for range 1000 {
		if p.IsSolved() {
			break
		}
		a, b := rng.Intn(25), rng.Intn(25)
		p.SelectOrSwap(a)
		if p.SelectOrSwap(b).Moved() {
			swaps++
		}
		assertPermutation(t, p)
	}
	if moves != swaps {
		t.Errorf("move callback count %d != swaps %d", moves, swaps)
	}
}

// solveFully swaps each home cell into place, returning the outcomes.
func solveFully(p *Puzzle) []Outcome {
	var outcomes []Outcome
	n := p.GridSize() * p.GridSize()
	for cell := range n {
		occupant, _ := p.TileAt(cell)
		if occupant.ID == cell {
			continue
		}
		p.SelectOrSwap(occupant.ID)
		outcomes = append(outcomes, p.SelectOrSwap(cell))
	}
	return outcomes
}

func TestSolvedFiresOnce(t *testing.T) {
	p, _ := New(3, ModePlay, rand.New(rand.NewSource(11)))
	solved := 0
	p.OnSolved(func() { solved++ })

	outcomes := solveFully(p)
	if len(outcomes) == 0 {
		t.Fatal("expected at least one swap")
	}
	for i, out := range outcomes[:len(outcomes)-1] {
		if out != OutcomeSwapped {
			t.Errorf("outcome %d = %v, want swapped", i, out)
		}
	}
	if last := outcomes[len(outcomes)-1]; last != OutcomeSolved {
		t.Errorf("last outcome = %v, want solved", last)
	}
	if !p.IsSolved() {
		t.Fatal("board should be solved")
	}
	if solved != 1 {
		t.Errorf("solved fired %d times", solved)
	}

	// Further clicks are ignored and do not re-signal
	if out := p.SelectOrSwap(0); out != OutcomeIgnored {
		t.Errorf("click after solve = %v, want ignored", out)
	}
	if solved != 1 {
		t.Errorf("solved fired again: %d", solved)
	}
}

func TestUnknownTileIgnored(t *testing.T) {
	p, _ := New(3, ModePlay, rand.New(rand.NewSource(1)))
	if out := p.SelectOrSwap(9); out != OutcomeIgnored {
		t.Errorf("SelectOrSwap(9) = %v", out)
	}
	if out := p.SelectOrSwap(-1); out != OutcomeIgnored {
		t.Errorf("SelectOrSwap(-1) = %v", out)
	}
}

func TestMisplaced(t *testing.T) {
	p, _ := New(3, ModePreview, rand.New(rand.NewSource(1)))
	if p.Misplaced() != 0 {
		t.Errorf("preview Misplaced = %d", p.Misplaced())
	}

	q, _ := New(3, ModePlay, rand.New(rand.NewSource(1)))
	if q.Misplaced() < 2 {
		t.Errorf("shuffled board Misplaced = %d, want >= 2", q.Misplaced())
	}
}

func TestShuffleUniformity(t *testing.T) {
	// Each of the 6 permutations of 3 elements should appear roughly 1/6 of the time.
	rng := rand.New(rand.NewSource(2024))
	counts := make(map[[3]int]int)
	const trials = 60000
	for range trials {
		p := Shuffle(3, rng)
		counts[[3]int{p[0], p[1], p[2]}]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected 6 permutations, saw %d", len(counts))
	}
	for perm, c := range counts {
		if c < 9000 || c > 11000 {
			t.Errorf("permutation %v count %d outside expected range", perm, c)
		}
	}
}
