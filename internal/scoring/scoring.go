// Package scoring turns a finished puzzle's grid size, move count and
// elapsed time into a score and a star rating.
package scoring

// Scoring constants.
const (
	PointsPerTile = 1500
	MovePenalty   = 15
	SecondPenalty = 8

	// The score never drops below a tenth of the base score.
	FloorNumerator   = 1
	FloorDenominator = 10
)

// Result is the outcome of scoring one completed puzzle.
type Result struct {
	Base  int
	Raw   int
	Stars int
}

// Percentage returns Raw as a fraction of Base.
func (r Result) Percentage() float64 {
	if r.Base == 0 {
		return 0
	}
	return float64(r.Raw) / float64(r.Base)
}

// Base returns the maximum score for a grid of gridSize x gridSize tiles.
func Base(gridSize int) int {
	return gridSize * gridSize * PointsPerTile
}

// Floor returns the minimum score for a grid.
func Floor(gridSize int) int {
	return Base(gridSize) * FloorNumerator / FloorDenominator
}

// Compute scores a solve. Negative moves or seconds count as zero.
func Compute(gridSize, moves, seconds int) Result {
	moves = max(moves, 0)
	seconds = max(seconds, 0)

	base := Base(gridSize)
	raw := max(Floor(gridSize), base-moves*MovePenalty-seconds*SecondPenalty)

	return Result{
		Base:  base,
		Raw:   raw,
		Stars: Stars(raw, base),
	}
}

// Stars rates raw against base: 3 above 80%, 2 above 60%, otherwise 1.
// Thresholds are exclusive, so exactly 80% earns 2 stars.
func Stars(raw, base int) int {
	switch {
	case raw*10 > base*8:
		return 3
	case raw*10 > base*6:
		return 2
	default:
		return 1
	}
}
