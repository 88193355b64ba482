// Package scoring converts gross hole scores and handicap data into net scores,
// Stableford points and a ranked tournament leaderboard.
//
// Everything in this package is pure: functions take values, return values and
// never touch the database, the network or a logger.
package scoring

import (
	"fmt"
	"math"
)

// StandardSlope is the slope rating of a course of standard difficulty.
const StandardSlope = 113.0

// PlayingHandicap scales a handicap index to a course: round(index * slope / 113).
// Halves round away from zero. Results that do not fit an int32 are rejected.
func PlayingHandicap(index, slope float64) (int, error) {
	if !finite(index) {
		return 0, fmt.Errorf("handicap index %v: %w", index, ErrInvalidInput)
	}
	if !finite(slope) || slope <= 0 {
		return 0, fmt.Errorf("slope rating %v: %w", slope, ErrInvalidInput)
	}
	ph := math.Round(index * slope / StandardSlope)
	if math.Abs(ph) > math.MaxInt32 {
		return 0, fmt.Errorf("playing handicap %v out of range: %w", ph, ErrInvalidInput)
	}
	return int(ph), nil
}

// HandicapFor is PlayingHandicap for nullable columns. A nil input is missing, not zero.
func HandicapFor(index, slope *float64) (int, error) {
	if index == nil {
		return 0, fmt.Errorf("handicap index missing: %w", ErrInvalidInput)
	}
	if slope == nil {
		return 0, fmt.Errorf("slope rating missing: %w", ErrInvalidInput)
	}
	return PlayingHandicap(*index, *slope)
}

// AdjustmentTable maps a round's Stableford total to the change applied to a
// player's handicap index once the round is finalized.
type AdjustmentTable map[int]float64

// Apply returns the handicap index after a round scoring stableford points,
// rounded to one decimal place. Scores missing from the table leave the index unchanged.
func (t AdjustmentTable) Apply(current float64, stableford int) float64 {
	delta, ok := t[stableford]
	if !ok {
		return current
	}
	return math.Round((current+delta)*10) / 10
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
