package scoring

import (
	"fmt"
	"math"
)

const (
	HoleCount = 18
	FrontNine = 9
)

// CourseCard is the static course data needed to score a round.
type CourseCard struct {
	Pars          [HoleCount]int
	StrokeIndices [HoleCount]int
	SlopeRating   float64
}

// Validate checks pars, stroke indices and the slope rating.
func (c CourseCard) Validate() error {
	for i, par := range c.Pars {
		if par < 1 {
			return fmt.Errorf("hole %d par %d: %w", i+1, par, ErrInvalidInput)
		}
	}
	if err := ValidateStrokeIndices(c.StrokeIndices); err != nil {
		return err
	}
	if math.IsNaN(c.SlopeRating) || math.IsInf(c.SlopeRating, 0) || c.SlopeRating <= 0 {
		return fmt.Errorf("slope rating %v: %w", c.SlopeRating, ErrInvalidInput)
	}
	return nil
}

// ValidateStrokeIndices reports whether indices is a permutation of 1..18.
func ValidateStrokeIndices(indices [HoleCount]int) error {
	var seen [HoleCount + 1]bool
	for i, si := range indices {
		if si < 1 || si > HoleCount {
			return fmt.Errorf("hole %d stroke index %d out of range: %w", i+1, si, ErrInvalidInput)
		}
		if seen[si] {
			return fmt.Errorf("hole %d stroke index %d repeated: %w", i+1, si, ErrInvalidInput)
		}
		seen[si] = true
	}
	return nil
}

// Allocation is the number of handicap strokes received on each hole.
type Allocation struct {
	PerHole [HoleCount]int
	Front9  int
	Back9   int
}

// Total is the number of strokes allocated over the round.
func (a Allocation) Total() int {
	return a.Front9 + a.Back9
}

// AllocateStrokes spreads a playing handicap over the holes, hardest stroke index first.
// Every hole receives playingHandicap/18 strokes, and the holes with stroke index
// 1..playingHandicap%18 one more. Handicaps below zero allocate nothing.
func AllocateStrokes(playingHandicap int, strokeIndices [HoleCount]int) (Allocation, error) {
	if err := ValidateStrokeIndices(strokeIndices); err != nil {
		return Allocation{}, err
	}

	var a Allocation
	if playingHandicap <= 0 {
		return a, nil
	}

	base, extra := playingHandicap/HoleCount, playingHandicap%HoleCount
	for i, si := range strokeIndices {
		n := base
		if si <= extra {
			n++
		}
		a.PerHole[i] = n
		if i < FrontNine {
			a.Front9 += n
		} else {
			a.Back9 += n
		}
	}
	return a, nil
}
