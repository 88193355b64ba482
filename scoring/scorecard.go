package scoring

import "fmt"

// RoundState is the lifecycle state of a round.
type RoundState string

const (
	// Open rounds accept score edits.
	Open RoundState = "open"
	// Finalized rounds are locked until reopened.
	Finalized RoundState = "finalized"
)

// Scorecard is one player's round. HandicapIndex and PlayingHandicap are
// captured when the round is initiated and never recomputed from the player.
type Scorecard struct {
	HandicapIndex   float64
	PlayingHandicap int
	Gross           [HoleCount]int
	Finalized       bool
}

// NewScorecard starts an open round, freezing the player's handicap against the course.
func NewScorecard(index float64, course CourseCard) (Scorecard, error) {
	ph, err := PlayingHandicap(index, course.SlopeRating)
	if err != nil {
		return Scorecard{}, err
	}
	return Scorecard{HandicapIndex: index, PlayingHandicap: ph}, nil
}

// State reports whether the round is open or finalized.
func (c *Scorecard) State() RoundState {
	if c.Finalized {
		return Finalized
	}
	return Open
}

// SetScore records the gross strokes for a hole (1-18). A gross of 0 clears the hole.
func (c *Scorecard) SetScore(hole, gross int) error {
	if c.Finalized {
		return fmt.Errorf("set hole %d: %w", hole, ErrRoundFinalized)
	}
	if hole < 1 || hole > HoleCount {
		return fmt.Errorf("hole number %d: %w", hole, ErrInvalidInput)
	}
	if gross < 0 {
		return fmt.Errorf("hole %d gross score %d: %w", hole, gross, ErrInvalidInput)
	}
	c.Gross[hole-1] = gross
	return nil
}

// Finalize locks the scores.
func (c *Scorecard) Finalize() error {
	if c.Finalized {
		return fmt.Errorf("finalize: %w", ErrInvalidTransition)
	}
	c.Finalized = true
	return nil
}

// Reopen unlocks a finalized round.
func (c *Scorecard) Reopen() error {
	if !c.Finalized {
		return fmt.Errorf("reopen: %w", ErrInvalidTransition)
	}
	c.Finalized = false
	return nil
}

// Summary derives the round totals using the frozen playing handicap.
func (c *Scorecard) Summary(course CourseCard) (RoundSummary, error) {
	alloc, err := AllocateStrokes(c.PlayingHandicap, course.StrokeIndices)
	if err != nil {
		return RoundSummary{}, err
	}
	if c.Finalized {
		return SummarizeFinalized(c.Gross, course.Pars, alloc.PerHole)
	}
	return Summarize(c.Gross, course.Pars, alloc.PerHole)
}
