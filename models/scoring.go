package models

import (
	"fmt"

	"github.com/padraicbc/golfapi/scoring"
)

// Card converts the stored course into a validated scoring card.
func (c *Course) Card() (scoring.CourseCard, error) {
	var card scoring.CourseCard
	if len(c.HolePars) != scoring.HoleCount || len(c.StrokeIndices) != scoring.HoleCount {
		return card, fmt.Errorf("course %d has %d pars and %d stroke indices, need %d: %w",
			c.ID, len(c.HolePars), len(c.StrokeIndices), scoring.HoleCount, scoring.ErrInvalidInput)
	}
	if c.SlopeRating == nil {
		return card, fmt.Errorf("course %d slope rating not set: %w", c.ID, scoring.ErrInvalidInput)
	}

	copy(card.Pars[:], c.HolePars)
	copy(card.StrokeIndices[:], c.StrokeIndices)
	card.SlopeRating = *c.SlopeRating
	if err := card.Validate(); err != nil {
		return card, fmt.Errorf("course %d: %w", c.ID, err)
	}
	return card, nil
}

// Scorecard rebuilds the scoring view of a round from its snapshot and hole scores.
// A round without a playing handicap snapshot plays off zero.
func (r *Round) Scorecard() (scoring.Scorecard, error) {
	sc := scoring.Scorecard{Finalized: r.IsFinalized}
	if r.PlayerHandicapIndex != nil {
		sc.HandicapIndex = *r.PlayerHandicapIndex
	}
	if r.PlayerPlayingHandicap != nil {
		sc.PlayingHandicap = *r.PlayerPlayingHandicap
	}

	// Hole scores are loaded as stored; SetScore would refuse them on a finalized round.
	for _, hs := range r.HoleScores {
		if hs.HoleNumber < 1 || hs.HoleNumber > scoring.HoleCount {
			return sc, fmt.Errorf("round %d hole number %d: %w", r.ID, hs.HoleNumber, scoring.ErrInvalidInput)
		}
		if hs.GrossScore < 0 {
			return sc, fmt.Errorf("round %d hole %d gross score %d: %w", r.ID, hs.HoleNumber, hs.GrossScore, scoring.ErrInvalidInput)
		}
		sc.Gross[hs.HoleNumber-1] = hs.GrossScore
	}
	return sc, nil
}
