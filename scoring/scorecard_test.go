package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorecard_Lifecycle(t *testing.T) {
	course := testCourse()
	card, err := NewScorecard(18.4, course)
	require.NoError(t, err)

	assert.Equal(t, 21, card.PlayingHandicap)
	assert.Equal(t, 18.4, card.HandicapIndex)
	assert.Equal(t, Open, card.State())

	for hole := 1; hole <= HoleCount; hole++ {
		require.NoError(t, card.SetScore(hole, course.Pars[hole-1]))
	}

	require.ErrorIs(t, card.Reopen(), ErrInvalidTransition)
	require.NoError(t, card.Finalize())
	assert.Equal(t, Finalized, card.State())
	require.ErrorIs(t, card.Finalize(), ErrInvalidTransition)
	require.ErrorIs(t, card.SetScore(1, 3), ErrRoundFinalized)

	require.NoError(t, card.Reopen())
	assert.Equal(t, Open, card.State())
	require.NoError(t, card.SetScore(1, 3))
	assert.Equal(t, 3, card.Gross[0])
}

func TestScorecard_SetScoreValidation(t *testing.T) {
	var card Scorecard

	require.ErrorIs(t, card.SetScore(0, 4), ErrInvalidInput)
	require.ErrorIs(t, card.SetScore(19, 4), ErrInvalidInput)
	require.ErrorIs(t, card.SetScore(3, -2), ErrInvalidInput)

	require.NoError(t, card.SetScore(3, 4))
	require.NoError(t, card.SetScore(3, 0))
	assert.Zero(t, card.Gross[2])
}

func TestNewScorecard_RejectsNaN(t *testing.T) {
	course := testCourse()
	course.SlopeRating = 0

	_, err := NewScorecard(12, course)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestScorecard_SummaryUsesFrozenHandicap(t *testing.T) {
	course := testCourse()
	card, err := NewScorecard(8.8, course)
	require.NoError(t, err)
	require.Equal(t, 10, card.PlayingHandicap)

	card.Gross = course.Pars
	before, err := card.Summary(course)
	require.NoError(t, err)

	// A later change on the player (or a tougher slope) must not leak into this round.
	course.SlopeRating = 150
	after, err := card.Summary(course)
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 72-10, after.NetTotal)
	assert.Equal(t, 10*3+8*2, after.StablefordTotal)
}

func TestScorecard_SummaryFinalizedSemantics(t *testing.T) {
	course := testCourse()
	card := Scorecard{PlayingHandicap: 0}
	card.Gross = course.Pars
	card.Gross[17] = 0

	open, err := card.Summary(course)
	require.NoError(t, err)
	assert.Equal(t, 17, open.HolesPlayed)

	require.NoError(t, card.Finalize())
	final, err := card.Summary(course)
	require.NoError(t, err)
	assert.Equal(t, HoleCount, final.HolesPlayed)
	assert.Equal(t, open.GrossTotal, final.GrossTotal)
	assert.Equal(t, open.StablefordTotal, final.StablefordTotal)
}
