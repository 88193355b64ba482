package handlers

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/golfapi/models"
	"github.com/padraicbc/golfapi/scoring"
)

var testPars = []int{4, 4, 3, 5, 4, 4, 3, 5, 4, 4, 4, 3, 5, 4, 4, 3, 5, 4}

func testCourse() *models.Course {
	slope := 113.0
	country := "IE"
	c := &models.Course{ID: 7, Name: "Old Links", Country: &country, SlopeRating: &slope}
	c.HolePars = append([]int(nil), testPars...)
	for i := range scoring.HoleCount {
		c.StrokeIndices = append(c.StrokeIndices, i+1)
	}
	return c
}

func intp(v int) *int { return &v }

func fullCard(gross func(hole, par int) int) []holeScoreInput {
	in := make([]holeScoreInput, scoring.HoleCount)
	for i := range in {
		in[i] = holeScoreInput{HoleNumber: intp(i + 1), GrossScore: intp(gross(i+1, testPars[i]))}
	}
	return in
}

// testRound is a round off a playing handicap of 18 with the given gross per hole.
func testRound(id, playerID, number int, name string, gross func(hole, par int) int) models.Round {
	idx, ph := 18.0, 18
	r := models.Round{
		ID:                    id,
		TournamentID:          1,
		PlayerID:              playerID,
		CourseID:              7,
		RoundNumber:           number,
		PlayerHandicapIndex:   &idx,
		PlayerPlayingHandicap: &ph,
		Course:                testCourse(),
		Player:                &models.Player{ID: playerID, Name: name},
	}
	for i, par := range testPars {
		if g := gross(i+1, par); g > 0 {
			r.HoleScores = append(r.HoleScores, models.HoleScore{RoundID: id, HoleNumber: i + 1, GrossScore: g})
		}
	}
	return r
}

func bogeys(_, par int) int { return par + 1 }

func TestParseHoleScores(t *testing.T) {
	gross, err := parseHoleScores(fullCard(bogeys))
	require.NoError(t, err)
	assert.Equal(t, 5, gross[0])
	assert.Equal(t, 4, gross[2])
	assert.Equal(t, 5, gross[17])

	// order of entries does not matter
	in := fullCard(bogeys)
	in[0], in[17] = in[17], in[0]
	swapped, err := parseHoleScores(in)
	require.NoError(t, err)
	assert.Equal(t, gross, swapped)

	zeros, err := parseHoleScores(fullCard(func(int, int) int { return 0 }))
	require.NoError(t, err)
	assert.Equal(t, [scoring.HoleCount]int{}, zeros)
}

func TestParseHoleScoresErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]holeScoreInput) []holeScoreInput
	}{
		{"seventeen holes", func(in []holeScoreInput) []holeScoreInput { return in[:17] }},
		{"nineteen holes", func(in []holeScoreInput) []holeScoreInput { return append(in, in[0]) }},
		{"missing hole number", func(in []holeScoreInput) []holeScoreInput { in[3].HoleNumber = nil; return in }},
		{"missing gross", func(in []holeScoreInput) []holeScoreInput { in[3].GrossScore = nil; return in }},
		{"hole 19", func(in []holeScoreInput) []holeScoreInput { in[3].HoleNumber = intp(19); return in }},
		{"hole 0", func(in []holeScoreInput) []holeScoreInput { in[3].HoleNumber = intp(0); return in }},
		{"negative gross", func(in []holeScoreInput) []holeScoreInput { in[3].GrossScore = intp(-1); return in }},
		{"duplicate hole", func(in []holeScoreInput) []holeScoreInput { in[3].HoleNumber = intp(5); return in }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseHoleScores(tt.mutate(fullCard(bogeys)))
			requireStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("3, 1,,12")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 12}, ids)

	ids, err = parseIDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, bad := range []string{"1,x", "0", "-4"} {
		_, err := parseIDList(bad)
		requireStatus(t, err, http.StatusBadRequest)
	}
}

func TestSummarizeRound(t *testing.T) {
	// One stroke on every hole, so a bogey is a net par worth 2 points.
	r := testRound(1, 1, 1, "Simon", bogeys)
	s, err := summarizeRound(&r)
	require.NoError(t, err)

	assert.Equal(t, 90, s.GrossTotal)
	assert.Equal(t, 72, s.NetTotal)
	assert.Equal(t, 36, s.StablefordTotal)
	assert.Equal(t, 18, s.StablefordFront9)
	assert.True(t, s.Complete())
}

func TestSummarizeRoundPartial(t *testing.T) {
	r := testRound(1, 1, 1, "Simon", func(hole, par int) int {
		if hole > 9 {
			return 0
		}
		return par
	})
	s, err := summarizeRound(&r)
	require.NoError(t, err)
	assert.Equal(t, 9, s.HolesPlayed)
	assert.Equal(t, 27, s.StablefordTotal, "net birdie on each of nine holes")
	assert.ErrorIs(t, s.RequireComplete(), scoring.ErrIncompleteData)
}

func TestSummarizeRoundErrors(t *testing.T) {
	r := testRound(1, 1, 1, "Simon", bogeys)
	r.Course = nil
	_, err := summarizeRound(&r)
	assert.ErrorIs(t, err, scoring.ErrIncompleteData)

	r = testRound(1, 1, 1, "Simon", bogeys)
	r.Course.SlopeRating = nil
	_, err = summarizeRound(&r)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestViewRound(t *testing.T) {
	r := testRound(4, 2, 1, "Aoife", bogeys)
	v := viewRound(&r)
	assert.Equal(t, "Aoife", v.PlayerName)
	assert.Equal(t, "Old Links", v.CourseName)
	require.NotNil(t, v.Summary)
	assert.Equal(t, 36, v.Summary.StablefordTotal)

	r.Course.HolePars = nil
	r.HoleScores = nil
	v = viewRound(&r)
	assert.Nil(t, v.Summary, "no summary without a complete card")
	assert.NotNil(t, v.HoleScores)
}

func TestLeaderboardEntries(t *testing.T) {
	rounds := []models.Round{
		testRound(1, 10, 1, "Simon", bogeys),
		testRound(2, 20, 1, "Aoife", func(_, par int) int { return par }),
		testRound(3, 10, 2, "Simon", func(_, par int) int { return par }),
	}
	entries, err := leaderboardEntries(rounds)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Aoife", entries[1].PlayerName)
	assert.Equal(t, 54, entries[1].Summary.StablefordTotal)

	rows := scoring.Rank(entries)
	want := []scoring.Row{
		{
			Position: 1, PlayerID: 10, PlayerName: "Simon", Stableford: 90, Gross: 162, Front9: 45, Back9: 45,
			Rounds: []scoring.RoundPoints{{RoundNumber: 1, Points: 36}, {RoundNumber: 2, Points: 54}},
		},
		{
			Position: 2, PlayerID: 20, PlayerName: "Aoife", Stableford: 54, Gross: 72, Front9: 27, Back9: 27,
			Rounds: []scoring.RoundPoints{{RoundNumber: 1, Points: 54}},
		},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("leaderboard mismatch (-want +got):\n%s", diff)
	}
}

func TestLeaderboardEntriesBadCourse(t *testing.T) {
	r := testRound(1, 10, 1, "Simon", bogeys)
	r.Course.StrokeIndices = r.Course.StrokeIndices[:3]
	_, err := leaderboardEntries([]models.Round{r})
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestAdjustmentTable(t *testing.T) {
	table := adjustmentTable([]models.HandicapAdjustment{
		{StablefordScore: 36, Adjustment: 0},
		{StablefordScore: 40, Adjustment: -1.2},
	})
	assert.Len(t, table, 2)
	assert.Equal(t, 17.2, table.Apply(18.4, 40))
	assert.Equal(t, 18.4, table.Apply(18.4, 30), "unlisted scores leave the index alone")
}
