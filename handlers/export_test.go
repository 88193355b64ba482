package handlers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/padraicbc/golfapi/scoring"
)

func TestWriteLeaderboardXLSX(t *testing.T) {
	rows := []scoring.Row{
		{
			Position: 1, PlayerName: "Simon", Stableford: 70, Gross: 170, Front9: 34, Back9: 36,
			Rounds:           []scoring.RoundPoints{{RoundNumber: 1, Points: 36}, {RoundNumber: 2, Points: 34}},
			CountbackApplied: true,
		},
		{
			Position: 2, PlayerName: "Aoife", Stableford: 70, Gross: 168, Front9: 36, Back9: 34,
			Rounds:           []scoring.RoundPoints{{RoundNumber: 1, Points: 33}, {RoundNumber: 2, Points: 37}},
			CountbackApplied: true,
		},
		{
			Position: 3, PlayerName: "Ciarán", Stableford: 30, Gross: 95, Front9: 15, Back9: 15,
			Rounds: []scoring.RoundPoints{{RoundNumber: 2, Points: 30}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeLeaderboardXLSX(&buf, "Captain's Prize", rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{leaderboardSheet}, f.GetSheetList())
	got, err := f.GetRows(leaderboardSheet)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, []string{"Captain's Prize"}, got[0])
	assert.Equal(t, []string{"Pos", "Player", "Stableford", "Back 9", "Front 9", "Gross", "R1", "R2", "Countback"}, got[1])
	assert.Equal(t, []string{"1", "Simon", "70", "36", "34", "170", "36", "34", "yes"}, got[2])
	assert.Equal(t, []string{"2", "Aoife", "70", "34", "36", "168", "33", "37", "yes"}, got[3])

	// Ciarán has no first round and no countback
	require.GreaterOrEqual(t, len(got[4]), 8)
	assert.Equal(t, "Ciarán", got[4][1])
	assert.Empty(t, got[4][6])
	assert.Equal(t, "30", got[4][7])
}

func TestWriteLeaderboardXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLeaderboardXLSX(&buf, "Empty", nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(leaderboardSheet)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Pos", "Player", "Stableford", "Back 9", "Front 9", "Gross", "Countback"}, got[1])
}
