package scoring

import (
	"cmp"
	"slices"
)

// RoundEntry is one player's summarized round in a tournament.
type RoundEntry struct {
	PlayerID    int
	PlayerName  string
	RoundNumber int
	Summary     RoundSummary
}

// RoundPoints is the Stableford total of a single round on the leaderboard.
type RoundPoints struct {
	RoundNumber int `json:"round_number"`
	Points      int `json:"points"`
}

// Row is one player's line on the tournament leaderboard.
type Row struct {
	Position         int           `json:"position"`
	PlayerID         int           `json:"player_id"`
	PlayerName       string        `json:"player_name"`
	Stableford       int           `json:"stableford"`
	Gross            int           `json:"gross"`
	Front9           int           `json:"front_9"`
	Back9            int           `json:"back_9"`
	Rounds           []RoundPoints `json:"rounds"`
	CountbackApplied bool          `json:"countback_applied"`
}

// Rank aggregates round entries per player and orders the players by
// Stableford total, then back nine, then front nine. Players still level keep
// the order in which they first appear in entries. Positions are sequential,
// so tied players get distinct positions.
func Rank(entries []RoundEntry) []Row {
	byPlayer := make(map[int]int, len(entries))
	rows := make([]Row, 0, len(entries))

	for _, e := range entries {
		i, ok := byPlayer[e.PlayerID]
		if !ok {
			i = len(rows)
			byPlayer[e.PlayerID] = i
			rows = append(rows, Row{PlayerID: e.PlayerID, PlayerName: e.PlayerName})
		}
		r := &rows[i]
		r.Stableford += e.Summary.StablefordTotal
		r.Gross += e.Summary.GrossTotal
		r.Front9 += e.Summary.StablefordFront9
		r.Back9 += e.Summary.StablefordBack9
		r.Rounds = append(r.Rounds, RoundPoints{RoundNumber: e.RoundNumber, Points: e.Summary.StablefordTotal})
	}

	for i := range rows {
		slices.SortStableFunc(rows[i].Rounds, func(a, b RoundPoints) int {
			return cmp.Compare(a.RoundNumber, b.RoundNumber)
		})
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(b.Stableford, a.Stableford),
			cmp.Compare(b.Back9, a.Back9),
			cmp.Compare(b.Front9, a.Front9),
		)
	})

	for i := range rows {
		rows[i].Position = i + 1
		tiedAbove := i > 0 && rows[i-1].Stableford == rows[i].Stableford
		tiedBelow := i+1 < len(rows) && rows[i+1].Stableford == rows[i].Stableford
		rows[i].CountbackApplied = tiedAbove || tiedBelow
	}
	return rows
}
