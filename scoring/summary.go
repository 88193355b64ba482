package scoring

import "fmt"

// HoleResult is the derived score for one hole.
type HoleResult struct {
	Hole    int  `json:"hole_number"`
	Par     int  `json:"par"`
	Gross   int  `json:"gross_score"`
	Strokes int  `json:"handicap_strokes"`
	Net     int  `json:"nett_score"`
	Points  int  `json:"stableford_points"`
	Played  bool `json:"played"`
}

// RoundSummary holds the nine-hole and 18-hole totals of one round.
type RoundSummary struct {
	GrossFront9      int `json:"gross_score_front_9"`
	GrossBack9       int `json:"gross_score_back_9"`
	GrossTotal       int `json:"gross_score_total"`
	NetFront9        int `json:"nett_score_front_9"`
	NetBack9         int `json:"nett_score_back_9"`
	NetTotal         int `json:"nett_score_total"`
	StablefordFront9 int `json:"stableford_front_9"`
	StablefordBack9  int `json:"stableford_back_9"`
	StablefordTotal  int `json:"stableford_total"`
	HolesPlayed      int `json:"holes_played"`

	Holes [HoleCount]HoleResult `json:"holes"`
}

// Complete reports whether every hole counted towards the totals.
func (s RoundSummary) Complete() bool {
	return s.HolesPlayed == HoleCount
}

// RequireComplete returns ErrIncompleteData unless all 18 holes are entered.
func (s RoundSummary) RequireComplete() error {
	if !s.Complete() {
		return fmt.Errorf("%d of %d holes entered: %w", s.HolesPlayed, HoleCount, ErrIncompleteData)
	}
	return nil
}

// StablefordPoints scores a net result against par: 2 for a net par, one more
// per stroke under and one fewer per stroke over, never below zero.
func StablefordPoints(net, par int) int {
	return max(0, 2-(net-par))
}

// Summarize totals an open round. A gross of 0 means the hole has not been
// entered yet; it adds nothing to any total and scores no points.
func Summarize(gross, pars, strokes [HoleCount]int) (RoundSummary, error) {
	return summarize(gross, pars, strokes, false)
}

// SummarizeFinalized totals a finalized round, where every hole counts as entered.
// A gross of 0 still scores no Stableford points, but its strokes reduce the net total.
func SummarizeFinalized(gross, pars, strokes [HoleCount]int) (RoundSummary, error) {
	return summarize(gross, pars, strokes, true)
}

func summarize(gross, pars, strokes [HoleCount]int, finalized bool) (RoundSummary, error) {
	var s RoundSummary
	for i := range HoleCount {
		g := gross[i]
		if g < 0 {
			return RoundSummary{}, fmt.Errorf("hole %d gross score %d: %w", i+1, g, ErrInvalidInput)
		}

		h := HoleResult{Hole: i + 1, Par: pars[i], Gross: g, Strokes: strokes[i]}
		h.Played = g > 0 || finalized
		if !h.Played {
			s.Holes[i] = h
			continue
		}

		h.Net = g - strokes[i]
		if g > 0 {
			h.Points = StablefordPoints(h.Net, pars[i])
		}
		s.Holes[i] = h
		s.HolesPlayed++

		if i < FrontNine {
			s.GrossFront9 += g
			s.NetFront9 += h.Net
			s.StablefordFront9 += h.Points
		} else {
			s.GrossBack9 += g
			s.NetBack9 += h.Net
			s.StablefordBack9 += h.Points
		}
	}

	s.GrossTotal = s.GrossFront9 + s.GrossBack9
	s.NetTotal = s.NetFront9 + s.NetBack9
	s.StablefordTotal = s.StablefordFront9 + s.StablefordBack9
	return s, nil
}
