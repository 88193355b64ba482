package models

import "github.com/uptrace/bun"

// Round is one player's play of a tournament course assignment. The handicap
// fields are a snapshot taken when the round was initiated.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID                    int      `bun:"id,pk,autoincrement" json:"id"`
	TournamentID          int      `bun:"tournament_id,notnull" json:"tournament_id"`
	PlayerID              int      `bun:"player_id,notnull" json:"player_id"`
	CourseID              int      `bun:"course_id,notnull" json:"course_id"`
	RoundNumber           int      `bun:"round_number,notnull" json:"round_number"`
	DatePlayed            string   `bun:"date_played,notnull" json:"date_played"`
	PlayerHandicapIndex   *float64 `bun:"player_handicap_index" json:"player_handicap_index"`
	PlayerPlayingHandicap *int     `bun:"player_playing_handicap" json:"player_playing_handicap"`
	IsFinalized           bool     `bun:"is_finalized,notnull,default:false" json:"is_finalized"`

	HoleScores []HoleScore `bun:"rel:has-many,join:id=round_id" json:"hole_scores"`
	Player     *Player     `bun:"rel:belongs-to,join:player_id=id" json:"-"`
	Course     *Course     `bun:"rel:belongs-to,join:course_id=id" json:"-"`
}

// HoleScore is the gross strokes taken on one hole of a round.
type HoleScore struct {
	bun.BaseModel `bun:"table:hole_scores,alias:hs"`

	ID         int `bun:"id,pk,autoincrement" json:"id"`
	RoundID    int `bun:"round_id,notnull,unique:hole_scores_round_hole" json:"round_id"`
	HoleNumber int `bun:"hole_number,notnull,unique:hole_scores_round_hole" json:"hole_number"`
	GrossScore int `bun:"gross_score,notnull" json:"gross_score"`
}
