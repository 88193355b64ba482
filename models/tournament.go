package models

import "github.com/uptrace/bun"

// Tournament groups players and an ordered list of course assignments.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID       int     `bun:"id,pk,autoincrement" json:"id"`
	Name     string  `bun:"name,notnull,unique" json:"name"`
	Date     *string `bun:"date" json:"date"`
	Location *string `bun:"location" json:"location"`

	Players []Player `bun:"m2m:tournament_players,join:Tournament=Player" json:"players"`
}

// TournamentPlayer is the tournament/player join table.
type TournamentPlayer struct {
	bun.BaseModel `bun:"table:tournament_players,alias:tp"`

	TournamentID int         `bun:"tournament_id,pk"`
	Tournament   *Tournament `bun:"rel:belongs-to,join:tournament_id=id"`
	PlayerID     int         `bun:"player_id,pk"`
	Player       *Player     `bun:"rel:belongs-to,join:player_id=id"`
}

// TournamentCourse assigns a course to a tournament. SequenceNumber is the
// round number, so the same course may appear more than once.
type TournamentCourse struct {
	bun.BaseModel `bun:"table:tournament_courses,alias:tc"`

	TournamentID   int     `bun:"tournament_id,pk" json:"tournament_id"`
	CourseID       int     `bun:"course_id,pk" json:"course_id"`
	SequenceNumber int     `bun:"sequence_number,pk" json:"sequence_number"`
	Course         *Course `bun:"rel:belongs-to,join:course_id=id" json:"-"`
}
