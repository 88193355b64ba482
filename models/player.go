package models

import "github.com/uptrace/bun"

// Player is a golfer. Handicap is the current handicap index and changes as rounds are finalized.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID       int      `bun:"id,pk,autoincrement" json:"id"`
	Name     string   `bun:"name,notnull,unique" json:"name"`
	Handicap *float64 `bun:"handicap" json:"handicap"`
}
