package models

import "github.com/uptrace/bun"

// HandicapAdjustment is the handicap index change for a finalized round's Stableford total.
type HandicapAdjustment struct {
	bun.BaseModel `bun:"table:handicap_adjustments,alias:ha"`

	StablefordScore int     `bun:"stableford_score,pk" json:"stableford_score"`
	Adjustment      float64 `bun:"adjustment,notnull" json:"adjustment"`
}
