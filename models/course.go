package models

import "github.com/uptrace/bun"

// Course is a golf course with its 18-hole card stored as JSON arrays.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID            int      `bun:"id,pk,autoincrement" json:"id"`
	Name          string   `bun:"name,notnull,unique" json:"name"`
	Country       *string  `bun:"country" json:"country"`
	SlopeRating   *float64 `bun:"slope_rating" json:"slope_rating"`
	HolePars      []int    `bun:"hole_pars,type:jsonb,notnull,default:'[]'" json:"hole_pars"`
	StrokeIndices []int    `bun:"hole_stroke_indices,type:jsonb,notnull,default:'[]'" json:"hole_stroke_indices"`
}
