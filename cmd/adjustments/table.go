package main

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/padraicbc/golfapi/models"
)

// tableFile is the on-disk layout:
//
//	adjustments:
//	  - stableford_score: 36
//	    adjustment: 0
//	  - stableford_score: 40
//	    adjustment: -1.0
type tableFile struct {
	Adjustments []struct {
		StablefordScore *int     `yaml:"stableford_score"`
		Adjustment      *float64 `yaml:"adjustment"`
	} `yaml:"adjustments"`
}

// parseTable decodes and validates a table file. Rows come back ordered by score.
func parseTable(r io.Reader) ([]models.HandicapAdjustment, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode adjustments: %w", err)
	}

	seen := make(map[int]bool, len(f.Adjustments))
	rows := make([]models.HandicapAdjustment, 0, len(f.Adjustments))
	for i, a := range f.Adjustments {
		if a.StablefordScore == nil || a.Adjustment == nil {
			return nil, fmt.Errorf("entry %d: stableford_score and adjustment are required", i+1)
		}
		score, adj := *a.StablefordScore, *a.Adjustment
		if score < 0 {
			return nil, fmt.Errorf("entry %d: negative stableford_score %d", i+1, score)
		}
		if math.IsNaN(adj) || math.IsInf(adj, 0) {
			return nil, fmt.Errorf("entry %d: adjustment is not a number", i+1)
		}
		if seen[score] {
			return nil, fmt.Errorf("entry %d: stableford_score %d listed twice", i+1, score)
		}
		seen[score] = true
		rows = append(rows, models.HandicapAdjustment{StablefordScore: score, Adjustment: adj})
	}

	slices.SortFunc(rows, func(a, b models.HandicapAdjustment) int { return a.StablefordScore - b.StablefordScore })
	return rows, nil
}
