package main

import (
	"database/sql"
	"encoding/json"
	"strings"
)

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// parseIntList decodes the JSON text the legacy schema used for per-hole arrays.
// NULL and empty text become an empty list.
func parseIntList(s sql.NullString) ([]int, error) {
	out := []int{}
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}
