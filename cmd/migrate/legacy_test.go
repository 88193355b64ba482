package main

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntList(t *testing.T) {
	tests := []struct {
		name string
		in   sql.NullString
		want []int
	}{
		{name: "null", in: sql.NullString{}, want: []int{}},
		{name: "empty", in: sql.NullString{String: " ", Valid: true}, want: []int{}},
		{name: "json null", in: sql.NullString{String: "null", Valid: true}, want: []int{}},
		{name: "pars", in: sql.NullString{String: "[4, 4, 3, 5]", Valid: true}, want: []int{4, 4, 3, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIntList(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseIntList(sql.NullString{String: "4,4,3", Valid: true})
	assert.Error(t, err)
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullInt(sql.NullInt64{}))
	assert.Equal(t, 21, *nullInt(sql.NullInt64{Int64: 21, Valid: true}))
	assert.Nil(t, nullStr(sql.NullString{}))
	assert.Equal(t, "IE", *nullStr(sql.NullString{String: "IE", Valid: true}))
	assert.Nil(t, nullFloat(sql.NullFloat64{}))
	assert.Equal(t, 18.4, *nullFloat(sql.NullFloat64{Float64: 18.4, Valid: true}))
}
