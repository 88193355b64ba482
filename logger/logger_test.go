package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	d, err := New(true)
	require.NoError(t, err)
	assert.True(t, d.Core().Enabled(zapcore.DebugLevel))
}

func TestFields(t *testing.T) {
	assert.Equal(t, "round_id", RoundID(3).Key)
	assert.Equal(t, int64(7), TournamentID(7).Integer)
	assert.Equal(t, zapcore.Int64Type, PlayerID(1).Type)
}
