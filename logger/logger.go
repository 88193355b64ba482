package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON zap logger.
// Debug mode keeps JSON output but lowers the level to debug and adds caller info.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.DisableCaller = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableCaller = false
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{"service": "golfapi"}
	return cfg.Build()
}

// Common field constructors so log lines share key names.

// TournamentID tags a log line with a tournament id.
func TournamentID(id int) zap.Field { return zap.Int("tournament_id", id) }

// PlayerID tags a log line with a player id.
func PlayerID(id int) zap.Field { return zap.Int("player_id", id) }

// RoundID tags a log line with a round id.
func RoundID(id int) zap.Field { return zap.Int("round_id", id) }

// RoundNumber tags a log line with a round's sequence number.
func RoundNumber(n int) zap.Field { return zap.Int("round_number", n) }

// CourseID tags a log line with a course id.
func CourseID(id int) zap.Field { return zap.Int("course_id", id) }
