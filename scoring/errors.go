package scoring

import "errors"

var (
	// ErrInvalidInput covers NaN or missing handicap inputs, malformed courses and negative scores.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIncompleteData is returned when a total is requested before all 18 holes are entered.
	ErrIncompleteData = errors.New("incomplete data")

	// ErrRoundFinalized is returned when scores are edited on a finalized round.
	ErrRoundFinalized = errors.New("round is finalized")

	// ErrInvalidTransition is returned for a round state change that is not allowed.
	ErrInvalidTransition = errors.New("invalid round state transition")
)
