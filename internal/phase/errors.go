package phase

import "errors"

var (
	// ErrInvalidTransition is returned when Advance is called in a phase or
	// with a command that has no legal successor.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrMissingInput is returned when the ask phase is advanced with neither
	// an answer nor a recognized command.
	ErrMissingInput = errors.New("missing learner input")
)
