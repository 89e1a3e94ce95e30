package gateway

import (
	"errors"
	"fmt"

	"github.com/abhisek/tutorloop/internal/phase"
)

var (
	// ErrTurnInProgress is returned when an event arrives while another turn
	// of the same session is still being generated.
	ErrTurnInProgress = errors.New("a turn is already in progress")

	// ErrNotStarted is returned for events sent before Begin succeeded.
	ErrNotStarted = errors.New("session not started")

	// ErrUnknownOption is returned when SelectOption names an option the
	// active question does not have.
	ErrUnknownOption = errors.New("unknown option")
)

// ContentGenerationError reports that no acceptable content could be
// produced for a turn. The session state is unchanged and the same event
// can be sent again.
type ContentGenerationError struct {
	Phase    phase.Phase
	Attempts int
	Err      error
}

func (e *ContentGenerationError) Error() string {
	return fmt.Sprintf("content generation for %s failed after %d attempt(s): %v", e.Phase, e.Attempts, e.Err)
}

func (e *ContentGenerationError) Unwrap() error { return e.Err }

// Retryable is always true: a failed turn commits nothing.
func (e *ContentGenerationError) Retryable() bool { return true }
