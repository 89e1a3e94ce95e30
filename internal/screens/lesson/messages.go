package lesson

import "github.com/abhisek/tutorloop/internal/gateway"

// turnMsg carries the outcome of one gateway call back to the screen.
type turnMsg struct {
	Result *gateway.TurnResult
	Err    error
}
