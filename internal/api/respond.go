package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/phase"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// turnError maps a gateway error to a response. Generation failures get a
// generic message: the learner can try again, and the cause stays in the
// logs.
func turnError(w http.ResponseWriter, sessionID string, err error) {
	var gerr *gateway.ContentGenerationError
	switch {
	case errors.As(err, &gerr):
		JSON(w, http.StatusServiceUnavailable, errorBody{
			Error:     "could not prepare the next step, please try again",
			Retryable: true,
			SessionID: sessionID,
		})
	case errors.Is(err, gateway.ErrTurnInProgress):
		JSON(w, http.StatusConflict, errorBody{Error: err.Error(), Retryable: true, SessionID: sessionID})
	case errors.Is(err, phase.ErrMissingInput), errors.Is(err, gateway.ErrUnknownOption):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, phase.ErrInvalidTransition), errors.Is(err, gateway.ErrNotStarted):
		Error(w, http.StatusConflict, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
