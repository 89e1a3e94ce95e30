package gateway

import (
	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/phase"
)

// TurnResult is what a learner-facing surface receives after a turn. It
// never carries the correct option id.
type TurnResult struct {
	Phase     phase.Phase       `json:"phase"`
	State     phase.State       `json:"state"`
	Interface content.Interface `json:"interface"`
	Directive phase.Directive   `json:"directive"`

	// NeedsAttention stays set once the learner has reported an issue in
	// this lesson.
	NeedsAttention bool `json:"needs_attention"`

	// ProjectedScore is the score including the answer being evaluated.
	// It equals State.Score outside the evaluate phase.
	ProjectedScore int `json:"projected_score"`

	// AnswerCorrect is set in the evaluate phase.
	AnswerCorrect *bool `json:"answer_correct,omitempty"`

	Attempts int `json:"attempts"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID      string      `json:"session_id"`
	Topic          string      `json:"topic"`
	Started        bool        `json:"started"`
	Phase          phase.Phase `json:"phase"`
	State          phase.State `json:"state"`
	TotalQuestions int         `json:"total_questions"`
	NeedsAttention bool        `json:"needs_attention"`
	InFlight       bool        `json:"in_flight"`
	Last           *TurnResult `json:"last,omitempty"`
}
