// Package content turns a resolved lesson phase into learner-facing text by
// asking a language model, and checks that what comes back has the shape
// the phase requires.
package content

import (
	"encoding/json"

	"github.com/abhisek/tutorloop/internal/phase"
)

// InputType tells the UI which control to show for a turn.
type InputType string

const (
	InputContinue       InputType = "continue"
	InputMultipleChoice InputType = "multiple_choice"
	InputText           InputType = "text"
	InputNone           InputType = "none"
)

// Valid reports whether t is a known input type.
func (t InputType) Valid() bool {
	switch t {
	case InputContinue, InputMultipleChoice, InputText, InputNone:
		return true
	}
	return false
}

// Option is one answer choice of a multiple-choice question.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Interface is the learner-facing part of a turn.
type Interface struct {
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Instructions string    `json:"instructions"`
	InputType    InputType `json:"input_type"`
	Options      []Option  `json:"options"`
	Progress     int       `json:"progress"`
}

// Payload is the decoded generator output for one turn. Phase and State are
// the model's echo and are display-only; the controller's values win.
type Payload struct {
	Phase           string      `json:"phase"`
	State           phase.State `json:"state"`
	Interface       Interface   `json:"interface"`
	CorrectAnswerID string      `json:"correct_answer_id"`

	// Raw is the undecoded model output, kept for corrective retries.
	Raw json.RawMessage `json:"-"`
}

// Question is the active multiple-choice question. It lives only from the
// ask turn that produced it to the evaluate turn that grades it.
type Question struct {
	ID              string
	Prompt          string
	Options         []Option
	CorrectOptionID string
}

// Option returns the option with the given id.
func (q *Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Request is everything the generator needs to write one turn.
type Request struct {
	SessionID string

	Phase     phase.Phase
	Directive phase.Directive
	State     phase.State
	Total     int
	Progress  int

	Topic    string
	Audience string

	// Question and Selected describe the answer being evaluated.
	Question      *Question
	Selected      *Option
	AnswerCorrect bool

	// CommandText is the learner's raw text when it was not a plain answer.
	CommandText string

	NeedsAttention bool

	// PriorQuestions lists prompts already asked in this lesson.
	PriorQuestions []string

	// Correction is set on the corrective retry: the reason the previous
	// output was rejected, and that output.
	Correction string
	Rejected   json.RawMessage
}
