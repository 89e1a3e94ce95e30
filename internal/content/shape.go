package content

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutorloop/internal/phase"
)

const (
	minOptions = 3
	maxOptions = 4
)

// PhaseShapeValidator checks that a turn has the shape its resolved phase
// requires: a multiple-choice question with an answer key in the ask phase,
// and no question anywhere else. The phase checked is the one the
// controller resolved, not the one the model echoed back.
type PhaseShapeValidator struct{}

func (v *PhaseShapeValidator) Name() string { return "phase-shape" }

func (v *PhaseShapeValidator) Validate(p *Payload, req Request) *ValidationError {
	ui := p.Interface

	if req.Phase == phase.Ask {
		if ui.InputType != InputMultipleChoice {
			return v.fail(fmt.Sprintf("ask turns need input_type \"multiple_choice\", got %q", ui.InputType))
		}
		if n := len(ui.Options); n < minOptions || n > maxOptions {
			return v.fail(fmt.Sprintf("ask turns need 3 or 4 options, got %d", n))
		}
		if strings.TrimSpace(p.CorrectAnswerID) == "" {
			return v.fail("ask turns need correct_answer_id")
		}
		return nil
	}

	if ui.InputType == InputMultipleChoice {
		return v.fail(fmt.Sprintf("%s turns cannot be multiple_choice", req.Phase))
	}
	if len(ui.Options) > 0 {
		return v.fail(fmt.Sprintf("%s turns cannot have options", req.Phase))
	}
	if p.CorrectAnswerID != "" {
		return v.fail(fmt.Sprintf("%s turns cannot have correct_answer_id", req.Phase))
	}
	return nil
}

func (v *PhaseShapeValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}

// OptionsValidator checks the options of a question: ids are present and
// unique, labels are present and distinct, and the answer key names one of
// them. Turns without options pass.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(p *Payload, _ Request) *ValidationError {
	if len(p.Interface.Options) == 0 {
		return nil
	}

	ids := make(map[string]bool, len(p.Interface.Options))
	labels := make(map[string]bool, len(p.Interface.Options))
	for i, o := range p.Interface.Options {
		id := strings.TrimSpace(o.ID)
		if id == "" {
			return v.fail(fmt.Sprintf("option %d has an empty id", i+1))
		}
		if ids[id] {
			return v.fail(fmt.Sprintf("duplicate option id %q", id))
		}
		ids[id] = true

		label := strings.ToLower(strings.TrimSpace(o.Label))
		if label == "" {
			return v.fail(fmt.Sprintf("option %q has an empty label", id))
		}
		if labels[label] {
			return v.fail(fmt.Sprintf("duplicate option label %q", o.Label))
		}
		labels[label] = true
	}

	if !ids[strings.TrimSpace(p.CorrectAnswerID)] {
		return v.fail(fmt.Sprintf("correct_answer_id %q is not one of the options", p.CorrectAnswerID))
	}
	return nil
}

func (v *OptionsValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}
