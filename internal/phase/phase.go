// Package phase implements the lesson phase controller: a pure transition
// function that decides the next phase and session state from the current
// phase, the learner's answer and an optional learner command.
//
// The controller plays every tutoring role (tutor, examiner, reviewer). Those
// roles only exist as names in the generated content; nothing here runs
// concurrently or holds state between calls.
package phase

import "fmt"

// Phase is one stage of the fixed lesson pipeline.
type Phase string

const (
	Intro     Phase = "intro"
	Teach     Phase = "teach"
	Ask       Phase = "ask"
	Evaluate  Phase = "evaluate"
	Report    Phase = "report"
	Completed Phase = "completed"
	Paused    Phase = "paused"
)

// All lists every phase in pipeline order, with Paused last.
var All = []Phase{Intro, Teach, Ask, Evaluate, Report, Completed, Paused}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case Intro, Teach, Ask, Evaluate, Report, Completed, Paused:
		return true
	}
	return false
}

func (p Phase) String() string { return string(p) }

// Parse converts a wire value into a Phase.
func Parse(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// Directive tells the gateway which kind of content to request for the
// resolved phase.
type Directive string

const (
	// DirectiveNormal requests regular content for the next phase.
	DirectiveNormal Directive = "normal"

	// DirectiveReview asks for a recap of the current material.
	DirectiveReview Directive = "review"

	// DirectiveClarify asks for a simpler re-explanation.
	DirectiveClarify Directive = "clarify"

	// DirectiveRedirect asks for a generic message steering the learner
	// back to the lesson. Used for unrecognized commands.
	DirectiveRedirect Directive = "redirect-neutral"

	// DirectivePaused asks for a short "lesson paused" message.
	DirectivePaused Directive = "paused"
)
