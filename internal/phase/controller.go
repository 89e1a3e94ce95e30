package phase

import "fmt"

// Input is the learner input for one turn.
type Input struct {
	// AnswerSelection is the option id picked in the ask phase. Empty when
	// the learner did not answer.
	AnswerSelection string

	// AnswerCorrect reports whether the answer being evaluated was correct.
	// It is read when leaving the evaluate phase, where it refers to the
	// answer given in the preceding ask phase.
	AnswerCorrect bool

	// Command is the classified learner command, CommandNone if absent.
	Command Command

	// Restart requests a new lesson from the completed phase.
	Restart bool
}

// Decision is the controller's authoritative result for one turn.
type Decision struct {
	Next      Phase
	State     State
	Directive Directive

	// NeedsAttention is set when the learner reported an issue that a human
	// should look at.
	NeedsAttention bool
}

// Advance computes the next phase and state. It never mutates its arguments.
//
// A non-empty command is evaluated before the normal transition table and can
// replace its result entirely. The completed phase only accepts a restart.
func Advance(cfg Config, current Phase, state State, in Input) (Decision, error) {
	if err := cfg.Validate(); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if !current.Valid() {
		return Decision{}, fmt.Errorf("%w: unknown phase %q", ErrInvalidTransition, current)
	}

	if current == Completed {
		if !in.Restart {
			return Decision{}, fmt.Errorf("%w: lesson already completed", ErrInvalidTransition)
		}
		return Decision{Next: Intro, State: State{}, Directive: DirectiveNormal}, nil
	}

	if in.Command != CommandNone {
		return override(cfg, current, state, in)
	}
	return progress(cfg, current, state, in)
}

// override applies a learner command.
func override(cfg Config, current Phase, state State, in Input) (Decision, error) {
	hold := Decision{Next: current, State: state}

	switch in.Command {
	case CommandReview, CommandClarify:
		directive := DirectiveReview
		if in.Command == CommandClarify {
			directive = DirectiveClarify
		}
		// Land where normal progression would, but keep the numbers as they
		// are. Ask without an answer has nowhere to go yet, so it stays.
		normal, err := progress(cfg, current, state, Input{AnswerSelection: in.AnswerSelection})
		if err != nil {
			hold.Directive = directive
			return hold, nil
		}
		return Decision{Next: normal.Next, State: state, Directive: directive}, nil

	case CommandReportIssue:
		return Decision{Next: Paused, State: state, Directive: DirectivePaused, NeedsAttention: true}, nil

	case CommandPause:
		return Decision{Next: Paused, State: state, Directive: DirectivePaused}, nil

	case CommandResume:
		if current != Paused {
			return Decision{}, fmt.Errorf("%w: resume from %s", ErrInvalidTransition, current)
		}
		return Decision{Next: resumeTarget(cfg, state), State: state, Directive: DirectiveNormal}, nil

	case CommandExit:
		return Decision{Next: Completed, State: state, Directive: DirectiveNormal}, nil

	case CommandUnrecognized:
		hold.Directive = DirectiveRedirect
		return hold, nil
	}

	return Decision{}, fmt.Errorf("%w: unknown command %q", ErrInvalidTransition, in.Command)
}

// resumeTarget picks the phase a paused lesson returns to.
func resumeTarget(cfg Config, state State) Phase {
	switch {
	case state.QuestionIndex < cfg.TotalQuestions:
		return Ask
	case state.QuestionIndex == cfg.TotalQuestions:
		return Report
	default:
		// Unreachable while State.Check holds. Kept so that a corrupted
		// counter restarts the material instead of failing the session.
		return Teach
	}
}

// progress applies the normal transition table.
func progress(cfg Config, current Phase, state State, in Input) (Decision, error) {
	next := Decision{State: state, Directive: DirectiveNormal}

	switch current {
	case Intro:
		next.Next = Teach

	case Teach:
		next.Next = Ask
		next.State.QuestionIndex = 0

	case Ask:
		if in.AnswerSelection == "" {
			return Decision{}, ErrMissingInput
		}
		next.Next = Evaluate

	case Evaluate:
		if in.AnswerCorrect && next.State.Score < cfg.TotalQuestions {
			next.State.Score++
		}
		if state.QuestionIndex < cfg.TotalQuestions-1 {
			next.Next = Ask
			next.State.QuestionIndex++
		} else {
			next.Next = Report
		}

	case Report:
		next.Next = Completed

	case Paused:
		next.Next = Paused
		next.Directive = DirectivePaused

	default:
		return Decision{}, fmt.Errorf("%w: no transition from %s", ErrInvalidTransition, current)
	}

	return next, nil
}
