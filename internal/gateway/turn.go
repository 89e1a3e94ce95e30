package gateway

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/phase"
	"github.com/abhisek/tutorloop/internal/store"
)

// outcomeCommitted marks a turn whose state change was applied.
const outcomeCommitted = "committed"

// event is one learner action.
type event struct {
	name     string
	begin    bool
	restart  bool
	optionID string
	command  phase.Command
	text     string
}

// session is a copy of the committed data a turn starts from.
type session struct {
	started     bool
	phase       phase.Phase
	state       phase.State
	question    *content.Question
	selected    *content.Option
	lastCorrect bool
	asked       []string
}

// plan is a decided but uncommitted turn.
type plan struct {
	decision phase.Decision
	req      content.Request
	selected *content.Option
	correct  bool
}

func (g *Gateway) run(ctx context.Context, ev event) (*TurnResult, error) {
	cur, err := g.acquire()
	if err != nil {
		return nil, err
	}
	defer g.release()

	start := time.Now()
	p, err := g.plan(cur, ev)
	if err != nil {
		g.logger.Debug("event rejected",
			zap.String("event", ev.name),
			zap.String("phase", string(cur.phase)),
			zap.Error(err))
		return nil, err
	}

	payload, attempts, err := g.generate(ctx, p.req)
	if err == nil {
		// A turn abandoned while the reply was in flight commits nothing.
		err = ctx.Err()
	}
	if err != nil {
		gerr := &ContentGenerationError{Phase: p.decision.Next, Attempts: attempts, Err: err}
		g.finish(ctx, ev, cur, p, attempts, time.Since(start), gerr, nil)
		return nil, gerr
	}

	res := g.commit(cur, p, payload, attempts)
	g.finish(ctx, ev, cur, p, attempts, time.Since(start), nil, res)
	return res, nil
}

// acquire marks a turn as in flight and returns the committed session.
func (g *Gateway) acquire() (session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return session{}, ErrTurnInProgress
	}
	g.inFlight = true
	return session{
		started:     g.started,
		phase:       g.phase,
		state:       g.state,
		question:    g.question,
		selected:    g.selected,
		lastCorrect: g.lastCorrect,
		asked:       slices.Clone(g.asked),
	}, nil
}

func (g *Gateway) release() {
	g.mu.Lock()
	g.inFlight = false
	g.mu.Unlock()
}

// plan asks the controller for the next phase and state and builds the
// content request for it.
func (g *Gateway) plan(cur session, ev event) (plan, error) {
	var p plan
	total := g.cfg.Lesson.TotalQuestions

	switch {
	case ev.begin:
		if cur.started {
			return p, fmt.Errorf("%w: session already started", phase.ErrInvalidTransition)
		}
		p.decision = phase.Decision{Next: phase.Intro, Directive: phase.DirectiveNormal}

	case !cur.started:
		return p, ErrNotStarted

	case ev.restart && cur.phase != phase.Completed:
		return p, fmt.Errorf("%w: restart from %s", phase.ErrInvalidTransition, cur.phase)

	default:
		in := phase.Input{
			Command:       ev.command,
			Restart:       ev.restart,
			AnswerCorrect: cur.lastCorrect,
		}
		if ev.name == "select" {
			if cur.phase != phase.Ask || cur.question == nil {
				return p, fmt.Errorf("%w: no question to answer in %s", phase.ErrInvalidTransition, cur.phase)
			}
			opt, ok := cur.question.Option(ev.optionID)
			if !ok {
				return p, fmt.Errorf("%w: %q", ErrUnknownOption, ev.optionID)
			}
			in.AnswerSelection = opt.ID
			p.selected = &opt
			p.correct = opt.ID == cur.question.CorrectOptionID
		}

		d, err := phase.Advance(g.cfg.Lesson, cur.phase, cur.state, in)
		if err != nil {
			return p, err
		}
		p.decision = d
	}

	d := p.decision
	if err := d.State.Check(total); err != nil {
		return p, fmt.Errorf("%w: %v", phase.ErrInvalidTransition, err)
	}

	p.req = content.Request{
		SessionID:      g.id,
		Phase:          d.Next,
		Directive:      d.Directive,
		State:          d.State,
		Total:          total,
		Progress:       phase.Progress(d.Next, d.State.QuestionIndex, total),
		Topic:          g.cfg.Topic,
		Audience:       g.cfg.Audience,
		NeedsAttention: d.NeedsAttention,
	}
	if d.Directive == phase.DirectiveRedirect {
		p.req.CommandText = ev.text
	}

	switch d.Next {
	case phase.Evaluate:
		p.req.Question = cur.question
		p.req.Selected = cur.selected
		p.req.AnswerCorrect = cur.lastCorrect
		if p.selected != nil {
			p.req.Selected = p.selected
			p.req.AnswerCorrect = p.correct
		}
	case phase.Ask:
		p.req.PriorQuestions = cur.asked
	}

	return p, nil
}

// generate produces content for req, with one corrective retry when the
// reply is rejected.
func (g *Gateway) generate(ctx context.Context, req content.Request) (*content.Payload, int, error) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var (
			payload *content.Payload
			verr    *content.ValidationError
		)
		payload, err = g.gen.Generate(ctx, req)
		switch {
		case err == nil:
			if verr = content.Validate(payload, req, g.validators); verr == nil {
				return payload, attempt, nil
			}
			err = verr
			req.Rejected = payload.Raw
		case errors.As(err, &verr):
			req.Rejected = content.RejectedContent(err)
		default:
			return nil, attempt, err
		}

		g.logger.Info("generated turn rejected",
			zap.String("phase", string(req.Phase)),
			zap.Int("attempt", attempt),
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message))

		if !verr.Retryable || attempt == maxAttempts {
			return nil, attempt, err
		}
		req.Correction = verr.Message
	}
	return nil, maxAttempts, err
}

// commit applies a validated turn and builds the learner-facing result.
func (g *Gateway) commit(cur session, p plan, payload *content.Payload, attempts int) *TurnResult {
	d := p.decision

	g.mu.Lock()
	defer g.mu.Unlock()

	if d.Next == phase.Intro {
		g.question, g.selected, g.lastCorrect = nil, nil, false
		g.asked = nil
		g.needsAttention = false
	}

	switch {
	case d.Next == phase.Ask:
		g.question = &content.Question{
			ID:              uuid.NewString(),
			Prompt:          payload.Interface.Content,
			Options:         slices.Clone(payload.Interface.Options),
			CorrectOptionID: payload.CorrectAnswerID,
		}
		g.selected, g.lastCorrect = nil, false
		g.asked = append(g.asked, payload.Interface.Content)
	case d.Next == phase.Evaluate && cur.phase == phase.Ask:
		g.selected = p.selected
		g.lastCorrect = p.correct
	case d.Next != phase.Evaluate:
		g.question, g.selected, g.lastCorrect = nil, nil, false
	}

	g.started = true
	g.phase = d.Next
	g.state = d.State
	g.needsAttention = g.needsAttention || d.NeedsAttention

	ui := payload.Interface
	ui.Progress = p.req.Progress
	if d.Next == phase.Ask {
		ui.Options = slices.Clone(ui.Options)
	} else {
		ui.Options = nil
	}

	res := &TurnResult{
		Phase:          d.Next,
		State:          d.State,
		Interface:      ui,
		Directive:      d.Directive,
		NeedsAttention: g.needsAttention,
		ProjectedScore: d.State.Score,
		Attempts:       attempts,
	}
	if d.Next == phase.Evaluate {
		correct := p.req.AnswerCorrect
		res.AnswerCorrect = &correct
		if correct && res.ProjectedScore < g.cfg.Lesson.TotalQuestions {
			res.ProjectedScore++
		}
	}

	g.last = res
	out := *res
	return &out
}

// finish logs the turn, notifies the observer and writes the audit record.
func (g *Gateway) finish(ctx context.Context, ev event, cur session, p plan, attempts int, latency time.Duration, err error, res *TurnResult) {
	to, state := p.decision.Next, p.decision.State
	outcome := outcomeCommitted
	if err != nil {
		to, state = cur.phase, cur.state
		outcome = failureKind(err)
	}

	fields := []zap.Field{
		zap.String("event", ev.name),
		zap.String("from", string(cur.phase)),
		zap.String("to", string(to)),
		zap.String("directive", string(p.decision.Directive)),
		zap.Int("attempts", attempts),
		zap.Duration("latency", latency),
	}
	if err != nil {
		g.logger.Warn("turn failed", append(fields, zap.String("outcome", outcome), zap.Error(err))...)
	} else {
		g.logger.Info("turn committed", fields...)
	}

	if g.observer != nil {
		g.observer.ObserveTurn(TurnOutcome{
			Event:     ev.name,
			From:      cur.phase,
			To:        to,
			Directive: p.decision.Directive,
			Outcome:   outcome,
			Attempts:  attempts,
			Latency:   latency,
		})
	}

	if g.recorder == nil {
		return
	}
	data := store.TurnEventData{
		SessionID:      g.id,
		Topic:          g.cfg.Topic,
		Event:          ev.name,
		Command:        string(ev.command),
		PhaseFrom:      string(cur.phase),
		PhaseTo:        string(to),
		Directive:      string(p.decision.Directive),
		QuestionIndex:  state.QuestionIndex,
		Score:          state.Score,
		TotalQuestions: g.cfg.Lesson.TotalQuestions,
		Attempts:       attempts,
		Outcome:        outcome,
		LatencyMs:      latency.Milliseconds(),
	}
	if res != nil {
		data.NeedsAttention = res.NeedsAttention
		data.Title = res.Interface.Title
	} else {
		data.ErrorMessage = err.Error()
	}
	if recErr := g.recorder.AppendTurn(context.WithoutCancel(ctx), data); recErr != nil {
		g.logger.Warn("failed to record turn", zap.Error(recErr))
	}
}

// failureKind labels a failed turn for metrics and audit records.
func failureKind(err error) string {
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		return "invalid_content"
	}
	return llm.Kind(err)
}
