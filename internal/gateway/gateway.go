// Package gateway runs a learner session one turn at a time. Each turn asks
// the phase controller where the lesson goes next, has the content
// generator write that screen, checks the result and only then commits the
// new phase and state.
package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/phase"
	"github.com/abhisek/tutorloop/internal/store"
)

// maxAttempts is the first generation plus one corrective retry.
const maxAttempts = 2

// Config describes the lesson a session runs.
type Config struct {
	Lesson   phase.Config
	Topic    string
	Audience string
}

// Validate checks the lesson parameters.
func (c Config) Validate() error {
	if err := c.Lesson.Validate(); err != nil {
		return err
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// TurnRecorder persists one audit record per turn. store.EventRepo
// satisfies it.
type TurnRecorder interface {
	AppendTurn(ctx context.Context, data store.TurnEventData) error
}

// TurnOutcome summarizes a finished turn for metrics.
type TurnOutcome struct {
	Event     string
	From      phase.Phase
	To        phase.Phase
	Directive phase.Directive
	Outcome   string
	Attempts  int
	Latency   time.Duration
}

// Observer is notified after every generated turn, committed or not.
type Observer interface {
	ObserveTurn(o TurnOutcome)
}

// Options carries optional collaborators.
type Options struct {
	// SessionID identifies the session in logs and records. A random id is
	// used when empty.
	SessionID string

	// Validators defaults to content.DefaultValidators.
	Validators []content.Validator

	Recorder TurnRecorder
	Observer Observer
	Logger   *zap.Logger
}

// Gateway owns the state of one learner session. Its methods are safe to
// call from multiple goroutines, but only one turn runs at a time.
type Gateway struct {
	cfg        Config
	gen        content.Generator
	validators []content.Validator
	recorder   TurnRecorder
	observer   Observer
	logger     *zap.Logger
	id         string

	mu       sync.Mutex
	inFlight bool

	// Committed session data. Written only when a turn commits.
	started        bool
	phase          phase.Phase
	state          phase.State
	needsAttention bool
	question       *content.Question // active question, ask and evaluate only
	selected       *content.Option   // answer being evaluated
	lastCorrect    bool
	asked          []string
	last           *TurnResult
}

// New creates a Gateway for one session. Call Begin to produce the first
// screen.
func New(cfg Config, gen content.Generator, opts Options) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lesson config: %w", err)
	}
	if gen == nil {
		return nil, fmt.Errorf("content generator is required")
	}

	g := &Gateway{
		cfg:        cfg,
		gen:        gen,
		validators: opts.Validators,
		recorder:   opts.Recorder,
		observer:   opts.Observer,
		logger:     opts.Logger,
		id:         opts.SessionID,
		phase:      phase.Intro,
	}
	if g.validators == nil {
		g.validators = content.DefaultValidators()
	}
	if g.id == "" {
		g.id = uuid.NewString()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	g.logger = g.logger.With(zap.String("session_id", g.id))
	return g, nil
}

// ID returns the session id.
func (g *Gateway) ID() string { return g.id }

// Begin starts the lesson and returns the intro screen.
func (g *Gateway) Begin(ctx context.Context) (*TurnResult, error) {
	return g.run(ctx, event{name: "begin", begin: true})
}

// Continue moves past a screen that needs no answer.
func (g *Gateway) Continue(ctx context.Context) (*TurnResult, error) {
	return g.run(ctx, event{name: "continue"})
}

// SelectOption answers the active question.
func (g *Gateway) SelectOption(ctx context.Context, optionID string) (*TurnResult, error) {
	return g.run(ctx, event{name: "select", optionID: optionID})
}

// SubmitCommand handles free text typed by the learner. Empty text acts as
// Continue; text outside the command vocabulary gets a neutral redirect.
func (g *Gateway) SubmitCommand(ctx context.Context, text string) (*TurnResult, error) {
	cmd := phase.ClassifyCommand(text)
	if cmd == phase.CommandNone {
		return g.Continue(ctx)
	}
	return g.run(ctx, event{name: "command", command: cmd, text: text})
}

// Exit ends the lesson early.
func (g *Gateway) Exit(ctx context.Context) (*TurnResult, error) {
	return g.run(ctx, event{name: "exit", command: phase.CommandExit})
}

// Restart starts a new lesson after the current one completed.
func (g *Gateway) Restart(ctx context.Context) (*TurnResult, error) {
	return g.run(ctx, event{name: "restart", restart: true})
}

// Snapshot returns the committed session data.
func (g *Gateway) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		SessionID:      g.id,
		Topic:          g.cfg.Topic,
		Started:        g.started,
		Phase:          g.phase,
		State:          g.state,
		TotalQuestions: g.cfg.Lesson.TotalQuestions,
		NeedsAttention: g.needsAttention,
		InFlight:       g.inFlight,
	}
	if g.last != nil {
		last := *g.last
		s.Last = &last
	}
	return s
}
