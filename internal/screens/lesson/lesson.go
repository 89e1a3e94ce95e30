// Package lesson is the terminal screen that runs one lesson against a
// session gateway.
package lesson

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/phase"
	"github.com/abhisek/tutorloop/internal/screen"
	"github.com/abhisek/tutorloop/internal/ui/components"
	"github.com/abhisek/tutorloop/internal/ui/layout"
	"github.com/abhisek/tutorloop/internal/ui/theme"
)

// Session is the part of gateway.Gateway the screen drives.
type Session interface {
	Begin(ctx context.Context) (*gateway.TurnResult, error)
	Continue(ctx context.Context) (*gateway.TurnResult, error)
	SelectOption(ctx context.Context, optionID string) (*gateway.TurnResult, error)
	SubmitCommand(ctx context.Context, text string) (*gateway.TurnResult, error)
	Exit(ctx context.Context) (*gateway.TurnResult, error)
	Restart(ctx context.Context) (*gateway.TurnResult, error)
}

var _ Session = (*gateway.Gateway)(nil)

type turnFunc func(ctx context.Context) (*gateway.TurnResult, error)

// LessonScreen implements screen.Screen for a running lesson.
type LessonScreen struct {
	sess  Session
	total int

	spinner spinner.Model
	loading bool
	pending turnFunc // last request, repeated by "try again"

	result      *gateway.TurnResult
	choice      components.MultiChoice
	menu        components.Menu
	input       components.CommandInput
	commandMode bool

	errMsg    string
	retryable bool
}

var (
	_ screen.Screen          = (*LessonScreen)(nil)
	_ screen.KeyHintProvider = (*LessonScreen)(nil)
	_ screen.StatusProvider  = (*LessonScreen)(nil)
)

// New creates a LessonScreen for a lesson of total questions.
func New(sess Session, total int) *LessonScreen {
	return &LessonScreen{
		sess:    sess,
		total:   total,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))),
		input:   components.NewCommandInput("review, clarify, pause, report issue ...", phase.Vocabulary(), 200),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.run(s.sess.Begin)
}

func (s *LessonScreen) Title() string {
	if s.result == nil {
		return "Lesson"
	}
	return "Lesson · " + string(s.result.Phase)
}

// Status shows the running score in the header.
func (s *LessonScreen) Status() string {
	if s.result == nil {
		return ""
	}
	return fmt.Sprintf("Score %d/%d", s.result.ProjectedScore, s.total)
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case s.errMsg != "" && s.retryable:
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Dismiss"},
		}
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	case s.commandMode:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Tab", Description: "Complete"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.result == nil:
		return nil
	}

	switch s.result.Phase {
	case phase.Ask:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "/", Description: "Command"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case phase.Paused, phase.Completed:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "/", Description: "Command"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "/", Description: "Command"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnMsg:
		return s.handleTurn(msg)

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.commandMode {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// run starts a gateway call in the background.
func (s *LessonScreen) run(fn turnFunc) tea.Cmd {
	s.loading = true
	s.errMsg = ""
	s.retryable = false
	s.pending = fn
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := fn(context.Background())
		return turnMsg{Result: res, Err: err}
	})
}

func (s *LessonScreen) handleTurn(msg turnMsg) (screen.Screen, tea.Cmd) {
	s.loading = false

	if msg.Err != nil {
		var gerr *gateway.ContentGenerationError
		switch {
		case errors.As(msg.Err, &gerr):
			s.errMsg = "Couldn't prepare the next step."
			s.retryable = true
		case errors.Is(msg.Err, gateway.ErrTurnInProgress):
			return s, nil
		default:
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}

	s.pending = nil
	s.result = msg.Result
	s.commandMode = false
	s.input.Reset()

	switch s.result.Phase {
	case phase.Ask:
		s.choice = components.NewMultiChoice(s.result.Interface.Options)
	case phase.Paused:
		s.menu = components.NewMenu([]components.MenuItem{
			{Label: "Resume", Action: func() tea.Cmd { return s.command("resume") }},
			{Label: "End lesson", Action: func() tea.Cmd { return s.run(s.sess.Exit) }},
		})
	case phase.Completed:
		s.menu = components.NewMenu([]components.MenuItem{
			{Label: "Start again", Action: func() tea.Cmd { return s.run(s.sess.Restart) }},
			{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
		})
	}
	return s, nil
}

func (s *LessonScreen) command(text string) tea.Cmd {
	return s.run(func(ctx context.Context) (*gateway.TurnResult, error) {
		return s.sess.SubmitCommand(ctx, text)
	})
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.loading {
		return s, nil
	}

	if s.errMsg != "" {
		if s.retryable && (key == "r" || key == "R") && s.pending != nil {
			return s, s.run(s.pending)
		}
		s.errMsg = ""
		s.retryable = false
		s.pending = nil
		if s.result == nil {
			// Nothing to fall back to; the first screen must be retried.
			return s, s.run(s.sess.Begin)
		}
		return s, nil
	}

	if s.commandMode {
		switch key {
		case "esc":
			s.commandMode = false
			s.input.Reset()
			return s, nil
		case "enter":
			text := s.input.Value()
			s.commandMode = false
			return s, s.command(text)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if s.result == nil {
		return s, nil
	}

	if key == "/" || key == ":" {
		s.commandMode = true
		return s, s.input.Init()
	}

	switch s.result.Phase {
	case phase.Ask:
		var chosen *content.Option
		s.choice, chosen = s.choice.Update(msg)
		if chosen != nil {
			id := chosen.ID
			return s, s.run(func(ctx context.Context) (*gateway.TurnResult, error) {
				return s.sess.SelectOption(ctx, id)
			})
		}
		return s, nil

	case phase.Paused, phase.Completed:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}

	switch key {
	case "enter", "space", " ":
		return s, s.run(s.sess.Continue)
	}
	return s, nil
}

func (s *LessonScreen) View(width, height int) string {
	if s.result == nil {
		if s.errMsg != "" {
			return s.renderError(width)
		}
		return renderLoading(width, height, s.spinner.View(), "Preparing your lesson")
	}
	return s.renderTurn(width, height)
}
