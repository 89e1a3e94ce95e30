package lesson

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/phase"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed delivers the gateway results produced by cmd to the screen.
func feed(s *LessonScreen, cmd tea.Cmd) []tea.Msg {
	var rest []tea.Msg
	for _, msg := range collect(cmd) {
		if tm, ok := msg.(turnMsg); ok {
			s.Update(tm)
			continue
		}
		rest = append(rest, msg)
	}
	return rest
}

func press(s *LessonScreen, key tea.KeyPressMsg) []tea.Msg {
	_, cmd := s.Update(key)
	return feed(s, cmd)
}

func newGateway(t *testing.T, provider llm.Provider) *gateway.Gateway {
	t.Helper()
	g, err := gateway.New(
		gateway.Config{Lesson: phase.Config{TotalQuestions: 2}, Topic: "adding whole numbers"},
		content.NewGenerator(provider, content.DefaultConfig()),
		gateway.Options{},
	)
	require.NoError(t, err)
	return g
}

func demoScreen(t *testing.T) *LessonScreen {
	t.Helper()
	s := New(newGateway(t, llm.NewResponderProvider(content.DemoResponder)), 2)
	feed(s, s.Init())
	require.NotNil(t, s.result)
	return s
}

func TestLessonScreen_Loading(t *testing.T) {
	s := New(newGateway(t, llm.NewResponderProvider(content.DemoResponder)), 2)
	cmd := s.Init()
	require.True(t, s.loading)
	assert.NotEmpty(t, s.View(80, 24))
	assert.Equal(t, "Lesson", s.Title())
	assert.Empty(t, s.Status())

	_, keyCmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, keyCmd, "keys are ignored while a turn runs")

	feed(s, cmd)
	assert.False(t, s.loading)
	assert.Equal(t, phase.Intro, s.result.Phase)
}

func TestLessonScreen_Walkthrough(t *testing.T) {
	s := demoScreen(t)
	assert.Equal(t, "Score 0/2", s.Status())

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, phase.Teach, s.result.Phase)

	for q := range 2 {
		press(s, specialKey(tea.KeyEnter))
		require.Equal(t, phase.Ask, s.result.Phase, "q%d", q)
		require.Len(t, s.choice.Options, len(s.result.Interface.Options))

		press(s, keyPress('1'))
		require.Equal(t, phase.Evaluate, s.result.Phase)
		require.NotNil(t, s.result.AnswerCorrect)

		view := s.View(100, 40)
		if *s.result.AnswerCorrect {
			assert.Contains(t, view, "Correct!")
		} else {
			assert.Contains(t, view, "Not quite")
		}
	}

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, phase.Report, s.result.Phase)
	press(s, specialKey(tea.KeyEnter))
	require.Equal(t, phase.Completed, s.result.Phase)
	assert.Contains(t, s.View(100, 40), "Start again")

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, phase.Intro, s.result.Phase)
	assert.Equal(t, "Score 0/2", s.Status())
}

func TestLessonScreen_CommandMode(t *testing.T) {
	s := demoScreen(t)

	s.Update(keyPress('/'))
	require.True(t, s.commandMode)
	assert.Contains(t, s.View(100, 40), "> ")

	s.input.Model.SetValue("pause")
	press(s, specialKey(tea.KeyEnter))
	require.Equal(t, phase.Paused, s.result.Phase)
	assert.False(t, s.commandMode)
	assert.Contains(t, s.View(100, 40), "Resume")

	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, phase.Ask, s.result.Phase, "resume at the first question")
}

func TestLessonScreen_CommandCancel(t *testing.T) {
	s := demoScreen(t)

	s.Update(keyPress(':'))
	s.input.Model.SetValue("clarify")
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	assert.Nil(t, cmd)
	assert.False(t, s.commandMode)
	assert.Empty(t, s.input.Value())
	assert.Equal(t, phase.Intro, s.result.Phase)
}

func TestLessonScreen_ReportIssueBanner(t *testing.T) {
	s := demoScreen(t)

	s.Update(keyPress('/'))
	s.input.Model.SetValue("report issue")
	press(s, specialKey(tea.KeyEnter))
	require.Equal(t, phase.Paused, s.result.Phase)
	require.True(t, s.result.NeedsAttention)
	assert.Contains(t, s.View(100, 40), "Issue reported")
}

func TestLessonScreen_TryAgain(t *testing.T) {
	var calls atomic.Int32
	provider := llm.NewResponderProvider(func(req llm.Request) llm.MockResponse {
		if calls.Add(1) == 1 {
			return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}}
		}
		return content.DemoResponder(req)
	})
	s := New(newGateway(t, provider), 2)

	feed(s, s.Init())
	require.Nil(t, s.result)
	require.True(t, s.retryable)
	assert.Contains(t, s.View(100, 40), "try again")
	assert.NotContains(t, s.View(100, 40), "connection refused")
	assert.Equal(t, "R", s.KeyHints()[0].Key)

	press(s, keyPress('r'))
	require.NotNil(t, s.result)
	assert.Equal(t, phase.Intro, s.result.Phase)
	assert.Empty(t, s.errMsg)
}

func TestLessonScreen_FailedTurnKeepsLastScreen(t *testing.T) {
	var fail atomic.Bool
	provider := llm.NewResponderProvider(func(req llm.Request) llm.MockResponse {
		if fail.Load() {
			return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}
		}
		return content.DemoResponder(req)
	})
	s := New(newGateway(t, provider), 2)
	feed(s, s.Init())
	intro := s.result

	fail.Store(true)
	press(s, specialKey(tea.KeyEnter))
	assert.Same(t, intro, s.result)
	assert.True(t, s.retryable)
	view := s.View(100, 40)
	assert.Contains(t, view, intro.Interface.Title)
	assert.Contains(t, view, "Couldn't prepare")

	press(s, specialKey(tea.KeyEscape))
	assert.Empty(t, s.errMsg)

	fail.Store(false)
	press(s, specialKey(tea.KeyEnter))
	assert.Equal(t, phase.Teach, s.result.Phase)
}

func TestLessonScreen_QuitFromCompleted(t *testing.T) {
	s := demoScreen(t)
	press(s, keyPress('/'))
	s.input.Model.SetValue("exit")
	press(s, specialKey(tea.KeyEnter))
	require.Equal(t, phase.Completed, s.result.Phase)

	press(s, specialKey(tea.KeyDown))
	msgs := press(s, specialKey(tea.KeyEnter))
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
}

func TestLessonScreen_KeyHints(t *testing.T) {
	s := demoScreen(t)
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	assert.Contains(t, strings.Join(keys, " "), "Enter")
	assert.Equal(t, "Lesson · intro", s.Title())
}
