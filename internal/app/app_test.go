package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/phase"
	"github.com/abhisek/tutorloop/internal/router"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	g, err := gateway.New(
		gateway.Config{Lesson: phase.Config{TotalQuestions: 3}, Topic: "adding whole numbers"},
		content.NewGenerator(llm.NewResponderProvider(content.DemoResponder), content.DefaultConfig()),
		gateway.Options{},
	)
	require.NoError(t, err)
	return newAppModel(Options{Session: g, Topic: "adding whole numbers", TotalQuestions: 3})
}

func TestView_TooSmall(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small")
}

func TestView_Frame(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	am := updated.(AppModel)
	assert.True(t, am.View().AltScreen)
	frame := am.render()
	assert.Contains(t, frame, "Tutorloop")
	assert.Contains(t, frame, "Ctrl+C")
}

func TestWelcomeHandsOverToLesson(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: ' '})
	require.NotNil(t, cmd)

	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg, got %T", msg)

	m.Update(replace)
	assert.Equal(t, 1, m.router.Depth())
	assert.True(t, strings.HasPrefix(m.router.Active().Title(), "Lesson"))
}

func TestCtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
