package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorloop/internal/content"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var options = []content.Option{
	{ID: "a", Label: "6"},
	{ID: "b", Label: "7"},
	{ID: "c", Label: "8"},
}

func TestMultiChoice_Arrows(t *testing.T) {
	m := NewMultiChoice(options)

	m, chosen := m.Update(specialKey(tea.KeyDown))
	assert.Nil(t, chosen)
	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 2, m.Selected, "cursor stops at the last option")

	m, _ = m.Update(specialKey(tea.KeyUp))
	_, chosen = m.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, chosen)
	assert.Equal(t, "b", chosen.ID)
}

func TestMultiChoice_NumberKeys(t *testing.T) {
	m := NewMultiChoice(options)

	_, chosen := m.Update(keyPress('4'))
	assert.Nil(t, chosen, "out of range number is ignored")

	m, chosen = m.Update(keyPress('3'))
	require.NotNil(t, chosen)
	assert.Equal(t, "c", chosen.ID)
	assert.Equal(t, 2, m.Selected)
}

func TestMultiChoice_View(t *testing.T) {
	view := NewMultiChoice(options).View()
	for _, o := range options {
		assert.Contains(t, view, o.Label)
	}
	assert.Contains(t, view, "1-3")
	assert.NotContains(t, view, `"a"`)
}

func TestProgressBar_Clamps(t *testing.T) {
	for _, p := range []int{-10, 0, 50, 100, 150} {
		view := NewProgressBar("Progress", p, 40).View()
		assert.NotEmpty(t, view)
	}
	assert.Contains(t, NewProgressBar("", 150, 40).View(), "100%")
	assert.Contains(t, NewProgressBar("", -3, 40).View(), "0%")
}

func TestMenu(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "Resume", Disabled: true},
		{Label: "Exit", Action: func() tea.Cmd { picked = "exit"; return nil }},
		{Label: "Quit", Action: func() tea.Cmd { picked = "quit"; return nil }},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(specialKey(tea.KeyUp))
	assert.Equal(t, 1, m.Selected, "disabled items are skipped")

	m, _ = m.Update(specialKey(tea.KeyDown))
	m.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "quit", picked)
	assert.True(t, strings.Contains(m.View(), "Resume"))
}

func TestCommandInput(t *testing.T) {
	c := NewCommandInput("Type a command", []string{"pause", "resume"}, 80)
	c.Model.SetValue("  pause  ")
	assert.Equal(t, "pause", c.Value())
	c.Reset()
	assert.Empty(t, c.Value())
}
