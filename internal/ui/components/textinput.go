package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// CommandInput wraps bubbles/textinput for free-text learner commands.
// Known commands are offered as tab completions.
type CommandInput struct {
	Model textinput.Model
}

// NewCommandInput creates a focused input that suggests the given commands.
func NewCommandInput(placeholder string, suggestions []string, charLimit int) CommandInput {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.ShowSuggestions = len(suggestions) > 0
	ti.SetSuggestions(suggestions)
	ti.Focus()
	return CommandInput{Model: ti}
}

// Init returns the initial command.
func (c CommandInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (c CommandInput) Update(msg tea.Msg) (CommandInput, tea.Cmd) {
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the input.
func (c CommandInput) View() string {
	return c.Model.View()
}

// Value returns the trimmed input.
func (c CommandInput) Value() string {
	return strings.TrimSpace(c.Model.Value())
}

// Reset clears the input.
func (c *CommandInput) Reset() {
	c.Model.Reset()
}
