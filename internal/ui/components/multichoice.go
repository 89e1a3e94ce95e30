package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorloop/internal/content"
	"github.com/abhisek/tutorloop/internal/ui/theme"
)

// MultiChoice lets the learner pick one of the options of an ask turn. It
// only knows option ids and labels; correctness is decided server side.
type MultiChoice struct {
	Options  []content.Option
	Selected int
}

// NewMultiChoice creates a selector for the given options.
func NewMultiChoice(options []content.Option) MultiChoice {
	return MultiChoice{Options: options}
}

// Update handles arrow navigation. It reports the chosen option when the
// learner presses Enter or the option's number.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, *content.Option) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Options) == 0 {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		opt := m.Options[m.Selected]
		return m, &opt
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			m.Selected = int(key[0] - '1')
			opt := m.Options[m.Selected]
			return m, &opt
		}
	}

	return m, nil
}

// View renders the options, highlighting the cursor.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		style := theme.Unselected
		if i == m.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d)  %s", prefix, i+1, opt.Label)))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\nSelect (1-%d) or use arrows + Enter", len(m.Options))))
	return b.String()
}
