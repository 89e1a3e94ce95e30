package lesson

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorloop/internal/phase"
	"github.com/abhisek/tutorloop/internal/ui/components"
	"github.com/abhisek/tutorloop/internal/ui/layout"
	"github.com/abhisek/tutorloop/internal/ui/theme"
)

// renderTurn renders the current turn as a card with banners above and the
// progress bar below.
func (s *LessonScreen) renderTurn(width, height int) string {
	res := s.result
	cw := layout.CardWidth(width)
	inner := cw - 6 // border + padding

	var sections []string

	if res.NeedsAttention {
		sections = append(sections, theme.Warning.Width(cw).Render("Issue reported. Someone will take a look at this lesson."))
	}
	if s.errMsg != "" {
		sections = append(sections, s.renderError(cw))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(res.Interface.Title))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(inner).Render(res.Interface.Content))
	b.WriteString("\n")

	if res.Phase == phase.Evaluate && res.AnswerCorrect != nil {
		b.WriteString("\n")
		if *res.AnswerCorrect {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite"))
		}
		b.WriteString("\n")
	}

	if res.Interface.Instructions != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(inner).Render(res.Interface.Instructions))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch res.Phase {
	case phase.Ask:
		b.WriteString(s.choice.View())
	case phase.Paused, phase.Completed:
		b.WriteString(s.menu.View())
	default:
		b.WriteString(theme.Hint.Render("Press Enter to continue"))
	}

	sections = append(sections, theme.Card.Width(cw).Render(b.String()))

	switch {
	case s.loading:
		sections = append(sections, s.spinner.View()+" "+theme.Hint.Render("Thinking..."))
	case s.commandMode:
		sections = append(sections, s.input.View())
	}

	sections = append(sections, "", components.NewProgressBar("Progress", res.Interface.Progress, cw).View())

	body := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// renderError renders the error strip.
func (s *LessonScreen) renderError(width int) string {
	msg := s.errMsg
	if s.retryable {
		msg += " Press R to try again."
	} else {
		msg += " Press any key."
	}
	return theme.Failure.Width(width).Render(msg)
}

// renderLoading renders the loading state before the first turn.
func renderLoading(width, height int, spin, label string) string {
	line := spin + " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(label+"...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, line)
}
