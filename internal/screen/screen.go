// Package screen defines the contract between the router and the screens
// of the terminal client.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tutorloop/internal/ui/layout"
)

// Screen is one page of the terminal client.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens that supply their own footer
// key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status line on the
// right side of the header, such as the lesson score.
type StatusProvider interface {
	Status() string
}
