// Package welcome shows the splash screen before a lesson starts.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorloop/internal/router"
	"github.com/abhisek/tutorloop/internal/screen"
	"github.com/abhisek/tutorloop/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bookEnd      = 500 * time.Millisecond
	bannerEnd    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const bookArt = `   ______ ______
 _/      Y      \_
// ~~ ~~ | ~~ ~  \\
// ~ ~ ~~| ~~~ ~~ \\
//________.|.________\\
'----------'-'----------'`

// page frames turn next to the book once it has appeared.
var pageFrames = []string{"·", "•"}

type tickMsg time.Time

// WelcomeScreen shows a short splash and hands over to the lesson on the
// first key press.
type WelcomeScreen struct {
	topic        string
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen for a lesson on topic. next builds the screen
// shown after the splash.
func New(topic string, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{topic: topic, next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

// transition replaces the splash with the next screen. It runs once.
func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(bookArt)

	if w.elapsed >= bookEnd {
		dot := pageFrames[w.tickCount%len(pageFrames)]
		accent := lipgloss.NewStyle().Foreground(theme.Accent).Render(dot)
		lines := strings.Split(rendered, "\n")
		if len(lines) > 2 {
			lines[2] = accent + "  " + lines[2] + "  " + accent
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= bannerEnd {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Today: "+w.topic))
		sections = append(sections, "", theme.Hint.Render("press any key to start"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
