package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorloop/internal/ui/theme"
)

const bannerArt = `
 ╔╦╗╦ ╦╔╦╗╔═╗╦═╗╦  ╔═╗╔═╗╔═╗
  ║ ║ ║ ║ ║ ║╠╦╝║  ║ ║║ ║╠═╝
  ╩ ╚═╝ ╩ ╚═╝╩╚═╩═╝╚═╝╚═╝╩  `

const bannerCompact = "T U T O R L O O P"

// RenderBanner returns the banner in the primary color, with a compact
// fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
