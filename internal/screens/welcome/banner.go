package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███╗   ███╗██████╗ ██████╗ ██╗██╗     ██╗
 ██╔══██╗████╗ ████║██╔══██╗██╔══██╗██║██║     ██║
 ██████╔╝██╔████╔██║██║  ██║██████╔╝██║██║     ██║
 ██╔═══╝ ██║╚██╔╝██║██║  ██║██╔══██╗██║██║     ██║
 ██║     ██║ ╚═╝ ██║██████╔╝██║  ██║██║███████╗███████╗
 ╚═╝     ╚═╝     ╚═╝╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚══════╝`

const bannerCompact = "P M D R I L L"

// RenderBanner returns the PMDRILL banner in the primary color, or a
// compact one for terminals narrower than 58 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 58 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
