package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗ ██████╗ ███████╗    ██████╗     ██╗   ██╗
 ██╔════╝██╔═══██╗██╔══██╗██╔════╝    ╚════██╗    ╚██╗ ██╔╝
 ██║     ██║   ██║██║  ██║█████╗       █████╔╝     ╚████╔╝
 ██║     ██║   ██║██║  ██║██╔══╝      ██╔═══╝       ╚██╔╝
 ╚██████╗╚██████╔╝██████╔╝███████╗    ███████╗       ██║
  ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝    ╚══════╝       ╚═╝`

const bannerCompact = "C O D E  2  Y O U"

// RenderBanner returns the CODE 2 YOU banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 60 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 60 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
