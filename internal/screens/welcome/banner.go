package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

const bannerArt = `
 ███╗   ██╗████████╗███████╗ █████╗     ██████╗ ██╗   ██╗██████╗ ██████╗ ██╗   ██╗
 ████╗  ██║╚══██╔══╝██╔════╝██╔══██╗    ██╔══██╗██║   ██║██╔══██╗██╔══██╗╚██╗ ██╔╝
 ██╔██╗ ██║   ██║   ███████╗███████║    ██████╔╝██║   ██║██║  ██║██║  ██║ ╚████╔╝
 ██║╚██╗██║   ██║   ╚════██║██╔══██║    ██╔══██╗██║   ██║██║  ██║██║  ██║  ╚██╔╝
 ██║ ╚████║   ██║   ███████║██║  ██║    ██████╔╝╚██████╔╝██████╔╝██████╔╝   ██║
 ╚═╝  ╚═══╝   ╚═╝   ╚══════╝╚═╝  ╚═╝    ╚═════╝  ╚═════╝ ╚═════╝ ╚═════╝    ╚═╝`

const bannerCompact = "N T S A   B U D D Y"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 84

// RenderBanner returns the NTSA BUDDY banner styled in the primary color.
// Uses a compact fallback for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
