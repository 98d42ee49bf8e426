package home

import (
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

const titleFull = `█▄ █ ▀█▀ ▄▀▀ ▄▀▄   ██▄ █ █ █▀▄ █▀▄ ▀▄▀
█ ▀█  █  ▄██ █▀█   █▄█ ▀▄█ █▄▀ █▄▀  █ `

const titleCompact = "N · T · S · A   B · U · D · D · Y"

const mascotArt = `    ______
 __/__|__\___
|  _     _   |
'-(_)---(_)--'`

// renderTitle returns the block title or the compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	title := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
	tagline := lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your NTSA driving test study buddy")
	return title + "\n" + tagline
}

// renderMascot draws the car centered in cw.
func renderMascot(cw int) string {
	car := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(mascotArt)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, car)
}
