package components

import (
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

// maxCardWidth keeps long notes readable on wide terminals.
const maxCardWidth = 96

// ContentWidth returns the usable text width inside a card drawn in a
// terminal of the given width.
func ContentWidth(width int) int {
	w := width - 8
	if w > maxCardWidth {
		w = maxCardWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card frames body in the standard rounded card, centered horizontally.
func Card(body string, width int) string {
	card := theme.Card.Width(ContentWidth(width) + 4).Render(body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
