// Package chat is the instructor chat panel drawn over the current view.
package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	domain "github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/router"
	"github.com/kenroads/ntsabuddy/internal/screen"
	"github.com/kenroads/ntsabuddy/internal/ui/components"
	"github.com/kenroads/ntsabuddy/internal/ui/layout"
	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

const (
	Disclaimer  = "AI can make mistakes. Verify with NTSA handbook."
	PendingText = "Instructor is typing..."

	panelWidth = 56
)

// ChatScreen is an overlay holding the transcript and an input line.
type ChatScreen struct {
	ctrl  *controller.Controller
	input components.TextInput
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.Overlay = (*ChatScreen)(nil)

// New creates the chat overlay.
func New(ctrl *controller.Controller) *ChatScreen {
	return &ChatScreen{
		ctrl:  ctrl,
		input: components.NewTextInput("Ask about rules, signs, safety...", 500),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Focus()
}

func (c *ChatScreen) Title() string {
	return "Instructor"
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			cmd := c.ctrl.SendChat(c.input.Value())
			if cmd != nil {
				c.input.Reset()
			}
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// View renders the panel on its own.
func (c *ChatScreen) View(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Top, c.panel(width, height))
}

// Compose draws the panel over the right side of under.
func (c *ChatScreen) Compose(under string, width, height int) string {
	panel := c.panel(width, height)
	pw := lipgloss.Width(panel)
	left := lipgloss.NewStyle().
		Width(width - pw).
		MaxWidth(width - pw).
		Height(height).
		MaxHeight(height).
		Render(under)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, panel)
}

func (c *ChatScreen) panel(width, height int) string {
	pw := panelWidth
	if pw > width/2+8 {
		pw = width/2 + 8
	}
	inner := pw - 4
	c.input.SetWidth(inner - 4)

	header := theme.Heading2.Render("💬 NTSA Instructor")
	disclaimer := theme.Hint.Width(inner).Render(Disclaimer)
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(inner).
		Render(c.input.View())

	fixed := lipgloss.Height(header) + lipgloss.Height(disclaimer) + lipgloss.Height(input) + 4
	rows := height - fixed - 2
	if rows < 1 {
		rows = 1
	}
	transcript := c.transcript(inner, rows)

	body := strings.Join([]string{header, transcript, input, disclaimer}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Background(theme.BgCard).
		Padding(0, 1).
		Width(pw).
		Height(height - 2).
		Render(body)
}

// transcript renders the newest messages that fit in rows lines.
func (c *ChatScreen) transcript(width, rows int) string {
	session := c.ctrl.Session().Chat()
	var lines []string
	for _, m := range session.Messages() {
		lines = append(lines, strings.Split(renderMessage(m, width), "\n")...)
		lines = append(lines, "")
	}
	if session.Pending() {
		lines = append(lines, theme.Hint.Render(PendingText))
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	return lipgloss.NewStyle().Height(rows).Render(strings.Join(lines, "\n"))
}

func renderMessage(m domain.Message, width int) string {
	if m.Role == domain.RoleUser {
		text := theme.UserBubble.MaxWidth(width).Render(m.Text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, text)
	}
	return theme.ModelBubble.Render(components.Markdown(m.Text, width-4))
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+T", Description: "Close"},
		{Key: "Esc", Description: "Close"},
	}
}
