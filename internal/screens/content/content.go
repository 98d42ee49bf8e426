// Package content shows topic notes and search answers.
package content

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/screen"
	"github.com/kenroads/ntsabuddy/internal/study"
	"github.com/kenroads/ntsabuddy/internal/ui/components"
	"github.com/kenroads/ntsabuddy/internal/ui/layout"
	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

// LoadingText is shown while notes or a search answer are generated.
const LoadingText = "Consulting the AI Instructor..."

// ContentScreen renders the notes or search answer held by the session.
type ContentScreen struct {
	ctrl   *controller.Controller
	offset int
	// lines is the body height from the last render, used to clamp scrolling.
	lines int
	rows  int
}

var _ screen.Screen = (*ContentScreen)(nil)

// New creates a ContentScreen.
func New(ctrl *controller.Controller) *ContentScreen {
	return &ContentScreen{ctrl: ctrl}
}

func (c *ContentScreen) Init() tea.Cmd {
	c.offset = 0
	return nil
}

func (c *ContentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	s := c.ctrl.Session()
	switch kmsg.String() {
	case "esc":
		return c, c.ctrl.GoHome()
	case "up", "k":
		c.scroll(-1)
	case "down", "j":
		c.scroll(1)
	case "pgup":
		c.scroll(-c.page())
	case "pgdown", "space":
		c.scroll(c.page())
	case "e", "h":
		topic := s.Topic()
		if topic == nil {
			return c, nil
		}
		d := quiz.Easy
		if kmsg.String() == "h" {
			d = quiz.Hard
		}
		return c, c.ctrl.StartQuiz(topic, d)
	}
	return c, nil
}

func (c *ContentScreen) page() int {
	if c.rows < 2 {
		return 1
	}
	return c.rows - 1
}

func (c *ContentScreen) scroll(delta int) {
	c.offset += delta
	if limit := c.lines - c.rows; c.offset > limit {
		c.offset = limit
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (c *ContentScreen) View(width, height int) string {
	s := c.ctrl.Session()
	cw := components.ContentWidth(width)

	heading := theme.Heading2.Render(c.Title())

	var body string
	if s.Loading() {
		body = theme.Hint.Render(LoadingText)
	} else {
		body = components.Markdown(s.Content(), cw)
	}

	// Card border and padding take 4 rows; heading and actions take 4 more.
	c.rows = height - 8
	if c.rows < 1 {
		c.rows = 1
	}
	lines := strings.Split(body, "\n")
	c.lines = len(lines)
	c.scroll(0)
	end := c.offset + c.rows
	if end > len(lines) {
		end = len(lines)
	}
	visible := strings.Join(lines[c.offset:end], "\n")

	sections := []string{
		lipgloss.PlaceHorizontal(width, lipgloss.Center, heading),
		components.Card(visible, width),
	}
	if s.Topic() != nil && !s.Loading() {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.NewButton("Test This Topic  [e] easy  [h] hard", true, nil).View()))
	}
	return strings.Join(sections, "\n")
}

// Title is the topic icon and name, or the search heading.
func (c *ContentScreen) Title() string {
	s := c.ctrl.Session()
	if s.View() == study.ViewSearch {
		return "🔍 Search Results"
	}
	if t := s.Topic(); t != nil {
		return t.Icon + " " + t.Title
	}
	return "Study Notes"
}

// KeyHints returns the footer hints.
func (c *ContentScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
	}
	if c.ctrl.Session().Topic() != nil {
		hints = append(hints,
			layout.KeyHint{Key: "e", Description: "Easy Quiz"},
			layout.KeyHint{Key: "h", Description: "Hard Quiz"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+T", Description: "Instructor"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
	)
}
