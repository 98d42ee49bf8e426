package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/screen"
	"github.com/kenroads/ntsabuddy/internal/ui/components"
	"github.com/kenroads/ntsabuddy/internal/ui/layout"
	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

// MockExamLabel is the last menu entry.
const MockExamLabel = "📝 Take Full Mock Exam"

// HomeScreen lists the curriculum topics and hosts the search box.
type HomeScreen struct {
	ctrl   *controller.Controller
	menu   components.Menu
	search components.TextInput
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctrl *controller.Controller) *HomeScreen {
	var items []components.MenuItem
	for _, t := range curriculum.All() {
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%s  %s", t.Icon, t.Title),
			Action: func() tea.Cmd { return ctrl.SelectTopic(t) },
		})
	}
	items = append(items, components.MenuItem{
		Label:  MockExamLabel,
		Action: func() tea.Cmd { return ctrl.StartQuiz(nil, quiz.Easy) },
	})

	search := components.NewTextInput("Search traffic rules, signs, penalties...", 200)
	search.Blur()

	return &HomeScreen{
		ctrl:   ctrl,
		menu:   components.NewMenu(items),
		search: search,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	h.search.Blur()
	h.search.Reset()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, isKey := msg.(tea.KeyMsg)

	if h.search.Focused() {
		if isKey {
			switch kmsg.String() {
			case "esc":
				h.search.Blur()
				return h, nil
			case "enter":
				query := h.search.Value()
				h.search.Reset()
				h.search.Blur()
				return h, h.ctrl.Search(query)
			}
		}
		var cmd tea.Cmd
		h.search, cmd = h.search.Update(msg)
		return h, cmd
	}

	if isKey {
		switch kmsg.String() {
		case "/":
			return h, h.search.Focus()
		case "m":
			return h, h.ctrl.StartQuiz(nil, quiz.Easy)
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactWidth(width) || height < 28

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascot(cw))
	}
	sections = append(sections, renderSearchBox(h.search, cw))

	used := lipgloss.Height(strings.Join(sections, "\n\n")) + 4
	rows := height - used - 2
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Render(h.menu.ViewWindow(rows)))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (h *HomeScreen) Title() string {
	return "Topics"
}

// Capturing reports whether the search box has focus.
func (h *HomeScreen) Capturing() bool {
	return h.search.Focused()
}

// KeyHints returns the footer hints for the current mode.
func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.Capturing() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Search"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Study"},
		{Key: "/", Description: "Search"},
		{Key: "m", Description: "Mock Exam"},
		{Key: "Ctrl+T", Description: "Instructor"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func renderSearchBox(in components.TextInput, cw int) string {
	border := theme.Border
	if in.Focused() {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw).
		Padding(0, 1).
		Render("🔍 " + in.View())
}
