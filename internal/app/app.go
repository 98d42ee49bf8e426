// Package app is the root Bubble Tea model. It keeps the router's base
// screen in step with the study session's view and toggles the chat overlay.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/router"
	"github.com/kenroads/ntsabuddy/internal/screen"
	chatscreen "github.com/kenroads/ntsabuddy/internal/screens/chat"
	"github.com/kenroads/ntsabuddy/internal/screens/content"
	"github.com/kenroads/ntsabuddy/internal/screens/home"
	quizscreen "github.com/kenroads/ntsabuddy/internal/screens/quiz"
	"github.com/kenroads/ntsabuddy/internal/screens/welcome"
	"github.com/kenroads/ntsabuddy/internal/study"
	"github.com/kenroads/ntsabuddy/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Controller *controller.Controller
	// Status is shown on the right of the header, e.g. the active model.
	Status string
	// SkipWelcome starts directly on the topic list.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctrl    *controller.Controller
	router  *router.Router
	screens map[study.View]screen.Screen
	chat    *chatscreen.ChatScreen
	view    study.View
	status  string
	width   int
	height  int
}

// newAppModel builds the screens and starts on the splash.
func newAppModel(opts Options) AppModel {
	ctrl := opts.Controller
	homeScreen := home.New(ctrl)
	contentScreen := content.New(ctrl)

	screens := map[study.View]screen.Screen{
		study.ViewHome:    homeScreen,
		study.ViewContent: contentScreen,
		study.ViewSearch:  contentScreen,
		study.ViewQuiz:    quizscreen.New(ctrl),
	}

	var initial screen.Screen = homeScreen
	if !opts.SkipWelcome {
		initial = welcome.New(func() screen.Screen { return homeScreen })
	}

	return AppModel{
		ctrl:    ctrl,
		router:  router.New(initial),
		screens: screens,
		chat:    chatscreen.New(ctrl),
		view:    ctrl.Session().View(),
		status:  opts.Status,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			return m, m.toggleChat()
		}
	}

	if m.ctrl.Handle(msg) {
		return m, m.sync()
	}

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, m.sync())
}

// toggleChat opens or closes the instructor overlay. The splash cannot be
// covered.
func (m *AppModel) toggleChat() tea.Cmd {
	if m.router.Active() == screen.Screen(m.chat) {
		return m.router.Pop()
	}
	if _, splash := m.router.Base().(*welcome.WelcomeScreen); splash {
		return nil
	}
	return m.router.Push(m.chat)
}

// sync swaps the base screen when the session changed view.
func (m *AppModel) sync() tea.Cmd {
	v := m.ctrl.Session().View()
	if v == m.view {
		return nil
	}
	m.view = v
	if _, splash := m.router.Base().(*welcome.WelcomeScreen); splash {
		return nil
	}
	return m.router.SetBase(m.screens[v])
}

// title is the header text: the base screen's title even under an overlay.
func (m AppModel) title() string {
	return m.router.Base().Title()
}

func (m AppModel) hints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.title(), m.status, m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
