// Package quiz renders the running quiz and its completion card.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/screen"
	"github.com/kenroads/ntsabuddy/internal/ui/components"
	"github.com/kenroads/ntsabuddy/internal/ui/layout"
	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

const (
	LoadingText   = "Generating customized questions..."
	ExcellentCopy = "Excellent driving! You're ready for the road."
	KeepGoingCopy = "Keep studying, you can do better!"
	EmptyText     = "No questions could be generated right now."
)

// Completion card buttons.
const (
	buttonTryAgain = iota
	buttonHome
)

// QuizScreen drives quiz.Engine through the controller.
type QuizScreen struct {
	ctrl *controller.Controller

	mc components.MultiChoice
	// ticket and index identify the question mc was built for.
	ticket uint64
	index  int
	built  bool

	button int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen.
func New(ctrl *controller.Controller) *QuizScreen {
	return &QuizScreen{ctrl: ctrl}
}

func (s *QuizScreen) Init() tea.Cmd {
	s.built = false
	s.button = buttonTryAgain
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz: " + s.ctrl.Session().Quiz().Subject()
}

// sync rebuilds the choice widget when the engine moved to another question.
func (s *QuizScreen) sync() {
	q := s.ctrl.Session().Quiz()
	if s.built && s.ticket == q.Ticket() && s.index == q.Index() {
		return
	}
	cur, ok := q.Current()
	if !ok {
		s.built = false
		return
	}
	s.mc = components.NewMultiChoice(cur.Question, cur.Options, cur.CorrectAnswerIndex)
	s.ticket, s.index, s.built = q.Ticket(), q.Index(), true
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	q := s.ctrl.Session().Quiz()

	if cm, ok := msg.(components.ChoiceMsg); ok {
		s.ctrl.Answer(cm.Index)
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if key == "esc" {
		return s, s.ctrl.QuitQuiz()
	}
	if q.Loading() {
		return s, nil
	}

	if q.Completed() || q.Len() == 0 {
		return s.updateFinished(key)
	}

	s.sync()
	if q.Revealed() {
		if key == "enter" || key == "n" {
			s.ctrl.Advance()
			s.button = buttonTryAgain
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	return s, cmd
}

func (s *QuizScreen) updateFinished(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "left", "right", "tab":
		s.button = 1 - s.button
	case "r":
		return s, s.ctrl.Retry()
	case "enter":
		if s.button == buttonHome {
			return s, s.ctrl.GoHome()
		}
		return s, s.ctrl.Retry()
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	q := s.ctrl.Session().Quiz()
	cw := components.ContentWidth(width)

	var body string
	switch {
	case q.Loading():
		body = theme.Hint.Render(LoadingText)
	case q.Completed():
		body = s.viewCompleted(cw)
	case q.Len() == 0:
		body = s.viewEmpty()
	default:
		s.sync()
		body = s.viewQuestion(cw)
	}

	heading := theme.Heading2.Render(s.Title())
	content := lipgloss.PlaceHorizontal(width, lipgloss.Center, heading) + "\n" +
		components.Card(body, width)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *QuizScreen) viewQuestion(cw int) string {
	q := s.ctrl.Session().Quiz()
	var b strings.Builder

	counter := theme.Hint.Render(fmt.Sprintf("Question %s", q.Counter()))
	score := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("Score: %d", q.Score()))
	gap := cw - lipgloss.Width(counter) - lipgloss.Width(score)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(counter + strings.Repeat(" ", gap) + score)
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", float64(q.Index())/float64(q.Len()), false, cw).View())
	b.WriteString("\n\n")

	// Reveal state lives in the engine; mirror it for styling.
	mc := s.mc
	if q.Revealed() && !mc.Submitted {
		mc.Submitted = true
	}
	b.WriteString(mc.View(cw))

	if q.Revealed() {
		cur, _ := q.Current()
		b.WriteString("\n")
		verdict := theme.Correct.Render("✓ Correct!")
		if !mc.IsCorrect() {
			verdict = theme.Incorrect.Render("✗ Not quite.")
		}
		b.WriteString(verdict + "\n")
		b.WriteString(components.Markdown(cur.Explanation, cw))
		b.WriteString("\n\n")

		label := "Next Question"
		if q.IsLast() {
			label = "Finish Quiz"
		}
		b.WriteString(components.NewButton(label, true, nil).View())
	}
	return b.String()
}

func (s *QuizScreen) viewCompleted(cw int) string {
	q := s.ctrl.Session().Quiz()

	copyText, copyStyle := KeepGoingCopy, lipgloss.NewStyle().Foreground(theme.Accent)
	if q.Excellent() {
		copyText, copyStyle = ExcellentCopy, theme.Correct
	}

	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	lines := []string{
		center.Render(theme.Heading2.Render("🏁 Quiz Completed!")),
		"",
		center.Render(theme.Bold.Render(fmt.Sprintf("You scored %d out of %d", q.Score(), q.Len()))),
		"",
		center.Render(copyStyle.Render(copyText)),
		"",
		center.Render(s.buttons()),
	}
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) viewEmpty() string {
	q := s.ctrl.Session().Quiz()
	return strings.Join([]string{
		theme.Hint.Render(fmt.Sprintf("Question %s", q.Counter())),
		"",
		theme.Incorrect.Render(EmptyText),
		"",
		s.buttons(),
	}, "\n")
}

func (s *QuizScreen) buttons() string {
	try := components.NewButton("Try Again", s.button == buttonTryAgain, nil)
	home := components.NewButton("Home", s.button == buttonHome, nil)
	return lipgloss.JoinHorizontal(lipgloss.Center, try.View(), "   ", home.View())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	q := s.ctrl.Session().Quiz()
	switch {
	case q.Loading():
		return []layout.KeyHint{{Key: "Esc", Description: "Quit Quiz"}}
	case q.Completed() || q.Len() == 0:
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "r", Description: "Try Again"},
			{Key: "Esc", Description: "Back"},
		}
	case q.Revealed():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Ctrl+T", Description: "Instructor"},
			{Key: "Esc", Description: "Quit Quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit Quiz"},
	}
}
