// Package testutil provides fixtures shared by the screen tests.
package testutil

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/study"
)

// Provider answers every call with fixed content and counts calls.
type Provider struct {
	mu        sync.Mutex
	Notes     string
	Answer    string
	Questions []quiz.Question
	Calls     int
}

// NewProvider returns a provider with two questions ready.
func NewProvider() *Provider {
	return &Provider{
		Notes:  "## Notes\n- Keep **left** unless overtaking",
		Answer: "Stop at the line.",
		Questions: []quiz.Question{
			{
				Question:           "What does a red octagon mean?",
				Options:            []string{"Stop", "Yield", "No entry"},
				CorrectAnswerIndex: 0,
				Explanation:        "A red octagon is the STOP sign.",
			},
			{
				Question:           "Which side of the road do you drive on in Kenya?",
				Options:            []string{"Right", "Left"},
				CorrectAnswerIndex: 1,
				Explanation:        "Kenya drives on the left.",
			},
		},
	}
}

func (p *Provider) count() {
	p.mu.Lock()
	p.Calls++
	p.mu.Unlock()
}

func (p *Provider) GenerateNotes(context.Context, string) string {
	p.count()
	return p.Notes
}

func (p *Provider) AnswerQuery(context.Context, string) string {
	p.count()
	return p.Answer
}

func (p *Provider) GenerateQuestions(context.Context, string, quiz.Difficulty) []quiz.Question {
	p.count()
	return p.Questions
}

func (p *Provider) Reply(_ context.Context, msg string, _ []chat.Message) string {
	p.count()
	return "**Answer:** " + msg
}

// Controller wires a fresh session to p.
func Controller(p *Provider) *controller.Controller {
	return controller.New(context.Background(), study.New(),
		controller.Providers{Content: p, Questions: p, Conversation: p}, nil)
}

// Drain runs cmd and feeds any controller messages back through ctrl. Batch
// commands are expanded.
func Drain(ctrl *controller.Controller, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			Drain(ctrl, c)
		}
		return
	}
	ctrl.Handle(msg)
}

// KeyPress builds a printable key event.
func KeyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// SpecialKey builds a non-printable key event such as tea.KeyEnter.
func SpecialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}
