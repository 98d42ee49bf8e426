// Package controller drives a study.Session from the TUI. Every action
// mutates the session synchronously and returns a tea.Cmd that runs the
// provider call off the UI goroutine; the result comes back as a message
// that Handle applies.
package controller

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/llm"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/study"
)

// Providers bundles the three provider roles. A single tutor.Fallback
// satisfies all of them.
type Providers struct {
	Content      study.ContentProvider
	Questions    quiz.QuestionProvider
	Conversation chat.ConversationProvider
}

// ContentLoadedMsg carries notes or a search answer.
type ContentLoadedMsg struct {
	Result study.ContentResult
}

// QuizLoadedMsg carries generated questions.
type QuizLoadedMsg struct {
	Result quiz.Result
}

// ChatReplyMsg carries the instructor's answer.
type ChatReplyMsg struct {
	Reply chat.Reply
}

// Controller owns the session for one TUI run.
type Controller struct {
	session   *study.Session
	providers Providers
	ctx       context.Context
	sessionID string
	log       *zap.Logger
}

// New creates a controller. Provider calls inherit ctx, tagged with a fresh
// session ID for event logging.
func New(ctx context.Context, session *study.Session, providers Providers, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Controller{
		session:   session,
		providers: providers,
		ctx:       llm.WithSession(ctx, id),
		sessionID: id,
		log:       log.With(zap.String("session_id", id)),
	}
}

// Session returns the controlled session for rendering.
func (c *Controller) Session() *study.Session { return c.session }

// SessionID identifies this run in the event log.
func (c *Controller) SessionID() string { return c.sessionID }

// SelectTopic opens the notes for topic.
func (c *Controller) SelectTopic(topic curriculum.Topic) tea.Cmd {
	c.log.Debug("select topic", zap.String("topic", topic.ID))
	return c.fetchContent(c.session.SelectTopic(topic))
}

// Search asks a free-form question. Blank queries are ignored.
func (c *Controller) Search(query string) tea.Cmd {
	req, ok := c.session.Search(query)
	if !ok {
		return nil
	}
	c.log.Debug("search", zap.String("query", query))
	return c.fetchContent(req)
}

// GoHome returns to the topic list.
func (c *Controller) GoHome() tea.Cmd {
	c.session.GoHome()
	return nil
}

// StartQuiz begins a quiz on topic, or the mock exam when topic is nil.
func (c *Controller) StartQuiz(topic *curriculum.Topic, d quiz.Difficulty) tea.Cmd {
	req := c.session.StartQuiz(topic, d)
	c.log.Debug("start quiz",
		zap.String("subject", req.Subject),
		zap.String("difficulty", string(d)),
	)
	ctx, p := c.ctx, c.providers.Questions
	return func() tea.Msg {
		return QuizLoadedMsg{Result: req.Fetch(ctx, p)}
	}
}

// Retry restarts an easy quiz on the current quiz subject.
func (c *Controller) Retry() tea.Cmd {
	return c.StartQuiz(c.session.Quiz().Topic(), quiz.Easy)
}

// Answer submits option for the current question.
func (c *Controller) Answer(option int) (correct, accepted bool) {
	return c.session.Quiz().SubmitAnswer(option)
}

// Advance moves to the next question or finishes the quiz.
func (c *Controller) Advance() bool {
	return c.session.Quiz().Advance()
}

// QuitQuiz leaves the quiz, reloading the topic notes when needed.
func (c *Controller) QuitQuiz() tea.Cmd {
	req, ok := c.session.QuitQuiz()
	if !ok {
		return nil
	}
	return c.fetchContent(req)
}

// SendChat posts a message to the instructor.
func (c *Controller) SendChat(text string) tea.Cmd {
	req, ok := c.session.SendChat(text)
	if !ok {
		return nil
	}
	ctx, p := c.ctx, c.providers.Conversation
	return func() tea.Msg {
		return ChatReplyMsg{Reply: req.Fetch(ctx, p)}
	}
}

// Handle applies a provider result. It reports whether msg was one of the
// controller's messages; stale results are consumed and dropped.
func (c *Controller) Handle(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ContentLoadedMsg:
		if !c.session.ApplyContent(msg.Result) {
			c.log.Debug("stale content dropped", zap.Uint64("gen", msg.Result.Gen))
		}
	case QuizLoadedMsg:
		if !c.session.ApplyQuiz(msg.Result) {
			c.log.Debug("stale quiz dropped", zap.Uint64("ticket", msg.Result.Ticket))
		}
	case ChatReplyMsg:
		if !c.session.ApplyChat(msg.Reply) {
			c.log.Debug("stale chat reply dropped", zap.Uint64("seq", msg.Reply.Seq))
		}
	default:
		return false
	}
	return true
}

func (c *Controller) fetchContent(req study.ContentRequest) tea.Cmd {
	ctx, p := c.ctx, c.providers.Content
	return func() tea.Msg {
		return ContentLoadedMsg{Result: req.Fetch(ctx, p)}
	}
}
