package tutor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/quiz"
)

// Display text used when a call fails or comes back empty.
const (
	NotesError  = "Error generating content. Please check your connection."
	NotesEmpty  = "Failed to load content. Please try again."
	SearchError = "Search unavailable."
	SearchEmpty = "No results found."
	ChatError   = "Sorry, I'm having trouble connecting to the server."
	ChatEmpty   = "I didn't catch that. Could you repeat?"
)

// Fallback adapts a Tutor to the infallible provider interfaces of the
// study, quiz and chat packages. It is the only place errors become text.
type Fallback struct {
	tutor   Tutor
	log     *zap.Logger
	timeout time.Duration
}

// NewFallback wraps t. Failures are logged at error level on log, which may
// be nil. A positive timeout bounds each call.
func NewFallback(t Tutor, log *zap.Logger, timeout time.Duration) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{tutor: t, log: log, timeout: timeout}
}

func (f *Fallback) GenerateNotes(ctx context.Context, topicTitle string) string {
	ctx, cancel := f.bound(ctx)
	defer cancel()

	text, err := f.tutor.Notes(ctx, topicTitle)
	return f.text(text, err, NotesError, NotesEmpty, zap.String("topic", topicTitle))
}

func (f *Fallback) AnswerQuery(ctx context.Context, query string) string {
	ctx, cancel := f.bound(ctx)
	defer cancel()

	text, err := f.tutor.Search(ctx, query)
	return f.text(text, err, SearchError, SearchEmpty, zap.String("query", query))
}

func (f *Fallback) Reply(ctx context.Context, message string, history []chat.Message) string {
	ctx, cancel := f.bound(ctx)
	defer cancel()

	text, err := f.tutor.Reply(ctx, message, history)
	return f.text(text, err, ChatError, ChatEmpty, zap.Int("history", len(history)))
}

// GenerateQuestions returns an empty slice on any failure.
func (f *Fallback) GenerateQuestions(ctx context.Context, subject string, d quiz.Difficulty) []quiz.Question {
	ctx, cancel := f.bound(ctx)
	defer cancel()

	questions, err := f.tutor.Questions(ctx, subject, d)
	if err != nil {
		f.log.Error("quiz generation failed",
			zap.String("subject", subject),
			zap.String("difficulty", string(d)),
			zap.Error(err),
		)
		return []quiz.Question{}
	}
	if questions == nil {
		return []quiz.Question{}
	}
	return questions
}

func (f *Fallback) text(text string, err error, onError, onEmpty string, field zap.Field) string {
	if err != nil {
		f.log.Error("content call failed", field, zap.Error(err))
		return onError
	}
	if text == "" {
		f.log.Warn("content call returned nothing", field)
		return onEmpty
	}
	return text
}

func (f *Fallback) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(ctx, f.timeout)
	}
	return context.WithCancel(ctx)
}
