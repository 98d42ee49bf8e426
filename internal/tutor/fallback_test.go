package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/llm"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/study"
)

var (
	_ study.ContentProvider     = (*Fallback)(nil)
	_ quiz.QuestionProvider     = (*Fallback)(nil)
	_ chat.ConversationProvider = (*Fallback)(nil)
	_ Tutor                     = (*Service)(nil)
)

// stubTutor answers every call with the same text, questions and error.
type stubTutor struct {
	text      string
	questions []quiz.Question
	err       error
	deadline  bool
}

func (s *stubTutor) result(ctx context.Context) (string, error) {
	_, s.deadline = ctx.Deadline()
	return s.text, s.err
}

func (s *stubTutor) Notes(ctx context.Context, _ string) (string, error)  { return s.result(ctx) }
func (s *stubTutor) Search(ctx context.Context, _ string) (string, error) { return s.result(ctx) }
func (s *stubTutor) Reply(ctx context.Context, _ string, _ []chat.Message) (string, error) {
	return s.result(ctx)
}
func (s *stubTutor) Questions(ctx context.Context, _ string, _ quiz.Difficulty) ([]quiz.Question, error) {
	_, err := s.result(ctx)
	return s.questions, err
}

func TestFallbackStrings(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		call  func(f *Fallback) string
		err   string
		empty string
	}{
		{"notes", func(f *Fallback) string { return f.GenerateNotes(context.Background(), "Road Signs") }, NotesError, NotesEmpty},
		{"search", func(f *Fallback) string { return f.AnswerQuery(context.Background(), "zebra crossing") }, SearchError, SearchEmpty},
		{"chat", func(f *Fallback) string { return f.Reply(context.Background(), "hi", nil) }, ChatError, ChatEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err, tt.call(NewFallback(&stubTutor{err: boom}, nil, 0)))
			assert.Equal(t, tt.empty, tt.call(NewFallback(&stubTutor{}, nil, 0)))
			assert.Equal(t, "fine", tt.call(NewFallback(&stubTutor{text: "fine"}, nil, 0)))
		})
	}
}

func TestFallbackQuestions(t *testing.T) {
	q := quiz.Question{Question: "Q", Options: []string{"a", "b"}}

	got := NewFallback(&stubTutor{err: errors.New("down")}, nil, 0).GenerateQuestions(context.Background(), "General", quiz.Easy)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = NewFallback(&stubTutor{}, nil, 0).GenerateQuestions(context.Background(), "General", quiz.Easy)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = NewFallback(&stubTutor{questions: []quiz.Question{q}}, nil, 0).GenerateQuestions(context.Background(), "General", quiz.Easy)
	assert.Equal(t, []quiz.Question{q}, got)
}

func TestFallbackLogsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := NewFallback(&stubTutor{err: errors.New("rate limited")}, zap.New(core), 0)

	f.GenerateNotes(context.Background(), "Overtaking")
	f.GenerateQuestions(context.Background(), "Overtaking", quiz.Hard)

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Overtaking", entries[0].ContextMap()["topic"])
	assert.Equal(t, "quiz generation failed", entries[1].Message)
}

func TestFallbackTimeout(t *testing.T) {
	stub := &stubTutor{text: "ok"}

	NewFallback(stub, nil, time.Second).GenerateNotes(context.Background(), "x")
	assert.True(t, stub.deadline)

	NewFallback(stub, nil, 0).GenerateNotes(context.Background(), "x")
	assert.False(t, stub.deadline)
}

func TestFallbackOverService(t *testing.T) {
	// An exhausted mock fails every call, the path the offline mode takes.
	f := NewFallback(New(llm.NewMockProvider(), DefaultConfig()), nil, 0)

	assert.Equal(t, NotesError, f.GenerateNotes(context.Background(), "Road Signs"))
	assert.Equal(t, SearchError, f.AnswerQuery(context.Background(), "q"))
	assert.Equal(t, ChatError, f.Reply(context.Background(), "hi", nil))
	assert.Empty(t, f.GenerateQuestions(context.Background(), "General", quiz.Easy))
}
