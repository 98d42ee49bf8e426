package controller

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/llm"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/study"
)

type fakeProvider struct {
	mu       sync.Mutex
	sessions []string
}

func (f *fakeProvider) record(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, llm.SessionFrom(ctx))
}

func (f *fakeProvider) GenerateNotes(ctx context.Context, title string) string {
	f.record(ctx)
	return "## " + title
}

func (f *fakeProvider) AnswerQuery(ctx context.Context, q string) string {
	f.record(ctx)
	return "Answer: " + q
}

func (f *fakeProvider) GenerateQuestions(ctx context.Context, subject string, _ quiz.Difficulty) []quiz.Question {
	f.record(ctx)
	return []quiz.Question{{
		Question:           subject + "?",
		Options:            []string{"Yes", "No"},
		CorrectAnswerIndex: 0,
	}}
}

func (f *fakeProvider) Reply(ctx context.Context, msg string, _ []chat.Message) string {
	f.record(ctx)
	return "Re: " + msg
}

func newController(t *testing.T) (*Controller, *fakeProvider) {
	t.Helper()
	p := &fakeProvider{}
	c := New(context.Background(), study.New(), Providers{Content: p, Questions: p, Conversation: p}, nil)
	return c, p
}

func topic(t *testing.T, id string) curriculum.Topic {
	t.Helper()
	tp, ok := curriculum.Lookup(id)
	require.True(t, ok)
	return tp
}

func TestSelectTopic_LoadsNotes(t *testing.T) {
	c, p := newController(t)
	cmd := c.SelectTopic(topic(t, "signs"))
	require.NotNil(t, cmd)
	assert.True(t, c.Session().Loading())

	assert.True(t, c.Handle(cmd()))
	assert.False(t, c.Session().Loading())
	assert.Equal(t, "## Traffic Signs", c.Session().Content())
	assert.Equal(t, []string{c.SessionID()}, p.sessions)
}

func TestStaleContentIsDropped(t *testing.T) {
	c, _ := newController(t)
	first := c.SelectTopic(topic(t, "signs"))
	second := c.SelectTopic(topic(t, "skid"))

	assert.True(t, c.Handle(second()))
	assert.True(t, c.Handle(first()))
	assert.Equal(t, "## Skid Control", c.Session().Content())
}

func TestSearch_BlankIgnored(t *testing.T) {
	c, _ := newController(t)
	assert.Nil(t, c.Search("   "))
	assert.Equal(t, study.ViewHome, c.Session().View())

	cmd := c.Search("What is a yellow box?")
	require.NotNil(t, cmd)
	c.Handle(cmd())
	assert.Equal(t, study.ViewSearch, c.Session().View())
	assert.Equal(t, "Answer: What is a yellow box?", c.Session().Content())
}

func TestQuizFlow(t *testing.T) {
	c, _ := newController(t)
	cmd := c.StartQuiz(nil, quiz.Hard)
	assert.Equal(t, study.ViewQuiz, c.Session().View())
	c.Handle(cmd())

	q := c.Session().Quiz()
	require.Equal(t, 1, q.Len())
	correct, accepted := c.Answer(0)
	assert.True(t, correct)
	assert.True(t, accepted)
	assert.True(t, c.Advance())
	assert.True(t, q.Completed())

	// Retry restarts an easy quiz.
	cmd = c.Retry()
	assert.True(t, q.Loading())
	assert.Equal(t, quiz.Easy, q.Difficulty())
	c.Handle(cmd())
	assert.False(t, q.Completed())
}

func TestQuitQuiz_AbandonsFetch(t *testing.T) {
	c, _ := newController(t)
	cmd := c.StartQuiz(nil, quiz.Easy)
	assert.Nil(t, c.QuitQuiz())
	assert.Equal(t, study.ViewHome, c.Session().View())

	c.Handle(cmd())
	assert.Equal(t, 0, c.Session().Quiz().Len())
}

func TestQuitQuiz_ReloadsNotes(t *testing.T) {
	c, _ := newController(t)
	tp := topic(t, "speed")
	c.SelectTopic(tp) // never completed
	c.StartQuiz(&tp, quiz.Easy)

	cmd := c.QuitQuiz()
	require.NotNil(t, cmd)
	c.Handle(cmd())
	assert.Equal(t, study.ViewContent, c.Session().View())
	assert.Equal(t, "## Speed Management", c.Session().Content())
}

func TestSendChat(t *testing.T) {
	c, _ := newController(t)
	cmd := c.SendChat("Hi")
	require.NotNil(t, cmd)
	assert.Nil(t, c.SendChat("again"), "second send while pending")

	c.Handle(cmd())
	msgs := c.Session().Chat().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Re: Hi", msgs[2].Text)
}

func TestHandle_UnknownMessage(t *testing.T) {
	c, _ := newController(t)
	assert.False(t, c.Handle("tick"))
}
