package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/quiz"
)

type recordingProvider struct {
	notes   []string
	queries []string
}

func (r *recordingProvider) GenerateNotes(_ context.Context, title string) string {
	r.notes = append(r.notes, title)
	return "## " + title
}

func (r *recordingProvider) AnswerQuery(_ context.Context, q string) string {
	r.queries = append(r.queries, q)
	return "- answer to " + q
}

func topic(t *testing.T, id string) curriculum.Topic {
	t.Helper()
	tp, ok := curriculum.Lookup(id)
	require.True(t, ok)
	return tp
}

func TestNewStartsHome(t *testing.T) {
	s := New()
	assert.Equal(t, ViewHome, s.View())
	assert.Nil(t, s.Topic())
	assert.False(t, s.Loading())
	assert.Len(t, s.Chat().Messages(), 1)
	assert.False(t, s.Quiz().Active())
}

func TestSelectTopicLoadsNotes(t *testing.T) {
	s := New()
	p := &recordingProvider{}

	req := s.SelectTopic(topic(t, "speed"))
	assert.Equal(t, ViewContent, s.View())
	assert.True(t, s.Loading())
	require.NotNil(t, s.Topic())
	assert.Equal(t, "speed", s.Topic().ID)

	require.True(t, s.ApplyContent(req.Fetch(context.Background(), p)))
	assert.Equal(t, []string{"Speed Management"}, p.notes)
	assert.Equal(t, "## Speed Management", s.Content())
	assert.False(t, s.Loading())
}

func TestSearchBlankQueryIsNoop(t *testing.T) {
	s := New()
	s.SelectTopic(topic(t, "signs"))
	gen := s.Generation()

	for _, q := range []string{"", "   ", "\t\n"} {
		_, ok := s.Search(q)
		assert.False(t, ok)
	}
	assert.Equal(t, ViewContent, s.View())
	assert.Equal(t, gen, s.Generation())
	require.NotNil(t, s.Topic())
}

func TestSearchClearsTopic(t *testing.T) {
	s := New()
	p := &recordingProvider{}
	s.SelectTopic(topic(t, "signs"))

	req, ok := s.Search("roundabout rules")
	require.True(t, ok)
	assert.Equal(t, ViewSearch, s.View())
	assert.Nil(t, s.Topic())
	assert.Equal(t, "roundabout rules", s.Query())

	require.True(t, s.ApplyContent(req.Fetch(context.Background(), p)))
	assert.Equal(t, []string{"roundabout rules"}, p.queries)
	assert.Equal(t, "- answer to roundabout rules", s.Content())
}

func TestStaleContentIsDropped(t *testing.T) {
	s := New()
	p := &recordingProvider{}

	first := s.SelectTopic(topic(t, "intro"))
	second := s.SelectTopic(topic(t, "skid"))

	// The slower first response arrives after the second request was made.
	assert.False(t, s.ApplyContent(first.Fetch(context.Background(), p)))
	assert.True(t, s.Loading())
	assert.Empty(t, s.Content())

	assert.True(t, s.ApplyContent(second.Fetch(context.Background(), p)))
	assert.Equal(t, "## Skid Control", s.Content())
}

func TestContentAfterGoHomeIsDropped(t *testing.T) {
	s := New()
	req := s.SelectTopic(topic(t, "intro"))
	s.GoHome()

	assert.False(t, s.ApplyContent(ContentResult{Gen: req.Gen, Text: "late"}))
	assert.Equal(t, ViewHome, s.View())
	assert.False(t, s.Loading())
}

func TestGoHomeKeepsChatAndQuiz(t *testing.T) {
	s := New()
	_, ok := s.SendChat("hello")
	require.True(t, ok)
	qreq := s.StartQuiz(nil, quiz.Easy)

	s.GoHome()
	assert.Equal(t, ViewHome, s.View())
	assert.Len(t, s.Chat().Messages(), 2)
	assert.True(t, s.Quiz().Active())

	// A quiz result is fenced by the quiz itself, not by navigation.
	assert.True(t, s.ApplyQuiz(quiz.Result{Ticket: qreq.Ticket}))
}

func TestStartQuizWithSelectedTopic(t *testing.T) {
	s := New()
	p := &recordingProvider{}
	tp := topic(t, "adverse")
	creq := s.SelectTopic(tp)
	s.ApplyContent(creq.Fetch(context.Background(), p))

	qreq := s.StartQuiz(s.Topic(), quiz.Hard)
	assert.Equal(t, ViewQuiz, s.View())
	assert.Equal(t, "Adverse Conditions", qreq.Subject)
	assert.Equal(t, quiz.Hard, qreq.Difficulty)
	assert.True(t, s.Quiz().Loading())
	// Notes are kept for when the quiz is quit.
	assert.Equal(t, "## Adverse Conditions", s.Content())
}

func TestMockExamClearsTopic(t *testing.T) {
	s := New()
	s.SelectTopic(topic(t, "adverse"))

	qreq := s.StartQuiz(nil, quiz.Easy)
	assert.Equal(t, curriculum.GeneralTitle, qreq.Subject)
	assert.Nil(t, s.Topic())

	_, reload := s.QuitQuiz()
	assert.False(t, reload)
	assert.Equal(t, ViewHome, s.View())
}

func TestQuitQuizReturnsToLoadedNotes(t *testing.T) {
	s := New()
	p := &recordingProvider{}
	creq := s.SelectTopic(topic(t, "comm"))
	require.True(t, s.ApplyContent(creq.Fetch(context.Background(), p)))

	qreq := s.StartQuiz(s.Topic(), quiz.Easy)
	_, reload := s.QuitQuiz()
	assert.False(t, reload)
	assert.Equal(t, ViewContent, s.View())
	assert.Equal(t, "## Communication", s.Content())
	assert.False(t, s.Loading())

	assert.False(t, s.ApplyQuiz(quiz.Result{Ticket: qreq.Ticket}))
	assert.False(t, s.Quiz().Active())
}

func TestQuitQuizReloadsNotesInterruptedByQuiz(t *testing.T) {
	s := New()
	p := &recordingProvider{}
	stale := s.SelectTopic(topic(t, "comm"))
	s.StartQuiz(s.Topic(), quiz.Easy)

	// Notes that were still loading when the quiz started are dropped.
	assert.False(t, s.ApplyContent(stale.Fetch(context.Background(), p)))

	req, reload := s.QuitQuiz()
	require.True(t, reload)
	assert.Equal(t, ViewContent, s.View())
	assert.True(t, s.Loading())
	assert.Equal(t, ContentNotes, req.Kind)

	require.True(t, s.ApplyContent(req.Fetch(context.Background(), p)))
	assert.Equal(t, "## Communication", s.Content())
}

func TestStartQuizOnOtherTopicReplacesSelection(t *testing.T) {
	s := New()
	s.SelectTopic(topic(t, "comm"))
	other := topic(t, "exam")

	qreq := s.StartQuiz(&other, quiz.Easy)
	assert.Equal(t, "The Examination", qreq.Subject)
	require.NotNil(t, s.Topic())
	assert.Equal(t, "exam", s.Topic().ID)

	_, reload := s.QuitQuiz()
	assert.True(t, reload)
}

func TestChatRoundTrip(t *testing.T) {
	s := New()
	req, ok := s.SendChat("Can I overtake on a bend?")
	require.True(t, ok)
	assert.True(t, s.Chat().Pending())

	_, ok = s.SendChat("again")
	assert.False(t, ok)

	s.GoHome()
	assert.True(t, s.ApplyChat(chatReply(req.Seq, "No.")))
	assert.Len(t, s.Chat().Messages(), 3)
}

func chatReply(seq uint64, text string) chat.Reply {
	return chat.Reply{Seq: seq, Text: text}
}
