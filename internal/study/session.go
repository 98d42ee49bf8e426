// Package study owns the state of one study session: the active view, the
// selected topic and its notes, the quiz and the instructor chat.
//
// Operations that need a provider call return a request value. The caller
// runs the request (usually on another goroutine) and hands the result back
// through the matching Apply method. Every navigation bumps a generation
// counter, and results from an older generation are dropped, so a slow
// response can never overwrite what the user moved on to.
package study

import (
	"context"
	"strings"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/quiz"
)

// View is the screen the session is showing.
type View string

const (
	ViewHome    View = "home"
	ViewContent View = "content"
	ViewSearch  View = "search"
	ViewQuiz    View = "quiz"
)

// ContentProvider supplies study notes and search answers. Implementations
// never fail; errors are turned into displayable text.
type ContentProvider interface {
	GenerateNotes(ctx context.Context, topicTitle string) string
	AnswerQuery(ctx context.Context, query string) string
}

// ContentKind says which provider call a ContentRequest needs.
type ContentKind string

const (
	ContentNotes  ContentKind = "notes"
	ContentSearch ContentKind = "search"
)

// ContentRequest is an outstanding notes or search call.
type ContentRequest struct {
	Gen  uint64
	Kind ContentKind
	// Subject is the topic title for notes, or the query for search.
	Subject string
}

// ContentResult is the text produced for a ContentRequest.
type ContentResult struct {
	Gen  uint64
	Text string
}

// Fetch calls the provider.
func (r ContentRequest) Fetch(ctx context.Context, p ContentProvider) ContentResult {
	var text string
	switch r.Kind {
	case ContentSearch:
		text = p.AnswerQuery(ctx, r.Subject)
	default:
		text = p.GenerateNotes(ctx, r.Subject)
	}
	return ContentResult{Gen: r.Gen, Text: text}
}

// Session is the state of one learner's visit. It is not safe for
// concurrent use.
type Session struct {
	view    View
	topic   *curriculum.Topic
	query   string
	content string
	loading bool
	// ready is set once content holds a provider answer for the current
	// topic or query.
	ready bool
	gen   uint64

	quiz *quiz.Engine
	chat *chat.Session
}

// New returns a session on the home view.
func New(opts ...chat.Option) *Session {
	return &Session{
		view: ViewHome,
		quiz: &quiz.Engine{},
		chat: chat.New(opts...),
	}
}

// SelectTopic shows the notes view for topic and returns the notes request.
func (s *Session) SelectTopic(topic curriculum.Topic) ContentRequest {
	s.gen++
	s.topic = &topic
	s.query = ""
	s.view = ViewContent
	s.content = ""
	s.ready = false
	s.loading = true
	return ContentRequest{Gen: s.gen, Kind: ContentNotes, Subject: topic.Title}
}

// Search shows the search view for query. A blank query changes nothing and
// returns false.
func (s *Session) Search(query string) (ContentRequest, bool) {
	if strings.TrimSpace(query) == "" {
		return ContentRequest{}, false
	}
	s.gen++
	s.topic = nil
	s.query = query
	s.view = ViewSearch
	s.content = ""
	s.ready = false
	s.loading = true
	return ContentRequest{Gen: s.gen, Kind: ContentSearch, Subject: query}, true
}

// ApplyContent stores a notes or search answer. Results from a superseded
// request are ignored and false is returned.
func (s *Session) ApplyContent(res ContentResult) bool {
	if res.Gen != s.gen || !s.loading {
		return false
	}
	s.content = res.Text
	s.loading = false
	s.ready = true
	return true
}

// GoHome returns to the home view. Quiz and chat state are kept.
func (s *Session) GoHome() {
	s.gen++
	s.view = ViewHome
	s.loading = false
}

// StartQuiz switches to the quiz view and returns the question request. A nil
// topic starts the general mock exam and clears the selected topic.
func (s *Session) StartQuiz(topic *curriculum.Topic, difficulty quiz.Difficulty) quiz.Request {
	s.gen++
	s.loading = false
	switch {
	case topic == nil:
		s.topic = nil
	case s.topic == nil || s.topic.ID != topic.ID:
		t := *topic
		s.topic = &t
		s.query = ""
		s.content = ""
		s.ready = false
	}
	s.view = ViewQuiz
	return s.quiz.Start(s.topic, difficulty)
}

// ApplyQuiz installs generated questions for the running quiz.
func (s *Session) ApplyQuiz(res quiz.Result) bool {
	return s.quiz.Apply(res)
}

// QuitQuiz discards the quiz and goes back to the topic notes, or home when
// no topic is selected. When the notes were never loaded a request for them
// is returned with ok == true.
func (s *Session) QuitQuiz() (req ContentRequest, ok bool) {
	s.gen++
	s.quiz.Quit()
	if s.topic == nil {
		s.view = ViewHome
		s.loading = false
		return ContentRequest{}, false
	}

	s.view = ViewContent
	if s.ready {
		s.loading = false
		return ContentRequest{}, false
	}
	s.loading = true
	return ContentRequest{Gen: s.gen, Kind: ContentNotes, Subject: s.topic.Title}, true
}

// SendChat records a chat message. See chat.Session.Send.
func (s *Session) SendChat(text string) (chat.Request, bool) {
	return s.chat.Send(text)
}

// ApplyChat appends the instructor's reply.
func (s *Session) ApplyChat(r chat.Reply) bool {
	return s.chat.Complete(r)
}

func (s *Session) View() View         { return s.view }
func (s *Session) Query() string      { return s.query }
func (s *Session) Content() string    { return s.content }
func (s *Session) Loading() bool      { return s.loading }
func (s *Session) Generation() uint64 { return s.gen }

// Topic returns the selected topic, or nil when none is selected.
func (s *Session) Topic() *curriculum.Topic {
	if s.topic == nil {
		return nil
	}
	t := *s.topic
	return &t
}

// Quiz exposes the quiz engine for answering and advancing.
func (s *Session) Quiz() *quiz.Engine { return s.quiz }

// Chat exposes the conversation transcript.
func (s *Session) Chat() *chat.Session { return s.chat }
