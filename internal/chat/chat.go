// Package chat keeps the instructor conversation transcript.
package chat

import (
	"context"
	"strings"
	"time"
)

// Greeting is the first message of every conversation.
const Greeting = "Jambo! 👋 I am your NTSA Driving Instructor. Ask me anything about driving rules, signs, or safety!!!"

// Role identifies who wrote a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one transcript entry.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationProvider answers a user message given the prior transcript.
// It never fails; errors surface as apology text.
type ConversationProvider interface {
	Reply(ctx context.Context, message string, history []Message) string
}

// Request is an in-flight send.
type Request struct {
	Seq     uint64
	Message string
	// History is the transcript as it stood before Message was appended.
	History []Message
}

// Reply is the provider's answer to a Request.
type Reply struct {
	Seq  uint64
	Text string
}

// Fetch asks the provider for a reply.
func (r Request) Fetch(ctx context.Context, p ConversationProvider) Reply {
	return Reply{Seq: r.Seq, Text: p.Reply(ctx, r.Message, r.History)}
}

// Session is an append-only conversation with at most one send in flight.
//
// Session is not safe for concurrent use.
type Session struct {
	messages []Message
	pending  bool
	seq      uint64
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns a session seeded with the greeting.
func New(opts ...Option) *Session {
	s := &Session{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.messages = []Message{{Role: RoleModel, Text: Greeting, Timestamp: s.now()}}
	return s
}

// Send records a user message and returns the request to run. It returns
// false, leaving the transcript untouched, when text is blank or a previous
// send has not completed.
func (s *Session) Send(text string) (Request, bool) {
	if strings.TrimSpace(text) == "" || s.pending {
		return Request{}, false
	}

	history := s.Messages()
	s.messages = append(s.messages, Message{Role: RoleUser, Text: text, Timestamp: s.now()})
	s.pending = true
	s.seq++

	return Request{Seq: s.seq, Message: text, History: history}, true
}

// Complete appends the reply to the matching pending send.
func (s *Session) Complete(r Reply) bool {
	if !s.pending || r.Seq != s.seq {
		return false
	}
	s.messages = append(s.messages, Message{Role: RoleModel, Text: r.Text, Timestamp: s.now()})
	s.pending = false
	return true
}

// Pending reports whether a reply is awaited.
func (s *Session) Pending() bool { return s.pending }

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
