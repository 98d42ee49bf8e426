package api

import (
	"time"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/markdown"
	"github.com/kenroads/ntsabuddy/internal/quiz"
	"github.com/kenroads/ntsabuddy/internal/study"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

type SelectTopicRequest struct {
	TopicID string `json:"topic_id"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

// StartQuizRequest starts a quiz. Mock ignores TopicID and quizzes on
// general knowledge; without either the selected topic is used.
type StartQuizRequest struct {
	Difficulty string `json:"difficulty"`
	TopicID    string `json:"topic_id,omitempty"`
	Mock       bool   `json:"mock"`
}

type AnswerRequest struct {
	Option int `json:"option"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

// AnswerResponse reports how an answer was scored.
type AnswerResponse struct {
	Accepted bool     `json:"accepted"`
	Correct  bool     `json:"correct"`
	Session  Snapshot `json:"session"`
}

// Snapshot is the client-facing view of a study session.
type Snapshot struct {
	ID         string            `json:"id"`
	View       study.View        `json:"view"`
	Topic      *curriculum.Topic `json:"topic,omitempty"`
	Query      string            `json:"query,omitempty"`
	Loading    bool              `json:"loading"`
	Generation uint64            `json:"generation"`
	Content    []markdown.Block  `json:"content"`
	Quiz       *QuizSnapshot     `json:"quiz,omitempty"`
	Chat       ChatSnapshot      `json:"chat"`
}

// QuizSnapshot omits the answer key until the current question is revealed.
type QuizSnapshot struct {
	Subject    string          `json:"subject"`
	Difficulty quiz.Difficulty `json:"difficulty"`
	Counter    string          `json:"counter"`
	Index      int             `json:"index"`
	Total      int             `json:"total"`
	Score      int             `json:"score"`
	Loading    bool            `json:"loading"`
	Revealed   bool            `json:"revealed"`
	Completed  bool            `json:"completed"`
	Excellent  bool            `json:"excellent"`
	Question   *QuestionView   `json:"question,omitempty"`
}

type QuestionView struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex *int     `json:"correctAnswerIndex,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`
}

type ChatSnapshot struct {
	Pending  bool          `json:"pending"`
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage carries model text both raw and as display blocks.
type ChatMessage struct {
	Role      chat.Role        `json:"role"`
	Text      string           `json:"text"`
	Blocks    []markdown.Block `json:"blocks,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// snapshot captures s. The caller holds the session lock.
func snapshot(id string, s *study.Session) Snapshot {
	snap := Snapshot{
		ID:         id,
		View:       s.View(),
		Topic:      s.Topic(),
		Query:      s.Query(),
		Loading:    s.Loading(),
		Generation: s.Generation(),
		Content:    []markdown.Block{},
	}
	if !s.Loading() && s.Content() != "" {
		snap.Content = markdown.Render(s.Content())
	}

	if q := s.Quiz(); q.Active() {
		qs := &QuizSnapshot{
			Subject:    q.Subject(),
			Difficulty: q.Difficulty(),
			Counter:    q.Counter(),
			Index:      q.Index(),
			Total:      q.Len(),
			Score:      q.Score(),
			Loading:    q.Loading(),
			Revealed:   q.Revealed(),
			Completed:  q.Completed(),
			Excellent:  q.Excellent(),
		}
		if cur, ok := q.Current(); ok && !q.Completed() {
			view := &QuestionView{Question: cur.Question, Options: cur.Options}
			if q.Revealed() {
				idx := cur.CorrectAnswerIndex
				view.CorrectAnswerIndex = &idx
				view.Explanation = cur.Explanation
			}
			qs.Question = view
		}
		snap.Quiz = qs
	}

	c := s.Chat()
	snap.Chat.Pending = c.Pending()
	for _, m := range c.Messages() {
		msg := ChatMessage{Role: m.Role, Text: m.Text, Timestamp: m.Timestamp}
		if m.Role == chat.RoleModel {
			msg.Blocks = markdown.Render(m.Text)
		}
		snap.Chat.Messages = append(snap.Chat.Messages, msg)
	}
	return snap
}
