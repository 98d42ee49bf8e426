// Package quiz runs a short multiple-choice quiz over generated questions.
package quiz

import (
	"fmt"

	"github.com/kenroads/ntsabuddy/internal/curriculum"
)

// Engine holds the state of one quiz. The zero value is an idle engine.
//
// Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	topic      *curriculum.Topic
	difficulty Difficulty
	questions  []Question

	index     int
	score     int
	revealed  bool
	completed bool
	loading   bool
	active    bool

	// ticket identifies the latest Start; results for older tickets are
	// discarded.
	ticket uint64
}

// Start resets the engine and returns the fetch to run. A nil topic quizzes
// on general driving knowledge.
func (e *Engine) Start(topic *curriculum.Topic, difficulty Difficulty) Request {
	e.reset()
	e.ticket++
	if topic != nil {
		t := *topic
		e.topic = &t
	}
	e.difficulty = difficulty
	e.active = true
	e.loading = true

	return Request{
		Ticket:     e.ticket,
		Subject:    curriculum.SubjectTitle(e.topic),
		Difficulty: difficulty,
	}
}

// Apply installs fetched questions. It returns false and changes nothing when
// the result belongs to a superseded or abandoned quiz.
func (e *Engine) Apply(res Result) bool {
	if !e.loading || res.Ticket != e.ticket {
		return false
	}
	e.questions = append([]Question(nil), res.Questions...)
	e.loading = false
	return true
}

// SubmitAnswer scores option against the current question and reveals the
// explanation. It is ignored (accepted == false) while loading, after a
// reveal, after completion, when there are no questions, or when option is
// out of range.
func (e *Engine) SubmitAnswer(option int) (correct, accepted bool) {
	if e.loading || e.revealed || e.completed || len(e.questions) == 0 {
		return false, false
	}
	q := e.questions[e.index]
	if option < 0 || option >= len(q.Options) {
		return false, false
	}

	correct = option == q.CorrectAnswerIndex
	if correct {
		e.score++
	}
	e.revealed = true
	return correct, true
}

// Advance moves to the next question, or completes the quiz when the last
// question has been revealed. It does nothing before a reveal.
func (e *Engine) Advance() bool {
	if !e.revealed || e.completed {
		return false
	}
	if e.index < len(e.questions)-1 {
		e.index++
		e.revealed = false
		return true
	}
	e.completed = true
	return true
}

// Quit discards the quiz. Any fetch still in flight will be ignored.
func (e *Engine) Quit() {
	e.reset()
	e.ticket++
}

func (e *Engine) reset() {
	e.topic = nil
	e.difficulty = ""
	e.questions = nil
	e.index = 0
	e.score = 0
	e.revealed = false
	e.completed = false
	e.loading = false
	e.active = false
}

// Active reports whether a quiz has been started and not quit.
func (e *Engine) Active() bool { return e.active }

func (e *Engine) Loading() bool          { return e.loading }
func (e *Engine) Revealed() bool         { return e.revealed }
func (e *Engine) Completed() bool        { return e.completed }
func (e *Engine) Score() int             { return e.score }
func (e *Engine) Index() int             { return e.index }
func (e *Engine) Len() int               { return len(e.questions) }
func (e *Engine) Difficulty() Difficulty { return e.difficulty }
func (e *Engine) Ticket() uint64         { return e.ticket }

// Topic returns the quiz topic, or nil for a general quiz.
func (e *Engine) Topic() *curriculum.Topic {
	if e.topic == nil {
		return nil
	}
	t := *e.topic
	return &t
}

// Subject is the title the questions were requested for.
func (e *Engine) Subject() string {
	return curriculum.SubjectTitle(e.topic)
}

// Current returns the question at the current index.
func (e *Engine) Current() (Question, bool) {
	if e.index >= len(e.questions) {
		return Question{}, false
	}
	return e.questions[e.index], true
}

// Counter formats the position as "n/total". An empty quiz reads "1/0".
func (e *Engine) Counter() string {
	return fmt.Sprintf("%d/%d", e.index+1, len(e.questions))
}

// Excellent reports whether more than 70% of answers were correct.
func (e *Engine) Excellent() bool {
	if len(e.questions) == 0 {
		return false
	}
	return float64(e.score)/float64(len(e.questions)) > 0.7
}

// IsLast reports whether the current question is the final one.
func (e *Engine) IsLast() bool {
	return e.index >= len(e.questions)-1
}
