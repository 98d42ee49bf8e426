package quiz

import (
	"context"
	"fmt"
)

// Difficulty selects how demanding generated questions are.
type Difficulty string

const (
	Easy Difficulty = "easy"
	Hard Difficulty = "hard"
)

// ParseDifficulty accepts "easy" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy or hard)", s)
}

// Question is one multiple-choice item. Field names match the JSON the
// question generator produces.
type Question struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// Valid reports whether q has a prompt, at least two options and a correct
// index that points at one of them.
func (q Question) Valid() bool {
	return q.Question != "" &&
		len(q.Options) >= 2 &&
		q.CorrectAnswerIndex >= 0 &&
		q.CorrectAnswerIndex < len(q.Options)
}

// QuestionProvider produces quiz questions for a subject. It never fails;
// an empty slice means nothing could be generated.
type QuestionProvider interface {
	GenerateQuestions(ctx context.Context, subject string, difficulty Difficulty) []Question
}

// Request is an outstanding question fetch started by Engine.Start.
type Request struct {
	Ticket     uint64
	Subject    string
	Difficulty Difficulty
}

// Result carries fetched questions back to the engine.
type Result struct {
	Ticket    uint64
	Questions []Question
}

// Fetch calls the provider. It is safe to run off the UI goroutine.
func (r Request) Fetch(ctx context.Context, p QuestionProvider) Result {
	return Result{
		Ticket:    r.Ticket,
		Questions: p.GenerateQuestions(ctx, r.Subject, r.Difficulty),
	}
}
