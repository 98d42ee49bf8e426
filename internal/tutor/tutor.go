// Package tutor turns study operations into model calls. Service reports
// failures as errors; Fallback maps them to the fixed display strings the
// study session expects.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kenroads/ntsabuddy/internal/chat"
	"github.com/kenroads/ntsabuddy/internal/llm"
	"github.com/kenroads/ntsabuddy/internal/quiz"
)

// Tutor is the fallible content boundary. An empty string or slice with a
// nil error means the model answered with nothing.
type Tutor interface {
	Notes(ctx context.Context, topicTitle string) (string, error)
	Search(ctx context.Context, query string) (string, error)
	Questions(ctx context.Context, subject string, d quiz.Difficulty) ([]quiz.Question, error)
	Reply(ctx context.Context, message string, history []chat.Message) (string, error)
}

// Service implements Tutor on an llm.Provider.
type Service struct {
	provider llm.Provider
	config   Config
}

// New creates a Service with the given provider and config.
func New(provider llm.Provider, cfg Config) *Service {
	if cfg.Questions < 1 {
		cfg.Questions = DefaultConfig().Questions
	}
	return &Service{provider: provider, config: cfg}
}

type quizOutput struct {
	Questions []quiz.Question `json:"questions"`
}

func (s *Service) Notes(ctx context.Context, topicTitle string) (string, error) {
	return s.prose(llm.WithPurpose(ctx, llm.PurposeNotes), llm.Request{
		System:   notesSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: notesPrompt(topicTitle)}},
	})
}

func (s *Service) Search(ctx context.Context, query string) (string, error) {
	return s.prose(llm.WithPurpose(ctx, llm.PurposeSearch), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: searchPrompt(query)}},
	})
}

// Questions asks for Config.Questions items and drops any the model got
// structurally wrong, such as an answer index outside the options.
func (s *Service) Questions(ctx context.Context, subject string, d quiz.Difficulty) ([]quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: quizPrompt(subject, d, s.config.Questions)},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}

	questions := make([]quiz.Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		if q.Valid() {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// Reply continues the conversation. history is everything before message;
// turns ahead of the first user turn, such as the greeting, are not sent
// because some providers require the user to speak first.
func (s *Service) Reply(ctx context.Context, message string, history []chat.Message) (string, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == chat.RoleModel {
			role = llm.RoleAssistant
		}
		if len(msgs) == 0 && role != llm.RoleUser {
			continue
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	return s.prose(llm.WithPurpose(ctx, llm.PurposeChat), llm.Request{
		System:   chatSystemPrompt,
		Messages: msgs,
	})
}

func (s *Service) prose(ctx context.Context, req llm.Request) (string, error) {
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s call failed: %w", llm.PurposeFrom(ctx), err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
