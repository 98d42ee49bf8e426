package llm

import (
	"context"
	"encoding/json"
)

// Provider is implemented by every model backend and by the retry and
// logging decorators that wrap them.
type Provider interface {
	// Generate sends one request. With a Schema the backend is asked for
	// structured output and Content holds validated JSON. Without one,
	// Content holds the reply text encoded as a JSON string; use Text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system instruction.
	System string

	// Messages is the conversation so far, oldest first. Notes, search and
	// quiz calls carry a single user message; chat carries the transcript.
	Messages []Message

	// Schema requests structured JSON output when set.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero leaves the
	// provider default in place.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema in provider requests and in the compiled
	// schema cache. Kebab-case, e.g. "quiz-questions".
	Name string

	Description string

	// Definition is the JSON Schema document as nested maps.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Text returns an unstructured reply as plain text. Content that is not a
// JSON string is returned unchanged.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// textContent encodes a plain reply so that Content is always valid JSON.
func textContent(s string) json.RawMessage {
	b, err := json.Marshal(s)
	if err != nil {
		return json.RawMessage(`""`)
	}
	return b
}
