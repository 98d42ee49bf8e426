package llm

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema_QuizShape(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
							"maxItems": 4,
						},
						"correctAnswerIndex": map[string]any{"type": "integer"},
						"level":              map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
					},
					"required": []any{"question", "options", "correctAnswerIndex"},
				},
			},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	questions := schema.Properties["questions"]
	if questions == nil || questions.Type != genai.TypeArray {
		t.Fatalf("expected questions ARRAY, got %+v", questions)
	}
	if questions.MinItems == nil || *questions.MinItems != 1 {
		t.Fatalf("expected minItems 1 on questions, got %v", questions.MinItems)
	}

	item := questions.Items
	if item == nil || len(item.Properties) != 4 {
		t.Fatalf("expected item with 4 properties, got %+v", item)
	}
	if len(item.Required) != 3 {
		t.Fatalf("expected 3 required fields, got %d", len(item.Required))
	}
	opts := item.Properties["options"]
	if opts.MinItems == nil || *opts.MinItems != 2 || opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Fatalf("options bounds not carried over: %+v", opts)
	}
	if item.Properties["correctAnswerIndex"].Type != genai.TypeInteger {
		t.Fatalf("expected INTEGER for correctAnswerIndex")
	}
	if len(item.Properties["level"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(item.Properties["level"].Enum))
	}
}

func TestBuildGeminiContents_MapsAssistantToModel(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleAssistant, Content: "Jambo!"},
		{Role: RoleUser, Content: "What is a zebra crossing?"},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "model" || contents[1].Role != "user" {
		t.Fatalf("unexpected roles: %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "What is a zebra crossing?" {
		t.Fatalf("unexpected text: %q", contents[1].Parts[0].Text)
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if err := mapGeminiError(genai.APIError{Code: http.StatusTooManyRequests}); !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}

	var unavail *ErrProviderUnavailable
	if err := mapGeminiError(genai.APIError{Code: http.StatusBadGateway}); !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
	if err := mapGeminiError(errors.New("dial tcp: timeout")); !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}
