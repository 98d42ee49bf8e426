package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func signSchema() *Schema {
	return &Schema{
		Name:        "test-road-sign",
		Description: "A road sign with its meaning",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sign":     map[string]any{"type": "string"},
				"speed":    map[string]any{"type": "integer", "minimum": 0},
				"category": map[string]any{"type": "string", "enum": []any{"warning", "regulatory", "information"}},
				"aliases": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 1,
				},
			},
			"required": []any{"sign", "category"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"sign":"Stop","category":"regulatory","speed":0}`, false},
		{"valid without optional", `{"sign":"Bend ahead","category":"warning"}`, false},
		{"missing required", `{"sign":"Stop"}`, true},
		{"wrong type", `{"sign":"Limit","category":"regulatory","speed":"fifty"}`, true},
		{"enum violation", `{"sign":"Stop","category":"advisory"}`, true},
		{"negative minimum", `{"sign":"Limit","category":"regulatory","speed":-5}`, true},
		{"empty array under minItems", `{"sign":"Stop","category":"regulatory","aliases":[]}`, true},
		{"not JSON", `Stop means stop`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(signSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
			if string(invErr.Content) != tt.raw {
				t.Fatalf("expected offending content to be kept, got %s", invErr.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected nil error for nil schema, got: %v", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	s := signSchema()
	first, err := compileSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compileSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached compiled schema to be reused")
	}
}

func TestResponseText(t *testing.T) {
	r := &Response{Content: textContent("Use \"dipped\" lights\nin fog.")}
	if got := r.Text(); got != "Use \"dipped\" lights\nin fog." {
		t.Fatalf("Text() = %q", got)
	}

	raw := &Response{Content: json.RawMessage(`{"a":1}`)}
	if got := raw.Text(); got != `{"a":1}` {
		t.Fatalf("Text() on object = %q", got)
	}
}
