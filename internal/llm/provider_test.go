package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kenroads/ntsabuddy/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"questions":[]}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockText("Keep left unless overtaking."),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"questions":[]}` {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text() != "Keep left unless overtaking." {
		t.Fatalf("unexpected text %q", resp2.Text())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockText("ok"))

	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	last, ok := mock.LastCall()
	if !ok || last.System != "sys" {
		t.Fatalf("expected system 'sys', got %q", last.System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if s := SessionFrom(ctx); s != "" {
		t.Fatalf("expected empty session, got %q", s)
	}

	ctx = WithSession(WithPurpose(ctx, PurposeQuiz), "abc")
	if p := PurposeFrom(ctx); p != PurposeQuiz {
		t.Fatalf("expected %q, got %q", PurposeQuiz, p)
	}
	if s := SessionFrom(ctx); s != "abc" {
		t.Fatalf("expected 'abc', got %q", s)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "gemini" {
		t.Fatalf("expected gemini, got %q", cfg.Provider)
	}
	if cfg.Gemini.Model != DefaultGeminiModel {
		t.Fatalf("expected %q, got %q", DefaultGeminiModel, cfg.Gemini.Model)
	}
	if cfg.HasKey() {
		t.Fatal("default config should carry no key")
	}
}

func TestConfig_Discover(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		provider string
		found    bool
	}{
		{"none", DefaultConfig(), "", false},
		{"gemini", Config{Gemini: GeminiConfig{APIKey: "g"}}, "gemini", true},
		{"gemini wins", Config{OpenAI: OpenAIConfig{APIKey: "o"}, Gemini: GeminiConfig{APIKey: "g"}}, "gemini", true},
		{"openai before anthropic", Config{Anthropic: AnthropicConfig{APIKey: "a"}, OpenAI: OpenAIConfig{APIKey: "o"}}, "openai", true},
		{"openrouter", Config{OpenRouter: OpenRouterConfig{APIKey: "r"}}, "openrouter", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := tt.cfg.Discover()
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if cfg.Provider != tt.provider {
				t.Fatalf("provider = %q, want %q", cfg.Provider, tt.provider)
			}
			if ok && cfg.Validate() != nil {
				t.Fatalf("discovered config should validate: %v", cfg.Validate())
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoggingProvider_RecordsEvent(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	mock := NewMockProvider(MockResponse{
		Content: textContent("Stop at the line."),
		Usage:   Usage{InputTokens: 7, OutputTokens: 4},
	})
	p := WithLogging(mock, s.EventRepo(), zap.New(core))

	ctx := WithSession(WithPurpose(context.Background(), PurposeChat), "sess-9")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "amber light?"}}}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Purpose != PurposeChat || e.SessionID != "sess-9" || e.Model != "mock" {
		t.Fatalf("unexpected event %+v", e.LLMRequestEventData)
	}
	if e.InputTokens != 7 || e.OutputTokens != 4 || !e.Success {
		t.Fatalf("unexpected usage %+v", e.LLMRequestEventData)
	}
	if logs.FilterMessage("model call").Len() != 1 {
		t.Fatalf("expected one debug line, got %d", logs.Len())
	}
}

// stallingProvider blocks until the request context ends.
type stallingProvider struct{}

func (stallingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stallingProvider) ModelID() string { return "stalling" }

func TestLoggingProvider_RecordsTimedOutCall(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	p := WithLogging(stallingProvider{}, s.EventRepo(), nil)

	ctx, cancel := context.WithTimeout(WithPurpose(context.Background(), PurposeNotes), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "roundabouts"}}}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the timed-out call to be recorded, got %d events", len(events))
	}
	e := events[0]
	if e.Success || e.Purpose != PurposeNotes || e.ErrorMessage == "" {
		t.Fatalf("unexpected event %+v", e.LLMRequestEventData)
	}
}

func TestLoggingProvider_NilRepoPassesThroughErrors(t *testing.T) {
	p := WithLogging(NewMockProvider(), nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock, got %q", p.ModelID())
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("mock should not be wrapped in retry, got %T", p)
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestSerializeRequest(t *testing.T) {
	got := serializeRequest(Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Schema:   &Schema{Name: "quiz", Definition: map[string]any{"type": "object"}},
	})
	want := "[system]\nbe brief\n\n[user]\nhi\n\n[schema: quiz]\n{\"type\":\"object\"}\n"
	if got != want {
		t.Fatalf("serializeRequest =\n%q\nwant\n%q", got, want)
	}
}
