package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func appendEvent(t *testing.T, repo EventRepo, data LLMRequestEventData) {
	t.Helper()
	if err := repo.AppendLLMRequest(context.Background(), data); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='llm_request_events'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if name != llmEventsTable {
		t.Errorf("table name = %q, want %q", name, llmEventsTable)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	appendEvent(t, s.EventRepo(), LLMRequestEventData{Purpose: "notes", Model: "gemini-2.5-flash", Success: true})
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestAppendAndGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	appendEvent(t, repo, LLMRequestEventData{
		SessionID:    "sess-1",
		Provider:     "gemini-2.5-flash",
		Model:        "gemini-2.5-flash",
		Purpose:      "quiz-gen",
		InputTokens:  120,
		OutputTokens: 340,
		LatencyMs:    850,
		Success:      true,
		RequestBody:  "[user]\nGenerate 5 easy questions",
		ResponseBody: `{"questions":[]}`,
	})

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event, got nil")
	}
	if got.SessionID != "sess-1" || got.Purpose != "quiz-gen" {
		t.Errorf("unexpected event: %+v", got.LLMRequestEventData)
	}
	if got.InputTokens != 120 || got.OutputTokens != 340 || got.LatencyMs != 850 {
		t.Errorf("token/latency mismatch: %+v", got.LLMRequestEventData)
	}
	if !got.Success {
		t.Error("expected success")
	}
	if got.ResponseBody != `{"questions":[]}` {
		t.Errorf("response body = %q", got.ResponseBody)
	}
	if got.Timestamp.Before(before) {
		t.Errorf("timestamp %v before %v", got.Timestamp, before)
	}
}

func TestGetLLMEventMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.EventRepo().GetLLMEvent(context.Background(), 999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestQueryLLMEventsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEvent(t, repo, LLMRequestEventData{SessionID: "a", Purpose: "notes", Success: true})
	appendEvent(t, repo, LLMRequestEventData{SessionID: "a", Purpose: "chat", Success: true})
	appendEvent(t, repo, LLMRequestEventData{SessionID: "b", Purpose: "chat", Success: false, ErrorMessage: "boom"})

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
	if all[0].Sequence < all[1].Sequence {
		t.Error("expected newest first")
	}

	tests := []struct {
		name string
		opts QueryOpts
		want int
	}{
		{"purpose", QueryOpts{Purpose: "chat"}, 2},
		{"session", QueryOpts{SessionID: "a"}, 2},
		{"purpose and session", QueryOpts{Purpose: "chat", SessionID: "b"}, 1},
		{"after", QueryOpts{After: all[1].Sequence}, 1},
		{"before", QueryOpts{Before: all[1].Sequence}, 1},
		{"limit", QueryOpts{Limit: 2}, 2},
		{"future", QueryOpts{From: time.Now().Add(time.Hour)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.QueryLLMEvents(ctx, tt.opts)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEvent(t, repo, LLMRequestEventData{Model: "gemini-2.5-flash", Purpose: "chat", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true})
	appendEvent(t, repo, LLMRequestEventData{Model: "gemini-2.5-flash", Purpose: "chat", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true})
	appendEvent(t, repo, LLMRequestEventData{Model: "gemini-2.5-flash", Purpose: "notes", InputTokens: 5, OutputTokens: 500, LatencyMs: 900, Success: true})
	appendEvent(t, repo, LLMRequestEventData{Model: "gpt-4.1-mini", Purpose: "notes", Success: false})

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	chat := byPurpose[0]
	if chat.Purpose != "chat" || chat.Calls != 2 || chat.InputTokens != 40 || chat.OutputTokens != 60 || chat.AvgLatencyMs != 200 {
		t.Errorf("unexpected chat usage: %+v", chat)
	}
	if byPurpose[1].Calls != 2 {
		t.Errorf("notes calls = %d, want 2", byPurpose[1].Calls)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 1 {
		t.Fatalf("models = %d, want 1 (failed calls excluded)", len(byModel))
	}
	if byModel[0].Calls != 3 || byModel[0].OutputTokens != 560 {
		t.Errorf("unexpected model usage: %+v", byModel[0])
	}
}

func TestDefaultDBPathHonoursEnv(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("NTSABUDDY_DB", filepath.Join(dir, "nested", "x.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "nested", "x.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("NTSABUDDY_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "ntsabuddy", "ntsabuddy.db") {
		t.Errorf("path = %q", p)
	}
}
