package llm

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/scenelingo/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()

	var calls []Call
	obs := ObserverFunc(func(c Call) { calls = append(calls, c) })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`["ok"]`), Usage: Usage{InputTokens: 12, OutputTokens: 8}},
	)
	p := WithLogging(mock, "mock", repo, obs)

	ctx := WithPurpose(context.Background(), PurposeVocabulary)
	req := Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "Generate 5 words"}},
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error from exhausted mock")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("newest event should be the failure: %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.OutputTokens != 8 {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if ok.Purpose != "vocabulary" || ok.Provider != "mock" {
		t.Errorf("labels = %q/%q", ok.Purpose, ok.Provider)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nbe brief") || !strings.Contains(ok.RequestBody, "Generate 5 words") {
		t.Errorf("request body = %q", ok.RequestBody)
	}
	if ok.ResponseBody != `["ok"]` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}

	if len(calls) != 2 || calls[0].Err != nil || calls[1].Err == nil {
		t.Errorf("observer calls = %+v", calls)
	}
}

func TestLoggingImageProvider_SummarizesBytes(t *testing.T) {
	st := openTestStore(t)
	repo := st.EventRepo()

	mock := NewMockImageProvider(MockImage{Image: &Image{MIMEType: "image/png", Data: make([]byte, 42), Model: "img-model"}})
	p := WithImageLogging(mock, "gemini", repo)

	ctx := WithPurpose(context.Background(), PurposeImage)
	if _, err := p.GenerateImage(ctx, ImageRequest{Prompt: "a subway car", AspectRatio: "4:3"}); err != nil {
		t.Fatalf("generate image: %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}
	ev := events[0]
	if ev.Purpose != "image" || ev.Model != "img-model" {
		t.Errorf("unexpected labels: %+v", ev.LLMRequestEventData)
	}
	if ev.ResponseBody != "[image image/png, 42 bytes]" {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
	if !strings.Contains(ev.RequestBody, "a subway car") || !strings.Contains(ev.RequestBody, "4:3") {
		t.Errorf("request body = %q", ev.RequestBody)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	called := false
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), "mock", nil,
		ObserverFunc(func(Call) { called = true }))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !called {
		t.Error("observer not notified")
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
}
