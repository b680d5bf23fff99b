package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/scenelingo/internal/llm"
)

func TestObserveLLMCall(t *testing.T) {
	m := New()

	m.ObserveLLMCall(llm.Call{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		Purpose:  llm.PurposeVocabulary,
		Latency:  1200 * time.Millisecond,
		Usage:    llm.Usage{InputTokens: 40, OutputTokens: 160},
	})
	m.ObserveLLMCall(llm.Call{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		Purpose:  llm.PurposeVocabulary,
		Err:      &llm.ErrRateLimit{Err: errors.New("429")},
	})

	if got := testutil.ToFloat64(m.llmRequests.WithLabelValues("gemini", "gemini-2.5-flash", "vocabulary", "ok")); got != 1 {
		t.Errorf("ok requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.llmRequests.WithLabelValues("gemini", "gemini-2.5-flash", "vocabulary", "rate_limit")); got != 1 {
		t.Errorf("rate-limited requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.llmTokens.WithLabelValues("gemini", "output")); got != 160 {
		t.Errorf("output tokens = %v, want 160", got)
	}
	if n := testutil.CollectAndCount(m.llmLatency); n != 1 {
		t.Errorf("latency series = %d, want 1", n)
	}
}

func TestSessionAndProgress(t *testing.T) {
	m := New()

	m.SessionStarted(false)
	m.SessionStarted(true)
	m.SessionCompleted(5)
	m.SessionCancelled()
	m.CheckIn("credited")
	m.StaleImage()
	m.SetProgress(3, 120)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"start", testutil.ToFloat64(m.sessions.WithLabelValues("start")), 2},
		{"fallback", testutil.ToFloat64(m.sessions.WithLabelValues("fallback")), 1},
		{"complete", testutil.ToFloat64(m.sessions.WithLabelValues("complete")), 1},
		{"cancel", testutil.ToFloat64(m.sessions.WithLabelValues("cancel")), 1},
		{"words", testutil.ToFloat64(m.words), 5},
		{"checkins", testutil.ToFloat64(m.checkIns.WithLabelValues("credited")), 1},
		{"stale", testutil.ToFloat64(m.staleImages), 1},
		{"streak", testutil.ToFloat64(m.streak), 3},
		{"points", testutil.ToFloat64(m.points), 120},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestServer_ServesRegistry(t *testing.T) {
	m := New()
	m.SetProgress(7, 700)

	srv := NewServer("127.0.0.1:0", m)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "scenelingo_streak_days 7") {
		t.Errorf("streak gauge missing from scrape:\n%s", body)
	}
}

func TestServer_BindError(t *testing.T) {
	srv := NewServer("127.0.0.1:-1", New())
	if err := srv.Start(); err == nil {
		t.Fatal("expected bind error")
	}
	if err := srv.Shutdown(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("shutdown of unstarted server: %v", err)
	}
}
