package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).Level(zerolog.Disabled)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "sk-test"}, testLogger())

	if client.cfg.Model != DefaultModel {
		t.Errorf("expected default model %s, got %s", DefaultModel, client.cfg.Model)
	}
	if client.cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, client.cfg.Timeout)
	}
	if !client.Configured() {
		t.Error("expected client with key to be configured")
	}
}

func TestNewClient_NoKey(t *testing.T) {
	client := NewClient(Config{}, testLogger())

	if client.Configured() {
		t.Error("expected client without key to be unconfigured")
	}
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi"}); err == nil {
		t.Error("expected error from Complete without key")
	}
}

func TestComplete_ReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header: %s", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		messages, _ := body["messages"].([]any)
		if len(messages) != 2 {
			t.Errorf("expected system + user messages, got %d", len(messages))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
	out, err := client.Complete(context.Background(), CompletionRequest{
		System:      "you are terse",
		Prompt:      "say hello",
		Temperature: 0.2,
		MaxTokens:   64,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello there" {
		t.Errorf("expected 'hello there', got '%s'", out)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, testLogger())
	if _, err := client.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("expected timeout error")
	}
}
