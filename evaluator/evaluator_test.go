/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evaluator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/mcqqc/evaluator"
	"chainguard.dev/mcqqc/evaluator/retry"
	"github.com/google/go-cmp/cmp"
)

// messagesRequest mirrors the fields of an Anthropic Messages API request we assert on.
type messagesRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func fakeAnthropic(t *testing.T, handler func(w http.ResponseWriter, req messagesRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusNotFound)
			return
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			http.Error(w, "bad api key "+got, http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Anthropic-Version") == "" {
			http.Error(w, "missing version header", http.StatusBadRequest)
			return
		}
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeMessage(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       evaluator.DefaultModel,
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"usage":       map[string]any{"input_tokens": 12, "output_tokens": 7},
	})
}

func newClaude(t *testing.T, url string, opts ...evaluator.Option) evaluator.Interface {
	t.Helper()
	opts = append([]evaluator.Option{
		evaluator.WithAPIKey("test-key"),
		evaluator.WithBaseURL(url),
	}, opts...)
	ev, err := evaluator.New(context.Background(), evaluator.DefaultModel, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return ev
}

func TestClaude_Evaluate(t *testing.T) {
	t.Parallel()
	const reply = `{"score": 1, "rationale": "clear", "feedback": "none"}`

	var got messagesRequest
	srv := fakeAnthropic(t, func(w http.ResponseWriter, req messagesRequest) {
		got = req
		writeMessage(w, reply)
	})

	text, err := newClaude(t, srv.URL).Evaluate(context.Background(), "rate this question")
	if err != nil {
		t.Fatalf("Evaluate() = %v", err)
	}
	if text != reply {
		t.Errorf("text: got %q, want %q", text, reply)
	}

	if got.Model != evaluator.DefaultModel {
		t.Errorf("model: got %q, want %q", got.Model, evaluator.DefaultModel)
	}
	if got.MaxTokens != evaluator.DefaultMaxTokens {
		t.Errorf("max_tokens: got %d, want %d", got.MaxTokens, evaluator.DefaultMaxTokens)
	}
	if got.Temperature != evaluator.DefaultTemperature {
		t.Errorf("temperature: got %v, want %v", got.Temperature, evaluator.DefaultTemperature)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("messages: got %+v, want a single user message", got.Messages)
	}
	if diff := cmp.Diff("rate this question", got.Messages[0].Content[0].Text); diff != "" {
		t.Errorf("prompt mismatch (-want +got):\n%s", diff)
	}
}

func TestClaude_FailuresWrapSentinel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, req messagesRequest)
	}{{
		name: "server error",
		handler: func(w http.ResponseWriter, _ messagesRequest) {
			http.Error(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`, http.StatusInternalServerError)
		},
	}, {
		name: "malformed envelope",
		handler: func(w http.ResponseWriter, _ messagesRequest) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content": "not-an-array"`))
		},
	}, {
		name: "empty text",
		handler: func(w http.ResponseWriter, _ messagesRequest) {
			writeMessage(w, "   ")
		},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := fakeAnthropic(t, tt.handler)
			text, err := newClaude(t, srv.URL).Evaluate(context.Background(), "prompt")
			if !errors.Is(err, evaluator.ErrNoVerdict) {
				t.Fatalf("expected ErrNoVerdict, got %v", err)
			}
			if text != "" {
				t.Errorf("expected empty text, got %q", text)
			}
		})
	}
}

func TestClaude_NoRetryByDefault(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := fakeAnthropic(t, func(w http.ResponseWriter, _ messagesRequest) {
		calls.Add(1)
		http.Error(w, `{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`, 529)
	})

	if _, err := newClaude(t, srv.URL).Evaluate(context.Background(), "prompt"); !errors.Is(err, evaluator.ErrNoVerdict) {
		t.Fatalf("expected ErrNoVerdict, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one exchange, got %d", n)
	}
}

func TestClaude_RetriesWhenConfigured(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := fakeAnthropic(t, func(w http.ResponseWriter, _ messagesRequest) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, http.StatusTooManyRequests)
			return
		}
		writeMessage(w, "ok")
	})

	ev := newClaude(t, srv.URL, evaluator.WithRetryConfig(retry.Config{
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  time.Millisecond,
	}))
	text, err := ev.Evaluate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Evaluate() = %v", err)
	}
	if text != "ok" {
		t.Errorf("text: got %q, want %q", text, "ok")
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 exchanges, got %d", n)
	}
}

func TestClaude_Timeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := fakeAnthropic(t, func(w http.ResponseWriter, _ messagesRequest) {
		<-release
		writeMessage(w, "late")
	})
	defer close(release)

	_, err := newClaude(t, srv.URL, evaluator.WithTimeout(20*time.Millisecond)).Evaluate(context.Background(), "prompt")
	if !errors.Is(err, evaluator.ErrNoVerdict) {
		t.Fatalf("expected ErrNoVerdict, got %v", err)
	}
}

func TestOpenAI_Evaluate(t *testing.T) {
	t.Parallel()
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"score\":0}"}}],
			"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`)
	}))
	t.Cleanup(srv.Close)

	ev, err := evaluator.New(context.Background(), "gpt-4o",
		evaluator.WithAPIKey("test-key"),
		evaluator.WithBaseURL(srv.URL),
		evaluator.WithMaxTokens(1024),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	text, err := ev.Evaluate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Evaluate() = %v", err)
	}
	if text != `{"score":0}` {
		t.Errorf("text: got %q", text)
	}
	if gotBody["model"] != "gpt-4o" {
		t.Errorf("model: got %v", gotBody["model"])
	}
	if gotBody["max_completion_tokens"] != float64(1024) {
		t.Errorf("max_completion_tokens: got %v", gotBody["max_completion_tokens"])
	}
	if gotBody["temperature"] != evaluator.DefaultTemperature {
		t.Errorf("temperature: got %v", gotBody["temperature"])
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		model string
		opts  []evaluator.Option
	}{
		{name: "unknown model", model: "llama-3"},
		{name: "zero max tokens", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithMaxTokens(0)}},
		{name: "too many max tokens", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithMaxTokens(64000)}},
		{name: "temperature above range", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithTemperature(1.5)}},
		{name: "temperature below range", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithTemperature(-0.1)}},
		{name: "negative timeout", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithTimeout(-time.Second)}},
		{name: "bad base url", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithBaseURL("ftp://example.com")}},
		{name: "bad retry config", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithRetryConfig(retry.Config{MaxRetries: -1})}},
		{name: "nil http client", model: evaluator.DefaultModel, opts: []evaluator.Option{evaluator.WithHTTPClient(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := evaluator.New(context.Background(), tt.model, tt.opts...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
