// ABOUTME: Tests for the OpenAI client against a fake API server
// ABOUTME: Covers outcome classification, request shape, and batched embeddings
package llm

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
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	return client
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": msg, "type": "error"},
	})
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("NewOpenAIClient(\"\") error = nil, want error")
	}
}

func TestComplete_Success(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("  The window is 30 days.\n\nSources: doc.txt#chunk0  "))
	})

	out := client.Complete(context.Background(), Request{
		System:      "system rules",
		User:        "QUESTION:\nq\n\nCONTEXT:\nc\n",
		Temperature: 0.2,
		Timeout:     time.Second,
	})
	if out.Kind != OK {
		t.Fatalf("Kind = %v, want ok (err %v)", out.Kind, out.Err)
	}
	if out.Text != "The window is 30 days.\n\nSources: doc.txt#chunk0" {
		t.Errorf("Text = %q", out.Text)
	}

	if got["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", got["model"])
	}
	if temp, _ := got["temperature"].(float64); fmt.Sprintf("%.1f", temp) != "0.2" {
		t.Errorf("temperature = %v, want 0.2", got["temperature"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want system + user", got["messages"])
	}
	if m := msgs[0].(map[string]any); m["role"] != "system" || m["content"] != "system rules" {
		t.Errorf("system message = %v", m)
	}
	if m := msgs[1].(map[string]any); m["role"] != "user" {
		t.Errorf("user message = %v", m)
	}
}

func TestComplete_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{"rate limited", http.StatusTooManyRequests, RateLimited},
		{"bad key", http.StatusUnauthorized, AuthFailed},
		{"forbidden", http.StatusForbidden, AuthFailed},
		{"server error", http.StatusInternalServerError, Unexpected},
		{"bad request", http.StatusBadRequest, Unexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeAPIError(w, tt.status, "nope")
			})

			out := client.Complete(context.Background(), Request{System: "s", User: "u"})
			if out.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", out.Kind, tt.want)
			}
			if out.Err == nil {
				t.Error("Err = nil for failed outcome")
			}
			if out.Text != "" {
				t.Errorf("Text = %q, want empty", out.Text)
			}
			if calls.Load() != 1 {
				t.Errorf("server called %d times, want exactly 1 (no retries)", calls.Load())
			}
		})
	}
}

func TestComplete_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	out := client.Complete(context.Background(), Request{System: "s", User: "u", Timeout: 50 * time.Millisecond})
	if out.Kind != Timeout {
		t.Errorf("Kind = %v, want timeout (err %v)", out.Kind, out.Err)
	}
}

func TestComplete_ConnectionFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := NewOpenAIClientWithConfig(&ClientConfig{APIKey: "k", BaseURL: base + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	out := client.Complete(context.Background(), Request{System: "s", User: "u", Timeout: time.Second})
	if out.Kind != ConnectionFailed {
		t.Errorf("Kind = %v, want connection_failed (err %v)", out.Kind, out.Err)
	}
}

func TestComplete_EmptyContentIsUnexpected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("   "))
	})
	if out := client.Complete(context.Background(), Request{}); out.Kind != Unexpected {
		t.Errorf("Kind = %v, want unexpected", out.Kind)
	}
}

func TestEmbed_Batched(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != DefaultEmbeddingModel {
			t.Errorf("model = %q", req.Model)
		}
		// answer in reverse order to check Index handling
		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object": "embedding", "index": i, "embedding": []float32{float32(len(req.Input[i])), 0.5},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": req.Model})
	})

	texts := make([]string, embedBatchSize+3)
	for i := range texts {
		texts[i] = fmt.Sprintf("%0*d", i%7+1, 0)
	}

	vecs, err := client.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("Embed() returned %d vectors, want %d", len(vecs), len(texts))
	}
	for i, v := range vecs {
		if int(v[0]) != len(texts[i]) {
			t.Fatalf("vector %d out of order: %v", i, v)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2 batches", calls.Load())
	}
	if client.Model() != DefaultEmbeddingModel {
		t.Errorf("Model() = %q", client.Model())
	}
}

func TestEmbed_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeAPIError(w, http.StatusTooManyRequests, "slow down")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{1}}},
		})
	})

	vecs, err := client.Embed(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vecs) != 1 || calls.Load() != 2 {
		t.Errorf("vecs = %v after %d calls", vecs, calls.Load())
	}
}

func TestEmbed_AuthFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeAPIError(w, http.StatusUnauthorized, "bad key")
	})

	if _, err := client.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatal("Embed() error = nil, want auth failure")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, OK},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), Timeout},
		{"plain", errors.New("boom"), Unexpected},
		{"canceled", context.Canceled, Unexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestKind_Transient(t *testing.T) {
	for _, k := range []Kind{RateLimited, AuthFailed, Timeout, ConnectionFailed} {
		if !k.Transient() {
			t.Errorf("%v.Transient() = false", k)
		}
	}
	for _, k := range []Kind{OK, Unexpected} {
		if k.Transient() {
			t.Errorf("%v.Transient() = true", k)
		}
	}
}
