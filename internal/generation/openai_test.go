package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// chatCompletionBody はChat Completions APIの最小限の応答を生成する。
func chatCompletionBody(content string) string {
	body := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gemini-2.5-flash",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func newTestProvider(serverURL, apiKey string) *OpenAIProvider {
	return NewOpenAIProvider(OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: serverURL + "/",
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	})
}

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	var gotModel, gotPrompt, gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody("  Fresh caption ✨  \n")))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "test-key")
	result := p.Generate(context.Background(), "Write something")

	if result.Failed() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if result.Text != "Fresh caption ✨" {
		t.Errorf("Text = %q, want trimmed content", result.Text)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "gemini-2.5-flash" {
		t.Errorf("model = %q", gotModel)
	}
	if gotPrompt != "Write something" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestOpenAIProvider_Generate_ServerError_NoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "test-key")
	result := p.Generate(context.Background(), "Write something")

	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if result.Err.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", result.Err.Model)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", got)
	}
}

func TestOpenAIProvider_Generate_EmptyResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"choicesなし", `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`},
		{"空のcontent", chatCompletionBody("   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result := newTestProvider(server.URL, "test-key").Generate(context.Background(), "p")
			if !result.Failed() {
				t.Fatalf("expected failure, got %q", result.Text)
			}
		})
	}
}

func TestOpenAIProvider_Generate_NotConfigured(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	result := newTestProvider(server.URL, "").Generate(context.Background(), "p")

	if !result.Failed() {
		t.Fatal("expected failure without API key")
	}
	if !errors.Is(result.Err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", result.Err)
	}
	if called {
		t.Error("remote API should not be called without API key")
	}
}

func TestOpenAIProvider_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	p := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/",
		Model:   "gemini-2.5-flash",
		Timeout: 50 * time.Millisecond,
	})

	result := p.Generate(context.Background(), "p")
	if !result.Failed() {
		t.Fatal("expected timeout failure")
	}
}
