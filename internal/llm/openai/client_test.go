package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-builder/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() {
		apiURL = oldURL
		server.Close()
	})
}

func TestGeneratePlainText(t *testing.T) {
	var payload map[string]any
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Experienced engineer.  "}}]}`))
	})

	client, err := NewClient("test-key", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resp, err := client.Generate(context.Background(), llm.Request{Prompt: "summary please", Model: "mistralai/Mistral", MaxTokens: 120})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.GeneratedText != "Experienced engineer." || resp.Source != llm.SourceOpenAI {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if payload["model"] != defaultModel {
		t.Fatalf("expected default model, got %v", payload["model"])
	}
	if payload["max_tokens"] != float64(120) {
		t.Fatalf("unexpected max_tokens: %v", payload["max_tokens"])
	}
	if _, ok := payload["response_format"]; ok {
		t.Fatalf("plain-text mode must not set response_format")
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	client, err := NewClient("test-key", "gpt-5-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Generate(context.Background(), llm.Request{Prompt: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}
