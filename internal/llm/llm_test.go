package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGroqGenerateContent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Expected bearer key, got %q", got)
			}
			var body struct {
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) != 1 || body.Messages[0].Content != "advise me" {
				t.Errorf("Unexpected request body %+v (%v)", body, err)
			}
			fmt.Fprintln(w, `{"model": "llama-test", "choices": [{"message": {"content": "{\"tip\": \"drink water\"}"}}], "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}}`)
		}))
		defer server.Close()

		resp, err := newGroqClient("test-key", server.URL).GenerateContent(context.Background(), "advise me")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if resp.Content != `{"tip": "drink water"}` {
			t.Errorf("Unexpected content %q", resp.Content)
		}
		if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 8 || resp.Usage.Model != "llama-test" {
			t.Errorf("Unexpected usage %+v", resp.Usage)
		}
	})

	t.Run("APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		if _, err := newGroqClient("k", server.URL).GenerateContent(context.Background(), "x"); err == nil {
			t.Fatal("Expected an error for status 429, got nil")
		}
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{"choices": []}`)
		}))
		defer server.Close()

		_, err := newGroqClient("k", server.URL).GenerateContent(context.Background(), "x")
		if !errors.Is(err, ErrNoContent) {
			t.Fatalf("Expected ErrNoContent, got %v", err)
		}
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain", `{"a":1}`, `{"a":1}`},
		{"Fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Chatter", "Sure! Here it is: {\"a\":{\"b\":2}} Enjoy", `{"a":{"b":2}}`},
		{"Multiline", "{\n  \"a\": 1\n}", "{\n  \"a\": 1\n}"},
		{"NoObject", "no json here", "no json here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
