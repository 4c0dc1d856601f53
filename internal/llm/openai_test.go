package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// openAIServer starts a fake Chat Completions endpoint and returns a
// provider pointed at it.
func openAIServer(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newCompatibleProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
}

// chatReply answers with a single choice.
func chatReply(content, finishReason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func statusReply(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "test", "message": http.StatusText(status)},
		})
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var got map[string]any
	p := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		chatReply(`{"suggestions":[]}`, "stop")(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a career advisor.",
		Messages:  []Message{{Role: RoleUser, Content: "Suggest three job roles."}},
		MaxTokens: 256,
		Schema:    &Schema{Name: "career-plan", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"suggestions":[]}` {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.TotalTokens != 65 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("stop reason = %q, want %q", resp.StopReason, StopEnd)
	}

	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(msgs))
	}
	if first := msgs[0].(map[string]any); first["role"] != "system" {
		t.Fatalf("first message role = %v, want system", first["role"])
	}
	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v, want json_schema", got["response_format"])
	}
}

func TestOpenAIProvider_PassesThroughNonJSONText(t *testing.T) {
	p := openAIServer(t, chatReply("Sorry, I cannot help.", "stop"))

	resp, err := p.Generate(context.Background(), UserPrompt("plan", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Sorry, I cannot help." {
		t.Fatalf("expected raw text, got %q", resp.Text)
	}
}

func TestOpenAIProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{"rate limited", statusReply(http.StatusTooManyRequests), func(err error) bool {
			var e *ErrRateLimit
			return errors.As(err, &e)
		}},
		{"server error", statusReply(http.StatusInternalServerError), func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
		{"bad key", statusReply(http.StatusUnauthorized), func(err error) bool {
			var e *ErrAuthentication
			return errors.As(err, &e)
		}},
		{"truncated", chatReply(`{"suggest`, "length"), func(err error) bool {
			var e *ErrMaxTokensExceeded
			return errors.As(err, &e) && e.Text == `{"suggest`
		}},
		{"filtered", chatReply("", "content_filter"), func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
		{"blank", chatReply("  ", "stop"), func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"id": "x", "model": "gpt-4o-mini", "choices": []any{}})
		}, func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := openAIServer(t, tt.handler)
			_, err := p.Generate(context.Background(), UserPrompt("test", nil))
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: "https://proxy.example/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected 'gpt-4o', got %q", p.ModelID())
	}

	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name  string
		cfg   OpenRouterConfig
		model string
	}{
		{"default model", OpenRouterConfig{APIKey: "sk-or-test"}, defaultOpenRouterModel},
		{"vendor prefix kept", OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"}, "anthropic/claude-3-haiku"},
		{"friendly names not mapped", OpenRouterConfig{APIKey: "sk-or-test", Model: "gpt-4o-mini"}, "gpt-4o-mini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ModelID() != tt.model {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.model)
			}
		})
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: defaultOpenRouterModel}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
