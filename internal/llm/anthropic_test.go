package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func anthropicServer(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-sonnet-4-20250514"}
}

// messageReply answers with one Messages API reply holding the given
// content blocks.
func messageReply(stopReason string, blocks ...map[string]any) http.HandlerFunc {
	if blocks == nil {
		blocks = []map[string]any{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     blocks,
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func textBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

func anthropicFailure(status int, kind string, header http.Header) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": http.StatusText(status)},
		})
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var sent map[string]any
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		messageReply("end_turn", textBlock(`{"suggestions":`), textBlock(`[]}`))(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a career advisor.",
		Messages: []Message{{Role: RoleUser, Content: "Suggest three job roles."}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"suggestions":[]}` {
		t.Fatalf("expected text blocks to be joined, got %q", resp.Text)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if got, _ := sent["max_tokens"].(float64); int(got) != defaultAnthropicMaxTokens {
		t.Fatalf("expected max_tokens %d, got %v", defaultAnthropicMaxTokens, sent["max_tokens"])
	}
}

func TestAnthropicProvider_RateLimitHint(t *testing.T) {
	p := anthropicServer(t, anthropicFailure(http.StatusTooManyRequests, "rate_limit_error",
		http.Header{"Retry-After": []string{"7"}}))

	_, err := p.Generate(context.Background(), UserPrompt("test", nil))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("expected RetryAfter 7s from header, got %v", rl.RetryAfter)
	}
}

func TestAnthropicProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{"server error", anthropicFailure(http.StatusInternalServerError, "api_error", nil), func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
		{"overloaded", anthropicFailure(529, "overloaded_error", nil), func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e) && Retryable(err)
		}},
		{"bad key", anthropicFailure(http.StatusUnauthorized, "authentication_error", nil), func(err error) bool {
			var e *ErrAuthentication
			return errors.As(err, &e) && !Retryable(err)
		}},
		{"truncated", messageReply("max_tokens", textBlock(`{"mcqs":[`)), func(err error) bool {
			var e *ErrMaxTokensExceeded
			return errors.As(err, &e) && e.Text == `{"mcqs":[`
		}},
		{"refused", messageReply("refusal", textBlock("I can't help with that.")), func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
		{"no text blocks", messageReply("end_turn"), func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := anthropicServer(t, tt.handler)
			_, err := p.Generate(context.Background(), UserPrompt("assess Go", nil))
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
		})
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
	}
	for _, tt := range tests {
		p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-ant-test", Model: tt.model})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != tt.want {
			t.Errorf("model %q resolved to %q, want %q", tt.model, p.ModelID(), tt.want)
		}
	}

	if _, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
