package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_Attempts(t *testing.T) {
	down := func() MockResponse { return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}} }
	bad := func() MockResponse { return MockResponse{Err: &ErrInvalidResponse{Text: "bad", Err: errors.New("bad")}} }
	ok := MockResponse{Text: `{"ok":true}`}

	tests := []struct {
		name    string
		cfg     RetryConfig
		script  []MockResponse
		calls   int
		wantErr bool
	}{
		{"first attempt succeeds", retryConfig(), []MockResponse{ok}, 1, false},
		{"transient then success", retryConfig(), []MockResponse{down(), ok}, 2, false},
		{"every attempt fails", retryConfig(), []MockResponse{down(), down(), down(), ok}, 3, true},
		{"truncation is final", retryConfig(), []MockResponse{{Err: &ErrMaxTokensExceeded{Text: "{}"}}, ok}, 1, true},
		{"rejected key is final", retryConfig(), []MockResponse{{Err: &ErrAuthentication{Err: errors.New("401")}}, ok}, 1, true},
		{"unusable reply retried once", retryConfig(), []MockResponse{bad(), bad(), ok}, 2, true},
		{"rate limit waits for hint", retryConfig(), []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, 2, false},
		{"default config never retries", DefaultConfig().Retry, []MockResponse{down(), ok}, 1, true},
		{"zero attempts still calls once", RetryConfig{}, []MockResponse{ok}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, tt.cfg, nil).Generate(context.Background(), Request{})
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && resp.Text != ok.Text {
				t.Fatalf("unexpected text: %s", resp.Text)
			}
			if mock.CallCount() != tt.calls {
				t.Fatalf("expected %d calls, got %d", tt.calls, mock.CallCount())
			}
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Text: `{"ok":true}`},
	)
	p := WithRetry(mock, retryConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	_, err := p.Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	mock := NewMockProvider()
	p := WithRetry(mock, retryConfig(), nil)
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestRetry_LogsEachRetry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Text: `{}`},
	)
	p := WithRetry(mock, retryConfig(), zap.New(core))

	ctx := WithPurpose(context.Background(), "assessment")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("retrying llm request").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 retry log entries, got %d", len(entries))
	}
	fields := entries[1].ContextMap()
	if fields["purpose"] != "assessment" || fields["attempt"] != int64(2) {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestRetry_Delay(t *testing.T) {
	r := &RetryProvider{
		config: RetryConfig{MaxAttempts: 5, InitialWait: time.Second, MaxWait: 3 * time.Second, Multiplier: 2},
		jitter: func() float64 { return 0.5 }, // no jitter
	}

	tests := []struct {
		attempt int
		err     error
		want    time.Duration
	}{
		{1, errors.New("x"), time.Second},
		{2, errors.New("x"), 2 * time.Second},
		{3, errors.New("x"), 3 * time.Second}, // capped
		{1, &ErrRateLimit{RetryAfter: 7 * time.Second}, 7 * time.Second},
		{2, &ErrRateLimit{}, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := r.delay(tt.attempt, tt.err); got != tt.want {
			t.Fatalf("delay(%d, %v) = %v, want %v", tt.attempt, tt.err, got, tt.want)
		}
	}

	r.jitter = func() float64 { return 0 }
	if got := r.delay(1, errors.New("x")); got != 800*time.Millisecond {
		t.Fatalf("low jitter delay = %v, want 800ms", got)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("connection reset"), true},
		{&ErrRateLimit{}, true},
		{&ErrProviderUnavailable{}, true},
		{&ErrInvalidResponse{Err: errors.New("no choices")}, true},
		{&ErrMaxTokensExceeded{}, false},
		{&ErrAuthentication{}, false},
		{context.Canceled, false},
		{fmt.Errorf("send: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Fatalf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
