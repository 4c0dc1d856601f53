package llm

import (
	"context"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead
// of the text.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider replays scripted replies in order and records each request.
// Once the script runs out every call fails with ErrProviderUnavailable,
// which is what the "mock" provider setting gives an offline run.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	requests []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Text: next.Text, Usage: next.Usage, Model: m.ModelID(), StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// CallCount reports how many requests were made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
