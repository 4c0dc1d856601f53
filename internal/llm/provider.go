package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider is the transport to a generative text service.
// Implementations send one request and hand back the model's text without
// interpreting it; checking the text against the request schema is the
// caller's job.
type Provider interface {
	// Generate sends the request and returns the model's reply.
	// When req.Schema is set the provider asks for JSON through its native
	// structured output mechanism, but does not validate what comes back.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. careerpilot always sends a single
	// user message.
	Messages []Message

	// Schema is the JSON Schema the reply should conform to.
	Schema *Schema

	// MaxTokens caps the reply length. Zero leaves the provider default.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds the single-turn request careerpilot sends for every
// operation.
func UserPrompt(prompt string, schema *Schema) Request {
	return Request{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		Schema:   schema,
	}
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name for
	// OpenAI). Kebab-case, e.g. "career-plan".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Text is the reply exactly as the service produced it.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is one of the Stop* constants.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopBlocked   = "blocked" // refused by a safety filter
)

// finish turns replies that arrived but cannot be used into errors, so
// every provider reports truncation and refusals the same way.
func finish(resp *Response) (*Response, error) {
	switch {
	case resp.StopReason == StopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Text: resp.Text}
	case resp.StopReason == StopBlocked:
		return nil, &ErrInvalidResponse{Text: resp.Text, Err: errors.New("reply blocked by safety filter")}
	case strings.TrimSpace(resp.Text) == "":
		return nil, &ErrInvalidResponse{Err: errors.New("empty reply")}
	}
	return resp, nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
