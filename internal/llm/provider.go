package llm

import (
	"context"
	"encoding/json"
)

// Provider generates model completions. Each implementation wraps one
// vendor SDK; decorators layer retry and usage logging on top.
type Provider interface {
	// Generate runs one completion. With req.Schema set the reply is
	// schema-validated JSON; without it, raw text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model.
	ModelID() string
}

// Role says who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Request describes a single completion call. The tutor sends the whole
// stored thread in Messages; hint generation sends one user message.
type Request struct {
	// System sets the model's role and constraints.
	System string

	Messages []Message

	// Schema, when set, switches the provider to its structured output
	// mechanism; the reply must validate against it.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature in [0, 1]; zero means deterministic.
	Temperature float64
}

// Schema names a JSON shape the model must produce.
type Schema struct {
	// Name is kebab-case, e.g. "code-hint". Anthropic sees it as the
	// output format, OpenAI as the response format name.
	Name string

	// Description tells the model what the shape is for.
	Description string

	// Definition is a JSON Schema document as a map.
	Definition map[string]any
}

// Response is the model's reply.
type Response struct {
	// Content is validated JSON when the request carried a Schema,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the id that actually served the call, as reported by
	// the vendor.
	Model string

	// StopReason is normalized across vendors: "end" or "max_tokens".
	StopReason string
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
