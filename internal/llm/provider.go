package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one reply from a chat model. Implementations map
// their SDK errors onto the error types in errors.go so RetryProvider and
// the mentor can react to them without knowing the vendor.
type Provider interface {
	// Generate returns the model's reply to req. When req.Schema is set
	// the reply has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved vendor model id, recorded on request events.
	ModelID() string
}

// Request is a provider-neutral chat request.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured JSON output. Without it Content holds the
	// raw reply text.
	Schema *Schema

	MaxTokens int
	// Temperature in [0, 1]. Zero leaves the vendor default in place for
	// providers that treat zero as unset.
	Temperature float64
}

// SingleTurn builds a request with one user message, the shape every
// caller in this module uses.
func SingleTurn(system, prompt string, schema *Schema) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		Schema:   schema,
	}
}

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the reply must satisfy. Name doubles as the
// vendor-side schema or tool name, so keep it kebab-case ("mentor-advice").
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a provider-neutral reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the request
	StopReason string // StopEnd or StopMaxTokens
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
