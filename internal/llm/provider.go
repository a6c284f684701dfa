// Package llm is the optional language-model backend behind quiz generation,
// topic explanations and flashcard drafting. Every collaborator that uses it
// has a rule-based fallback, so a missing or failing provider degrades the
// output but never blocks a session.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate runs req. When req.Schema is set the returned Content is
	// JSON already validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, before any vendor-side aliasing.
	ModelID() string
}

type Request struct {
	System    string
	Messages  []Message
	Schema    *Schema
	MaxTokens int

	// Temperature of zero leaves the vendor default in place.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema asks for structured output. Name doubles as the vendor-side
// schema or tool name, so keep it kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
