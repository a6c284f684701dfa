package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// GenerateInto runs a schema-bound request and decodes the validated JSON
// into a value of type T. Requests without a schema are rejected.
func GenerateInto[T any](ctx context.Context, p Provider, req Request) (T, error) {
	var out T
	if req.Schema == nil {
		return out, fmt.Errorf("generate %T: request has no schema", out)
	}

	resp, err := p.Generate(ctx, req)
	if err != nil {
		return out, err
	}

	// Providers validate their own output, but a mock or a decorator may not.
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return out, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return out, nil
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}
