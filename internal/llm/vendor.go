package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// reply is one raw completion before any validation.
type reply struct {
	text   string
	model  string
	finish string
	usage  Usage
}

// vendor adapts a single SDK. Implementations translate the request, make
// one call and map SDK errors through classifyStatus.
type vendor interface {
	complete(ctx context.Context, model string, req Request) (reply, error)
}

// vendorProvider is the Provider every SDK adapter is exposed through.
type vendorProvider struct {
	name  string
	model string
	v     vendor
}

var errNoMessages = errors.New("llm request has no messages")

func (p *vendorProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, errNoMessages
	}
	r, err := p.v.complete(ctx, p.model, req)
	if err != nil {
		return nil, err
	}

	content := json.RawMessage(r.text)
	if req.Schema != nil {
		if r.finish == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		content = stripFence(content)
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	model := r.model
	if model == "" {
		model = p.model
	}
	return &Response{Content: content, Usage: r.usage, Model: model, StopReason: r.finish}, nil
}

func (p *vendorProvider) ModelID() string { return p.model }

// stripFence removes a surrounding markdown code fence, which some models
// add around JSON even in structured mode.
func stripFence(raw json.RawMessage) json.RawMessage {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return raw
	}
	b = b[3:]
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return json.RawMessage(bytes.TrimSpace(b))
}

// modelAliases maps short names to vendor model ids, per provider.
// Unknown names pass through unchanged.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-sonnet": "claude-sonnet-4-20250514",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	},
	ProviderOpenAI: {
		"gpt-4o":      "gpt-4o",
		"gpt-4o-mini": "gpt-4o-mini",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.0-flash",
		"gemini-pro":   "gemini-2.0-pro",
	},
}

func resolveModel(provider, name string) string {
	if id, ok := modelAliases[provider][name]; ok {
		return id
	}
	return name
}
