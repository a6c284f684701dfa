package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicVendor struct {
	client anthropic.Client
}

// NewAnthropicProvider returns a Provider backed by the Anthropic Messages API.
func NewAnthropicProvider(cfg AnthropicConfig, opts ...option.RequestOption) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: api key is empty")
	}
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &vendorProvider{
		name:  ProviderAnthropic,
		model: resolveModel(ProviderAnthropic, cfg.Model),
		v:     &anthropicVendor{client: anthropic.NewClient(opts...)},
	}, nil
}

func (a *anthropicVendor) complete(ctx context.Context, model string, req Request) (reply, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return reply{}, classifyStatus(apiErr.StatusCode, err)
		}
		return reply{}, classifyStatus(0, err)
	}

	r := reply{
		model: string(msg.Model),
		usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
		finish: StopEnd,
	}
	if msg.StopReason == "max_tokens" {
		r.finish = StopMaxTokens
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			r.text = block.Text
			return r, nil
		}
	}
	return reply{}, &ErrInvalidResponse{Err: fmt.Errorf("anthropic reply from %s had no text block", r.model)}
}
