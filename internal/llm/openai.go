package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openaiVendor talks to any OpenAI-compatible chat completions endpoint.
type openaiVendor struct {
	client *openai.Client
}

func newOpenAIVendor(apiKey, baseURL string) *openaiVendor {
	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &openaiVendor{client: openai.NewClientWithConfig(conf)}
}

// NewOpenAIProvider returns a Provider for OpenAI, or for a compatible API
// when cfg.BaseURL is set.
func NewOpenAIProvider(cfg OpenAIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api key is empty")
	}
	return &vendorProvider{
		name:  ProviderOpenAI,
		model: resolveModel(ProviderOpenAI, cfg.Model),
		v:     newOpenAIVendor(cfg.APIKey, cfg.BaseURL),
	}, nil
}

// NewOpenRouterProvider returns a Provider for OpenRouter. Model names are
// OpenRouter slugs and are used verbatim.
func NewOpenRouterProvider(cfg OpenRouterConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: api key is empty")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	return &vendorProvider{
		name:  ProviderOpenRouter,
		model: cfg.Model,
		v:     newOpenAIVendor(cfg.APIKey, base),
	}, nil
}

func (o *openaiVendor) complete(ctx context.Context, model string, req Request) (reply, error) {
	chat := openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return reply{}, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return reply{}, classifyStatus(apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return reply{}, classifyStatus(reqErr.HTTPStatusCode, err)
		}
		return reply{}, classifyStatus(0, err)
	}
	if len(resp.Choices) == 0 {
		return reply{}, &ErrInvalidResponse{Err: fmt.Errorf("chat completion from %s had no choices", resp.Model)}
	}

	choice := resp.Choices[0]
	r := reply{
		text:   choice.Message.Content,
		model:  resp.Model,
		finish: StopEnd,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if choice.FinishReason == openai.FinishReasonLength {
		r.finish = StopMaxTokens
	}
	return r, nil
}
