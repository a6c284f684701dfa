package tutor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/revise/internal/llm"
	"github.com/abhisek/revise/internal/material"
)

// Explainer teaches a topic and explains missed questions.
type Explainer interface {
	Explain(ctx context.Context, topic material.Topic) (string, error)
	ExplainMistake(ctx context.Context, question, answer string) (string, error)
}

// ReviewUnavailable is shown when a missed question cannot be explained.
const ReviewUnavailable = "Review unavailable. Please revisit the topic content."

// PlainExplainer presents the material as written.
type PlainExplainer struct{}

func (PlainExplainer) Explain(_ context.Context, topic material.Topic) (string, error) {
	return topic.Content, nil
}

func (PlainExplainer) ExplainMistake(_ context.Context, _ string, answer string) (string, error) {
	return fmt.Sprintf("The expected answer was %q.", answer), nil
}

var explanationSchema = &llm.Schema{
	Name:        "explanation",
	Description: "A plain-language explanation for a learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

const explainSystemPrompt = `You are a patient tutor. Explain clearly and simply for a beginner.
Use short paragraphs and plain text. Do not invent facts beyond the given content.`

// LLMExplainer explains with a language model.
type LLMExplainer struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewLLMExplainer creates an Explainer backed by provider.
func NewLLMExplainer(provider llm.Provider, logger *slog.Logger) *LLMExplainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMExplainer{provider: provider, logger: logger}
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
}

func (e *LLMExplainer) Explain(ctx context.Context, topic material.Topic) (string, error) {
	ctx = llm.WithPurpose(ctx, "explain-topic")
	prompt := fmt.Sprintf("Explain the following topic clearly and simply.\n\nTitle: %s\nContent:\n%s", topic.Title, topic.Content)
	return e.ask(ctx, prompt, 1500)
}

func (e *LLMExplainer) ExplainMistake(ctx context.Context, question, answer string) (string, error) {
	ctx = llm.WithPurpose(ctx, "explain-mistake")
	prompt := fmt.Sprintf("A learner got this question wrong.\n\nQuestion: %s\nCorrect answer: %s\n\n"+
		"Explain briefly why this is the correct answer.", question, answer)
	return e.ask(ctx, prompt, 400)
}

func (e *LLMExplainer) ask(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := llm.UserPrompt(explainSystemPrompt, prompt, explanationSchema, maxTokens)
	req.Temperature = 0.4
	out, err := llm.GenerateInto[explanationOutput](ctx, e.provider, req)
	if err != nil {
		return "", err
	}
	return out.Explanation, nil
}
