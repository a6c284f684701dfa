// Package cardgen drafts flashcards for a study topic.
package cardgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/revise/internal/llm"
	"github.com/abhisek/revise/internal/material"
)

// Draft is a flashcard that has not been saved yet.
type Draft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator drafts flashcards for a topic.
type Generator interface {
	Generate(ctx context.Context, topic material.Topic) ([]Draft, error)
}

// RuleBased drafts at most two cards from the first two usable sentences
// of a topic: a definition card and an importance card.
type RuleBased struct{}

func (RuleBased) Generate(_ context.Context, topic material.Topic) ([]Draft, error) {
	sentences := material.Sentences(topic.Content, material.MinSentenceLen)

	var out []Draft
	if len(sentences) > 0 {
		out = append(out, Draft{Front: fmt.Sprintf("What is %s?", topic.Title), Back: sentences[0]})
	}
	if len(sentences) > 1 {
		out = append(out, Draft{Front: fmt.Sprintf("Why is %s important?", topic.Title), Back: sentences[1]})
	}
	return out, nil
}

// CardSchema is the structured output expected from the model.
var CardSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "Concise question and answer flashcards for revising one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{"type": "string", "description": "The question side"},
						"back":  map[string]any{"type": "string", "description": "The answer side, one sentence"},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

const cardSystemPrompt = `You write flashcards for spaced repetition revision.

Rules:
- Beginner-friendly question and answer pairs.
- One fact per card. Answers are a single sentence.
- Use only facts stated in the provided content.
- Plain text only. No markdown, no explanations outside the cards.`

// LLM drafts cards with a language model and falls back to another
// generator when the model fails or returns nothing usable.
type LLM struct {
	provider llm.Provider
	count    int
	fallback Generator
	logger   *slog.Logger
}

// NewLLM creates an LLM generator asking for count cards per topic. A nil
// fallback uses RuleBased.
func NewLLM(provider llm.Provider, count int, fallback Generator, logger *slog.Logger) *LLM {
	if fallback == nil {
		fallback = RuleBased{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if count <= 0 {
		count = 3
	}
	return &LLM{provider: provider, count: count, fallback: fallback, logger: logger}
}

type cardsOutput struct {
	Cards []Draft `json:"cards"`
}

func (g *LLM) Generate(ctx context.Context, topic material.Topic) ([]Draft, error) {
	drafts, err := g.generate(ctx, topic)
	if err == nil && len(drafts) > 0 {
		return drafts, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		g.logger.WarnContext(ctx, "flashcard generation failed, using fallback", "topic", topic.Title, "error", err)
	}
	return g.fallback.Generate(ctx, topic)
}

func (g *LLM) generate(ctx context.Context, topic material.Topic) ([]Draft, error) {
	ctx = llm.WithPurpose(ctx, "card-gen")

	prompt := fmt.Sprintf("Generate %d flashcards.\n\nTopic: %s\n\nContent:\n%s", g.count, topic.Title, topic.Content)
	req := llm.UserPrompt(cardSystemPrompt, prompt, CardSchema, 1024)
	req.Temperature = 0.3

	out, err := llm.GenerateInto[cardsOutput](ctx, g.provider, req)
	if err != nil {
		return nil, err
	}

	drafts := make([]Draft, 0, len(out.Cards))
	for _, d := range out.Cards {
		d.Front = strings.TrimSpace(d.Front)
		d.Back = strings.TrimSpace(d.Back)
		if d.Front == "" || d.Back == "" {
			continue
		}
		drafts = append(drafts, d)
		if len(drafts) == g.count {
			break
		}
	}
	return drafts, nil
}
