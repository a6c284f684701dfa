package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/revise/internal/llm"
	"github.com/abhisek/revise/internal/material"
	"github.com/abhisek/revise/internal/session"
)

// QuizSchema is the structured output expected from the model.
var QuizSchema = &llm.Schema{
	Name:        "topic-quiz",
	Description: "A short quiz checking understanding of one study topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner, answerable in a few words",
						},
						"format": map[string]any{
							"type": "string",
							"enum": []any{string(FormatShortAnswer), string(FormatMultipleChoice)},
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for multiple_choice, empty for short_answer",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The expected answer. For multiple_choice, the text of the correct option.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining the answer",
						},
					},
					"required":             []any{"question", "format", "choices", "answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

const quizSystemPrompt = `You write short quizzes that check whether a learner understood a study topic.

Rules:
- Ask only about facts stated in the provided content.
- Short answers must be a single word or short phrase so they can be checked by exact match.
- For multiple choice, give exactly 4 options with exactly one correct.
- Match the requested difficulty: "easy" favours recall and multiple choice, "hard" favours short answers on details.
- Plain text only. No markdown.`

// maxContentChars bounds the topic content sent to the model.
const maxContentChars = 12000

// LLMSource generates questions with a language model.
type LLMSource struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewLLMSource creates a Source backed by provider.
func NewLLMSource(provider llm.Provider, logger *slog.Logger) *LLMSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMSource{provider: provider, maxTokens: 2048, temperature: 0.4, logger: logger}
}

type quizOutput struct {
	Questions []Question `json:"questions"`
}

func (s *LLMSource) Questions(ctx context.Context, topic material.Topic, count int, tier session.DifficultyTier) ([]Question, error) {
	if count <= 0 {
		return nil, nil
	}
	ctx = llm.WithPurpose(ctx, "quiz-gen")

	req := llm.UserPrompt(quizSystemPrompt, buildQuizPrompt(topic, count, tier), QuizSchema, s.maxTokens)
	req.Temperature = s.temperature

	out, err := llm.GenerateInto[quizOutput](ctx, s.provider, req)
	if err != nil {
		return nil, fmt.Errorf("generate quiz for %q: %w", topic.Title, err)
	}

	qs := make([]Question, 0, count)
	for _, q := range out.Questions {
		if err := q.Check(); err != nil {
			s.logger.DebugContext(ctx, "dropping generated question", "topic", topic.Title, "reason", err)
			continue
		}
		if q.Format == FormatShortAnswer {
			q.Choices = nil
		}
		qs = append(qs, q)
		if len(qs) == count {
			break
		}
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("generate quiz for %q: %w", topic.Title, ErrNoQuestions)
	}
	return qs, nil
}

func buildQuizPrompt(topic material.Topic, count int, tier session.DifficultyTier) string {
	content := topic.Content
	if len(content) > maxContentChars {
		content = strings.ToValidUTF8(content[:maxContentChars], "")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic.Title)
	fmt.Fprintf(&b, "Difficulty: %s\n", tier)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	b.WriteString("\nContent:\n")
	b.WriteString(content)
	return b.String()
}
