package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/revise/internal/material"
	"github.com/abhisek/revise/internal/session"
)

// Asker poses a question to the learner and returns the raw answer.
// Returning an error aborts the quiz.
type Asker interface {
	Ask(ctx context.Context, q Question, index, total int) (string, error)
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(ctx context.Context, q Question, index, total int) (string, error)

func (f AskerFunc) Ask(ctx context.Context, q Question, index, total int) (string, error) {
	return f(ctx, q, index, total)
}

// Answer is one graded response.
type Answer struct {
	Question Question
	Given    string
	Correct  bool
}

// Result is the outcome of a quiz.
type Result struct {
	Topic   string
	Config  session.QuizConfig
	Answers []Answer
	Score   int
	Total   int
	Passed  bool
}

// Missed returns the incorrectly answered questions.
func (r Result) Missed() []Answer {
	var out []Answer
	for _, a := range r.Answers {
		if !a.Correct {
			out = append(out, a)
		}
	}
	return out
}

// Runner runs quizzes sized by a session.QuizConfig.
type Runner struct {
	source    Source
	evaluator Evaluator
	logger    *slog.Logger
}

// NewRunner creates a Runner. A nil evaluator uses ExactEvaluator.
func NewRunner(source Source, evaluator Evaluator, logger *slog.Logger) *Runner {
	if evaluator == nil {
		evaluator = ExactEvaluator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{source: source, evaluator: evaluator, logger: logger}
}

// Run fetches cfg.Questions questions for topic, asks each one and grades
// the result against cfg.PassRatio. It returns ErrNoQuestions when the
// source has nothing to ask.
func (r *Runner) Run(ctx context.Context, topic material.Topic, cfg session.QuizConfig, asker Asker) (*Result, error) {
	qs, err := r.source.Questions(ctx, topic, cfg.Questions, cfg.Tier)
	if err != nil {
		return nil, fmt.Errorf("quiz %q: %w", topic.Title, err)
	}
	if len(qs) > cfg.Questions {
		qs = qs[:cfg.Questions]
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("quiz %q: %w", topic.Title, ErrNoQuestions)
	}

	res := &Result{Topic: topic.Title, Config: cfg, Total: len(qs)}
	for i, q := range qs {
		given, err := asker.Ask(ctx, q, i, len(qs))
		if err != nil {
			return nil, err
		}
		ok := r.evaluator.Evaluate(q, given)
		if ok {
			res.Score++
		}
		res.Answers = append(res.Answers, Answer{Question: q, Given: given, Correct: ok})
	}

	res.Passed = session.Passed(res.Score, res.Total, cfg.PassRatio)
	r.logger.DebugContext(ctx, "quiz finished",
		"topic", topic.Title, "score", res.Score, "total", res.Total, "passed", res.Passed)
	return res, nil
}
