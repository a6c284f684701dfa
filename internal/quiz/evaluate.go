package quiz

import (
	"strconv"
	"strings"
)

// Evaluator decides whether an answer to a question is correct.
type Evaluator interface {
	Evaluate(q Question, answer string) bool
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(q Question, answer string) bool

func (f EvaluatorFunc) Evaluate(q Question, answer string) bool { return f(q, answer) }

// ExactEvaluator accepts an answer equal to the expected one after
// trimming whitespace, ignoring case. For multiple choice questions the
// 1-based index of the correct choice is accepted too.
type ExactEvaluator struct{}

func (ExactEvaluator) Evaluate(q Question, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}

	if q.Format == FormatMultipleChoice {
		if idx, err := strconv.Atoi(answer); err == nil && idx >= 1 && idx <= len(q.Choices) {
			answer = q.Choices[idx-1]
		}
	}

	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.Answer))
}
