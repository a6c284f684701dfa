// Package quiz sources topic quizzes, grades answers and decides passes.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoQuestions is returned when a quiz cannot be built because no
// questions are available. A quiz without questions never passes.
var ErrNoQuestions = errors.New("no quiz questions available")

// Format describes how the learner answers a question.
type Format string

const (
	FormatShortAnswer    Format = "short_answer"
	FormatMultipleChoice Format = "multiple_choice"
)

// Question is one quiz item.
type Question struct {
	Prompt string `json:"question"`
	Format Format `json:"format"`

	// Choices is populated only for multiple choice questions and contains
	// Answer exactly once.
	Choices []string `json:"choices"`

	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// Check reports a structural problem with the question, or nil.
func (q Question) Check() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("empty question")
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("question %q has no answer", q.Prompt)
	}
	switch q.Format {
	case FormatShortAnswer, "":
		return nil
	case FormatMultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("question %q has %d choices", q.Prompt, len(q.Choices))
		}
		matches := 0
		for _, c := range q.Choices {
			if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(q.Answer)) {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("question %q: answer appears %d times among choices", q.Prompt, matches)
		}
		return nil
	}
	return fmt.Errorf("question %q has unknown format %q", q.Prompt, q.Format)
}
