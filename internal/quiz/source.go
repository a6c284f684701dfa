package quiz

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/abhisek/revise/internal/material"
	"github.com/abhisek/revise/internal/session"
)

// Source produces questions for a topic.
type Source interface {
	Questions(ctx context.Context, topic material.Topic, count int, tier session.DifficultyTier) ([]Question, error)
}

// StaticSource serves questions without a language model. Questions from
// Bank, keyed by case-insensitive topic title, come first; the rest are
// fill-in-the-blank questions derived from the topic content. On the easy
// tier derived questions are multiple choice.
type StaticSource struct {
	Bank map[string][]Question
}

func (s StaticSource) Questions(ctx context.Context, topic material.Topic, count int, tier session.DifficultyTier) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}

	var out []Question
	for title, qs := range s.Bank {
		if strings.EqualFold(title, topic.Title) {
			out = append(out, qs...)
			break
		}
	}
	if len(out) < count {
		out = append(out, cloze(topic.Content, count-len(out), tier)...)
	}
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

// minSentenceLen is the length a sentence must exceed to be quizzed on.
const minSentenceLen = material.MinSentenceLen

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "because": true, "before": true,
	"being": true, "between": true, "could": true, "every": true, "other": true,
	"should": true, "their": true, "there": true, "these": true, "those": true,
	"through": true, "under": true, "where": true, "which": true, "while": true,
	"would": true,
}

type blank struct {
	sentence string
	word     string
}

// cloze blanks the longest content word of each usable sentence.
func cloze(content string, count int, tier session.DifficultyTier) []Question {
	var blanks []blank
	for _, s := range material.Sentences(content, minSentenceLen) {
		if w := keyWord(s); w != "" {
			blanks = append(blanks, blank{sentence: s, word: w})
		}
	}

	out := make([]Question, 0, min(count, len(blanks)))
	for i, b := range blanks {
		if len(out) == count {
			break
		}
		q := Question{
			Prompt:      "Fill in the blank: " + strings.Replace(b.sentence, b.word, "_____", 1),
			Format:      FormatShortAnswer,
			Answer:      b.word,
			Explanation: b.sentence,
		}
		if tier == session.TierEasy {
			if choices := distractors(blanks, i, 3); len(choices) > 0 {
				q.Format = FormatMultipleChoice
				q.Choices = append(choices, b.word)
				slices.SortFunc(q.Choices, func(a, b string) int {
					return strings.Compare(strings.ToLower(a), strings.ToLower(b))
				})
			}
		}
		out = append(out, q)
	}
	return out
}

// distractors picks up to n key words of other sentences that differ from
// the answer at index i.
func distractors(blanks []blank, i, n int) []string {
	seen := map[string]bool{strings.ToLower(blanks[i].word): true}
	var out []string
	for j, b := range blanks {
		if j == i || len(out) == n {
			continue
		}
		k := strings.ToLower(b.word)
		if !seen[k] {
			seen[k] = true
			out = append(out, b.word)
		}
	}
	return out
}

func keyWord(sentence string) string {
	best := ""
	for _, f := range strings.Fields(sentence) {
		w := strings.TrimFunc(f, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if len([]rune(w)) < 5 || stopwords[strings.ToLower(w)] {
			continue
		}
		if len([]rune(w)) > len([]rune(best)) {
			best = w
		}
	}
	return best
}

// fallbackSource tries primary first and uses secondary when primary
// fails or returns nothing.
type fallbackSource struct {
	primary, secondary Source
	logger             *slog.Logger
}

// WithFallback returns a Source that falls back to secondary.
func WithFallback(primary, secondary Source, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallbackSource{primary: primary, secondary: secondary, logger: logger}
}

func (f *fallbackSource) Questions(ctx context.Context, topic material.Topic, count int, tier session.DifficultyTier) ([]Question, error) {
	qs, err := f.primary.Questions(ctx, topic, count, tier)
	if err == nil && len(qs) > 0 {
		return qs, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		f.logger.WarnContext(ctx, "question generation failed, using fallback", "topic", topic.Title, "error", err)
	}
	return f.secondary.Questions(ctx, topic, count, tier)
}
