// Package tutor runs the teaching pass: explain each topic, quiz the
// learner at a size matched to their accuracy, mark passed topics complete
// and draft flashcards for them.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/revise/internal/cardgen"
	"github.com/abhisek/revise/internal/mastery"
	"github.com/abhisek/revise/internal/material"
	"github.com/abhisek/revise/internal/quiz"
	"github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/spacedrep"
	"github.com/abhisek/revise/internal/store"
)

// ErrStopped is returned by a Learner to end the pass early. Topics
// already taught keep their results.
var ErrStopped = errors.New("teaching stopped")

// Learner is the interactive side of a teaching pass.
type Learner interface {
	quiz.Asker

	// Teach presents a topic explanation before its quiz.
	Teach(ctx context.Context, topic material.Topic, explanation string) error

	// Review presents the explanation of a missed question.
	Review(ctx context.Context, missed quiz.Answer, explanation string)

	// Done reports the outcome of a topic.
	Done(ctx context.Context, r TopicReport)
}

// ProgressStore tracks topic completion.
type ProgressStore interface {
	CompletedTopics(ctx context.Context) ([]string, error)
	RecordAttempt(ctx context.Context, topic string, score, total int, passed bool, at time.Time) error
}

// QuizLog keeps quiz history.
type QuizLog interface {
	Append(ctx context.Context, a store.QuizAttempt) (store.QuizAttempt, error)
}

// CardSink receives generated flashcards.
type CardSink interface {
	ListTopic(ctx context.Context, topic string) ([]spacedrep.Card, error)
	AddCard(ctx context.Context, c spacedrep.Card) (bool, error)
}

// Deps are the collaborators of a Tutor.
type Deps struct {
	Progress   ProgressStore
	Quizzes    QuizLog
	Cards      CardSink
	Stats      *mastery.Tracker
	Runner     *quiz.Runner
	Generator  cardgen.Generator
	Explainer  Explainer
	Thresholds mastery.Thresholds
	MaxTopics  int
	Now        func() time.Time
	Logger     *slog.Logger
}

// TopicReport is the outcome of teaching one topic.
type TopicReport struct {
	Topic      string
	Category   session.PlanCategory
	Quiz       session.QuizConfig
	Score      int
	Total      int
	Passed     bool
	Skipped    bool // no quiz could be built
	CardsAdded int
}

// Report is the outcome of a teaching pass.
type Report struct {
	Topics    []TopicReport
	Completed []string // topics skipped because they were already complete
	Stopped   bool
}

// Tutor runs teaching passes for one user.
type Tutor struct {
	d Deps
}

// New creates a Tutor. Nil Explainer and Generator fall back to
// PlainExplainer and cardgen.RuleBased.
func New(d Deps) *Tutor {
	if d.Explainer == nil {
		d.Explainer = PlainExplainer{}
	}
	if d.Generator == nil {
		d.Generator = cardgen.RuleBased{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Tutor{d: d}
}

// Plan orders the topics not yet completed, weak topics first, each with
// the quiz shape derived from its accuracy.
func (t *Tutor) Plan(ctx context.Context, topics []material.Topic) (*session.Plan, []string, error) {
	completed, err := t.d.Progress.CompletedTopics(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load progress: %w", err)
	}

	titles := make([]string, len(topics))
	for i, tp := range topics {
		titles[i] = tp.Title
	}

	plan := session.BuildPlan(titles, completed, t.d.Stats.Service(), t.d.Thresholds)
	if t.d.MaxTopics > 0 && len(plan.Slots) > t.d.MaxTopics {
		plan.Slots = plan.Slots[:t.d.MaxTopics]
	}

	done := make(map[string]bool, len(completed))
	for _, c := range completed {
		done[c] = true
	}
	var skipped []string
	for _, title := range titles {
		if done[title] {
			skipped = append(skipped, title)
			done[title] = false
		}
	}
	return plan, skipped, nil
}

// Teach runs a teaching pass over topics.
func (t *Tutor) Teach(ctx context.Context, topics []material.Topic, learner Learner) (*Report, error) {
	plan, completed, err := t.Plan(ctx, topics)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]material.Topic, len(topics))
	for _, tp := range topics {
		if _, ok := byTitle[tp.Title]; !ok {
			byTitle[tp.Title] = tp
		}
	}

	report := &Report{Completed: completed}
	for _, slot := range plan.Slots {
		tr, err := t.teachTopic(ctx, byTitle[slot.Topic], slot, learner)
		if errors.Is(err, ErrStopped) || errors.Is(err, session.ErrCancelled) {
			report.Stopped = true
			return report, nil
		}
		if err != nil {
			return report, err
		}
		report.Topics = append(report.Topics, tr)
		learner.Done(ctx, tr)
	}
	return report, nil
}

func (t *Tutor) teachTopic(ctx context.Context, topic material.Topic, slot session.PlanSlot, learner Learner) (TopicReport, error) {
	tr := TopicReport{Topic: topic.Title, Category: slot.Category, Quiz: slot.Quiz}
	log := t.d.Logger.With("topic", topic.Title)

	explanation, err := t.d.Explainer.Explain(ctx, topic)
	if err != nil {
		log.WarnContext(ctx, "explanation unavailable, showing material", "error", err)
		explanation = topic.Content
	}
	if err := learner.Teach(ctx, topic, explanation); err != nil {
		return tr, err
	}

	res, err := t.d.Runner.Run(ctx, topic, slot.Quiz, learner)
	if errors.Is(err, quiz.ErrNoQuestions) {
		log.WarnContext(ctx, "no quiz questions, topic left incomplete")
		tr.Skipped = true
		return tr, nil
	}
	if err != nil {
		return tr, err
	}
	tr.Score, tr.Total, tr.Passed = res.Score, res.Total, res.Passed

	if err := t.record(ctx, res); err != nil {
		return tr, err
	}

	if !res.Passed {
		for _, missed := range res.Missed() {
			note, err := t.d.Explainer.ExplainMistake(ctx, missed.Question.Prompt, missed.Question.Answer)
			if err != nil {
				log.WarnContext(ctx, "mistake explanation failed", "error", err)
				note = ReviewUnavailable
			}
			learner.Review(ctx, missed, note)
		}
		return tr, nil
	}

	added, err := t.addCards(ctx, topic)
	if err != nil {
		return tr, err
	}
	tr.CardsAdded = added
	return tr, nil
}

// record persists per-question stats, the attempt and the topic progress.
func (t *Tutor) record(ctx context.Context, res *quiz.Result) error {
	for _, a := range res.Answers {
		if err := t.d.Stats.RecordQuiz(ctx, res.Topic, a.Correct); err != nil {
			return err
		}
	}

	now := t.d.Now()
	attempt := store.QuizAttempt{
		Topic:     res.Topic,
		Score:     res.Score,
		Total:     res.Total,
		Passed:    res.Passed,
		CreatedAt: now,
	}
	for _, a := range res.Answers {
		attempt.Answers = append(attempt.Answers, store.AnswerRecord{
			Question: a.Question.Prompt,
			Answer:   a.Given,
			Expected: a.Question.Answer,
			Correct:  a.Correct,
		})
	}
	if _, err := t.d.Quizzes.Append(ctx, attempt); err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	if err := t.d.Progress.RecordAttempt(ctx, res.Topic, res.Score, res.Total, res.Passed, now); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// addCards drafts flashcards for a topic that has none yet.
func (t *Tutor) addCards(ctx context.Context, topic material.Topic) (int, error) {
	existing, err := t.d.Cards.ListTopic(ctx, topic.Title)
	if err != nil {
		return 0, fmt.Errorf("list cards: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	drafts, err := t.d.Generator.Generate(ctx, topic)
	if err != nil {
		return 0, fmt.Errorf("generate cards: %w", err)
	}

	now := t.d.Now()
	added := 0
	for _, d := range drafts {
		ok, err := t.d.Cards.AddCard(ctx, spacedrep.NewCard(topic.Title, d.Front, d.Back, now))
		if err != nil {
			return added, fmt.Errorf("add card: %w", err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}
