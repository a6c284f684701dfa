package mastery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Repo persists a single user's topic stats.
type Repo interface {
	LoadStats(ctx context.Context) (*StatsSnapshot, error)
	SaveTopic(ctx context.Context, topic string, position int, ts TopicStats) error
	DeleteTopic(ctx context.Context, topic string) error
	DeleteAll(ctx context.Context) error
}

// Tracker is a Service backed by a Repo. Each update is written to the repo
// before it is applied in memory, so a failed write leaves both unchanged.
type Tracker struct {
	svc    *Service
	repo   Repo
	logger *slog.Logger
}

// LoadTracker loads stats from the repo. Corrupt stats are logged as a
// warning and replaced by an empty set; other load errors are returned.
func LoadTracker(ctx context.Context, repo Repo, logger *slog.Logger) (*Tracker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	snap, err := repo.LoadStats(ctx)
	if err == nil {
		err = snap.Validate()
	}
	switch {
	case errors.Is(err, ErrCorruptStats):
		logger.Warn("topic stats are corrupt, starting from empty stats", "error", err)
		snap = nil
	case err != nil:
		return nil, fmt.Errorf("load topic stats: %w", err)
	}

	return &Tracker{svc: NewService(snap), repo: repo, logger: logger}, nil
}

// Service exposes the in-memory aggregator for queries.
func (t *Tracker) Service() *Service {
	return t.svc
}

// RecordQuiz persists and applies one quiz answer.
func (t *Tracker) RecordQuiz(ctx context.Context, topic string, correct bool) error {
	next := t.svc.Stats(topic).withQuiz(correct)
	if err := t.repo.SaveTopic(ctx, topic, t.svc.Position(topic), next); err != nil {
		return fmt.Errorf("record quiz for %q: %w", topic, err)
	}
	t.logTransition(t.svc.RecordQuiz(topic, correct))
	return nil
}

// RecordFlashcard persists and applies one flashcard review.
func (t *Tracker) RecordFlashcard(ctx context.Context, topic string, success bool) error {
	next := t.svc.Stats(topic).withFlashcard(success)
	if err := t.repo.SaveTopic(ctx, topic, t.svc.Position(topic), next); err != nil {
		return fmt.Errorf("record flashcard for %q: %w", topic, err)
	}
	t.logTransition(t.svc.RecordFlashcard(topic, success))
	return nil
}

// Reset forgets a topic in the repo and in memory.
func (t *Tracker) Reset(ctx context.Context, topic string) error {
	if err := t.repo.DeleteTopic(ctx, topic); err != nil {
		return fmt.Errorf("reset stats for %q: %w", topic, err)
	}
	t.svc.Reset(topic)
	return nil
}

// ResetAll forgets every topic in the repo and in memory.
func (t *Tracker) ResetAll(ctx context.Context) error {
	if err := t.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset all stats: %w", err)
	}
	t.svc.ResetAll()
	return nil
}

func (t *Tracker) logTransition(tr *Transition) {
	if tr == nil {
		return
	}
	t.logger.Info("topic state changed",
		"topic", tr.Topic, "from", tr.From, "to", tr.To, "trigger", tr.Trigger)
}
