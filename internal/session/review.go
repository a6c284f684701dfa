package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/revise/internal/spacedrep"
)

// CardStore loads and saves a single user's cards.
type CardStore interface {
	ListCards(ctx context.Context) ([]spacedrep.Card, error)
	UpdateCard(ctx context.Context, card spacedrep.Card) error
}

// StatsRecorder records flashcard outcomes for a user.
type StatsRecorder interface {
	RecordFlashcard(ctx context.Context, topic string, success bool) error
}

// Prompt is what a Rater is shown for the current card.
type Prompt struct {
	Card   spacedrep.Card
	Index  int // zero-based position in the queue
	Total  int
	Policy spacedrep.Policy

	// LastErr is set when the previous rating for this card was rejected.
	LastErr error
}

// Rater collects a rating for a card. Returning ErrCancelled ends the
// session before the card is rated.
type Rater interface {
	Rate(ctx context.Context, p Prompt) (int, error)
}

// RaterFunc adapts a function to the Rater interface.
type RaterFunc func(ctx context.Context, p Prompt) (int, error)

func (f RaterFunc) Rate(ctx context.Context, p Prompt) (int, error) { return f(ctx, p) }

// ReviewOptions configures a review session.
type ReviewOptions struct {
	// Limit caps the number of cards in the session; zero means no cap.
	Limit int
	// Topic restricts the session to one topic when set.
	Topic  string
	Logger *slog.Logger
}

// ReviewSession drives one pass over the due cards of a user. Each rating is
// applied as an ordered unit: schedule, save the card, record the stat. The
// cursor moves only when the whole unit succeeds.
type ReviewSession struct {
	cards  CardStore
	stats  StatsRecorder
	sched  *spacedrep.Scheduler
	opts   ReviewOptions
	logger *slog.Logger

	phase    Phase
	queue    []spacedrep.Card
	cursor   int
	started  time.Time
	finished time.Time
	results  []CardResult
}

// NewReviewSession creates an idle session.
func NewReviewSession(cards CardStore, stats StatsRecorder, sched *spacedrep.Scheduler, opts ReviewOptions) *ReviewSession {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewSession{
		cards:  cards,
		stats:  stats,
		sched:  sched,
		opts:   opts,
		logger: logger,
	}
}

// Start loads the due cards. With nothing due the session completes at once.
func (s *ReviewSession) Start(ctx context.Context, now time.Time) error {
	if s.phase != PhaseIdle {
		return ErrAlreadyStarted
	}

	all, err := s.cards.ListCards(ctx)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}
	if s.opts.Topic != "" {
		filtered := all[:0:0]
		for _, c := range all {
			if c.Topic == s.opts.Topic {
				filtered = append(filtered, c)
			}
		}
		all = filtered
	}

	s.queue = spacedrep.SelectDue(all, now, s.opts.Limit)
	s.started = now
	s.phase = PhaseActive
	s.logger.Debug("review session started",
		"due", len(s.queue), "cards", len(all), "topic", s.opts.Topic, "policy", s.sched.Policy().Name())

	if len(s.queue) == 0 {
		s.finish(PhaseComplete)
	}
	return nil
}

// Phase returns the current phase.
func (s *ReviewSession) Phase() Phase {
	return s.phase
}

// Policy returns the scheduling policy used for ratings.
func (s *ReviewSession) Policy() spacedrep.Policy {
	return s.sched.Policy()
}

// Current returns the card awaiting a rating.
func (s *ReviewSession) Current() (spacedrep.Card, bool) {
	if s.phase != PhaseActive || s.cursor >= len(s.queue) {
		return spacedrep.Card{}, false
	}
	return s.queue[s.cursor], true
}

// Prompt returns the prompt for the current card.
func (s *ReviewSession) Prompt() (Prompt, bool) {
	card, ok := s.Current()
	if !ok {
		return Prompt{}, false
	}
	return Prompt{Card: card, Index: s.cursor, Total: len(s.queue), Policy: s.sched.Policy()}, true
}

// Remaining returns the number of cards not yet rated.
func (s *ReviewSession) Remaining() int {
	return len(s.queue) - s.cursor
}

// Rate applies a rating to the current card and returns the rescheduled
// card. An invalid rating returns an error wrapping
// spacedrep.ErrInvalidRating with nothing changed. A persistence error is
// returned wrapped and leaves the cursor on the same card, so the same
// rating may be retried.
func (s *ReviewSession) Rate(ctx context.Context, rating int) (spacedrep.Card, error) {
	card, ok := s.Current()
	if !ok {
		return spacedrep.Card{}, ErrNoActiveCard
	}
	policy := s.sched.Policy()
	if err := spacedrep.ValidateRating(policy, rating); err != nil {
		return card, err
	}

	s.phase = PhaseReviewing
	updated, err := s.apply(ctx, card, rating)
	if err != nil {
		s.phase = PhaseActive
		s.logger.Warn("review step failed", "card", card.ID, "topic", card.Topic, "error", err)
		return card, err
	}

	s.results = append(s.results, CardResult{
		CardID:   updated.ID,
		Topic:    updated.Topic,
		Rating:   rating,
		Success:  policy.IsSuccess(rating),
		Interval: updated.IntervalDays,
	})
	s.cursor++
	s.phase = PhaseActive
	s.logger.Debug("card reviewed",
		"card", updated.ID, "rating", rating, "interval_days", updated.IntervalDays, "ease", updated.EaseFactor)

	if s.cursor >= len(s.queue) {
		s.finish(PhaseComplete)
	}
	return updated, nil
}

func (s *ReviewSession) apply(ctx context.Context, card spacedrep.Card, rating int) (spacedrep.Card, error) {
	updated, err := s.sched.Review(card, rating)
	if err != nil {
		return card, err
	}
	if err := s.cards.UpdateCard(ctx, updated); err != nil {
		return card, fmt.Errorf("save card %s: %w", card.ID, err)
	}
	success := s.sched.Policy().IsSuccess(rating)
	if err := s.stats.RecordFlashcard(ctx, card.Topic, success); err != nil {
		return card, fmt.Errorf("record review of card %s: %w", card.ID, err)
	}
	return updated, nil
}

// Cancel ends the session between cards. Cards not yet rated are dropped
// without being touched. Cancelling a finished session is a no-op.
func (s *ReviewSession) Cancel() {
	if s.phase.Done() {
		return
	}
	s.finish(PhaseCancelled)
}

// Run starts the session if needed and rates every due card with r until
// the queue is exhausted, r returns ErrCancelled, or a step fails.
// Rejected ratings are re-prompted with Prompt.LastErr set.
func (s *ReviewSession) Run(ctx context.Context, r Rater) error {
	if s.phase == PhaseIdle {
		if err := s.Start(ctx, s.sched.Now()); err != nil {
			return err
		}
	}

	var lastErr error
	for s.phase == PhaseActive {
		if err := ctx.Err(); err != nil {
			s.Cancel()
			return err
		}

		p, _ := s.Prompt()
		p.LastErr = lastErr
		rating, err := r.Rate(ctx, p)
		if errors.Is(err, ErrCancelled) {
			s.Cancel()
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := s.Rate(ctx, rating); err != nil {
			if errors.Is(err, spacedrep.ErrInvalidRating) {
				lastErr = err
				continue
			}
			return err
		}
		lastErr = nil
	}
	return nil
}

func (s *ReviewSession) finish(p Phase) {
	s.phase = p
	s.finished = s.sched.Now()
	s.logger.Debug("review session ended", "phase", p, "reviewed", len(s.results), "dropped", s.Remaining())
}
