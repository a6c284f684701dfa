package spacedrep

import (
	"fmt"
	"time"
)

// Scheduler applies a scheduling policy to cards using a clock.
type Scheduler struct {
	policy Policy
	now    func() time.Time
}

// NewScheduler creates a scheduler for the given policy. A nil policy selects
// the graded policy.
func NewScheduler(p Policy) *Scheduler {
	if p == nil {
		p = Graded{}
	}
	return &Scheduler{policy: p, now: time.Now}
}

// NewSchedulerByName resolves a policy name and creates a scheduler for it.
func NewSchedulerByName(name string) (*Scheduler, error) {
	n, err := ParsePolicy(name)
	if err != nil {
		return nil, err
	}
	p, err := PolicyFor(n)
	if err != nil {
		return nil, err
	}
	return NewScheduler(p), nil
}

// WithClock replaces the scheduler's clock. Used by tests and replays.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Policy returns the active policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// Review returns a copy of card with its state advanced by rating. On an
// invalid rating the original card is returned with an error wrapping
// ErrInvalidRating.
func (s *Scheduler) Review(card Card, rating int) (Card, error) {
	next, err := s.policy.Schedule(card.State, rating, s.now())
	if err != nil {
		return card, fmt.Errorf("review card %s: %w", card.ID, err)
	}
	card.State = next
	return card, nil
}
