package spacedrep

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is the scheduling state of a card.
type State struct {
	Repetitions  int        `json:"repetitions"`
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int        `json:"interval_days"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	// Due is nil for a card that has never been scheduled; such a card is
	// always due.
	Due *time.Time `json:"due,omitempty"`
}

// Card is a single memorizable item.
type Card struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	State
}

// NewState returns the state of a card that has never been reviewed.
func NewState() State {
	return State{
		Repetitions:  0,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: DefaultIntervalDays,
	}
}

// NewCard creates an unscheduled card for a topic.
func NewCard(topic, front, back string, now time.Time) Card {
	return Card{
		ID:        uuid.NewString(),
		Topic:     topic,
		Front:     front,
		Back:      back,
		CreatedAt: now,
		State:     NewState(),
	}
}

// NormalizeFront returns the key used to detect duplicate cards in a topic.
func NormalizeFront(front string) string {
	return strings.ToLower(strings.TrimSpace(front))
}

// IsDue reports whether the card should be presented at now.
func (s State) IsDue(now time.Time) bool {
	return s.Due == nil || !s.Due.After(now)
}

// OverdueDays returns how many days past due the card is. Returns 0 if not
// yet due or never scheduled.
func (s State) OverdueDays(now time.Time) float64 {
	if s.Due == nil || now.Before(*s.Due) {
		return 0
	}
	return now.Sub(*s.Due).Hours() / 24.0
}

// DaysUntilDue returns the number of days until the card is due.
// Returns 0 if already due.
func (s State) DaysUntilDue(now time.Time) int {
	if s.IsDue(now) {
		return 0
	}
	return int(s.Due.Sub(now).Hours()/24.0) + 1
}

// stamp records a review at now and schedules the next one.
func (s *State) stamp(now time.Time) {
	reviewed := now
	due := now.AddDate(0, 0, s.IntervalDays)
	s.LastReviewed = &reviewed
	s.Due = &due
}
