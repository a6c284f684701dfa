package session

import "errors"

// Phase is the lifecycle phase of a review session.
type Phase int

const (
	PhaseIdle      Phase = iota // Created, nothing loaded
	PhaseActive                 // Due cards loaded, waiting for a rating
	PhaseReviewing              // Applying a rating to the current card
	PhaseComplete               // Queue exhausted
	PhaseCancelled              // Stopped by the learner
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseReviewing:
		return "reviewing"
	case PhaseComplete:
		return "complete"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Done reports whether the phase is terminal.
func (p Phase) Done() bool {
	return p == PhaseComplete || p == PhaseCancelled
}

var (
	// ErrCancelled is returned by a Rater to end the session early.
	ErrCancelled = errors.New("review cancelled")

	// ErrNoActiveCard is returned when a rating is submitted with no card
	// awaiting one.
	ErrNoActiveCard = errors.New("no card awaiting a rating")

	// ErrAlreadyStarted is returned by Start on a session that has left the
	// idle phase.
	ErrAlreadyStarted = errors.New("review session already started")
)
