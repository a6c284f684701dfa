package spacedrep

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PolicyName identifies a scheduling policy.
type PolicyName string

const (
	// PolicyGraded is the SM-2 style policy over a 0-5 quality scale.
	// It is the default for new code paths.
	PolicyGraded PolicyName = "graded"

	// PolicyDoubling resets to one day on "again" and doubles the interval
	// (capped at 30 days) on "good".
	PolicyDoubling PolicyName = "doubling"

	// PolicyThreeTier rates recall as again/good/easy (1/2/3).
	PolicyThreeTier PolicyName = "three-tier"
)

// DefaultPolicy is the policy used when none is configured.
const DefaultPolicy = PolicyGraded

// Policy computes the next scheduling state of a card from a recall rating.
// Implementations are pure: the same inputs always produce the same output
// and the input state is never modified.
type Policy interface {
	// Name returns the policy identifier.
	Name() PolicyName

	// RatingRange returns the inclusive range of accepted ratings.
	RatingRange() (lo, hi int)

	// IsSuccess reports whether a rating counts as a successful recall for
	// statistics purposes.
	IsSuccess(rating int) bool

	// Labels describes each accepted rating, indexed from lo.
	Labels() []string

	// Schedule returns the state after a review at now. It returns
	// ErrInvalidRating, and the unchanged state, if the rating is out of range.
	Schedule(s State, rating int, now time.Time) (State, error)
}

// ParsePolicy resolves a policy name. Matching is case-insensitive and
// accepts "threetier" and "three_tier" as aliases.
func ParsePolicy(name string) (PolicyName, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", string(PolicyGraded), "sm2", "sm-2":
		return PolicyGraded, nil
	case string(PolicyDoubling), "binary":
		return PolicyDoubling, nil
	case string(PolicyThreeTier), "threetier", "three_tier":
		return PolicyThreeTier, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// PolicyFor returns the implementation of a named policy.
func PolicyFor(name PolicyName) (Policy, error) {
	switch name {
	case PolicyGraded:
		return Graded{}, nil
	case PolicyDoubling:
		return Doubling{}, nil
	case PolicyThreeTier:
		return ThreeTier{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// checkRating validates a rating against a policy's range.
func checkRating(p Policy, rating int) error {
	lo, hi := p.RatingRange()
	if rating < lo || rating > hi {
		return fmt.Errorf("%w: %d is outside %d-%d for the %s policy", ErrInvalidRating, rating, lo, hi, p.Name())
	}
	return nil
}

// ValidateRating returns ErrInvalidRating if the policy does not accept rating.
func ValidateRating(p Policy, rating int) error {
	return checkRating(p, rating)
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundDays rounds a fractional interval to whole days, never below one.
func roundDays(v float64) int {
	d := int(math.Round(v))
	if d < 1 {
		return 1
	}
	return d
}
