package spacedrep

import (
	"math"
	"time"
)

// Three-tier ratings.
const (
	RatingAgain = 1
	RatingGood  = 2
	RatingEasy  = 3
)

// ThreeTier is the again/good/easy policy.
type ThreeTier struct{}

var _ Policy = ThreeTier{}

func (ThreeTier) Name() PolicyName { return PolicyThreeTier }

func (ThreeTier) RatingRange() (int, int) { return RatingAgain, RatingEasy }

func (ThreeTier) IsSuccess(rating int) bool { return rating >= RatingGood }

func (ThreeTier) Labels() []string { return []string{"again", "good", "easy"} }

func (t ThreeTier) Schedule(s State, rating int, now time.Time) (State, error) {
	if err := checkRating(t, rating); err != nil {
		return s, err
	}

	next := Restore(s)
	switch rating {
	case RatingAgain:
		next.IntervalDays = 1
		next.EaseFactor = math.Max(MinEaseFactor, next.EaseFactor-AgainEasePenalty)
		next.Repetitions = 0
	case RatingGood:
		next.IntervalDays = roundDays(float64(next.IntervalDays) * next.EaseFactor)
		next.Repetitions++
	case RatingEasy:
		next.IntervalDays = roundDays(float64(next.IntervalDays) * next.EaseFactor * EasyIntervalBoost)
		next.EaseFactor += EasyEaseBonus
		next.Repetitions++
	}
	next.EaseFactor = round2(next.EaseFactor)
	next.stamp(now)
	return next, nil
}
