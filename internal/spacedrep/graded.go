package spacedrep

import (
	"math"
	"time"
)

// Graded is the canonical SM-2 style policy. Quality runs from 0 (total
// failure) to 5 (perfect recall); anything below 3 is a lapse.
type Graded struct{}

var _ Policy = Graded{}

func (Graded) Name() PolicyName { return PolicyGraded }

func (Graded) RatingRange() (int, int) { return 0, 5 }

func (Graded) IsSuccess(rating int) bool { return rating >= GradedPassQuality }

func (Graded) Labels() []string {
	return []string{
		"blackout",
		"wrong, answer felt familiar",
		"wrong, answer easy to recall",
		"right, with serious difficulty",
		"right, after hesitation",
		"perfect",
	}
}

// Schedule applies the graded update. The interval growth on the third and
// later successes uses the ease factor held before this review; the ease
// update is applied afterwards on every review.
func (g Graded) Schedule(s State, rating int, now time.Time) (State, error) {
	if err := checkRating(g, rating); err != nil {
		return s, err
	}

	prev := Restore(s)
	next := prev

	if rating < GradedPassQuality {
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		next.Repetitions = prev.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = SecondIntervalDays
		default:
			next.IntervalDays = roundDays(float64(prev.IntervalDays) * prev.EaseFactor)
		}
	}

	next.EaseFactor = gradedEase(prev.EaseFactor, rating)
	next.stamp(now)
	return next, nil
}

// gradedEase is EF' = max(1.3, round2(EF + 0.1 - (5-q)(0.08 + (5-q)0.02))).
func gradedEase(ease float64, quality int) float64 {
	d := float64(5 - quality)
	return math.Max(MinEaseFactor, round2(ease+0.1-d*(0.08+d*0.02)))
}
