package spacedrep

import "time"

// Doubling ratings.
const (
	DoublingAgain = 0
	DoublingGood  = 1
)

// Doubling is the binary reset/double policy. It does not use the ease
// factor; repetitions track the current run of "good" answers.
type Doubling struct{}

var _ Policy = Doubling{}

func (Doubling) Name() PolicyName { return PolicyDoubling }

func (Doubling) RatingRange() (int, int) { return DoublingAgain, DoublingGood }

func (Doubling) IsSuccess(rating int) bool { return rating == DoublingGood }

func (Doubling) Labels() []string { return []string{"again", "good"} }

func (d Doubling) Schedule(s State, rating int, now time.Time) (State, error) {
	if err := checkRating(d, rating); err != nil {
		return s, err
	}

	next := Restore(s)
	if rating == DoublingAgain {
		next.IntervalDays = 1
		next.Repetitions = 0
	} else {
		next.IntervalDays = min(next.IntervalDays*2, MaxDoublingIntervalDays)
		next.Repetitions++
	}
	next.stamp(now)
	return next, nil
}
