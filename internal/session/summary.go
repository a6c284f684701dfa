package session

import "time"

// CardResult is the outcome of one rated card.
type CardResult struct {
	CardID   string
	Topic    string
	Rating   int
	Success  bool
	Interval int
}

// TopicResult aggregates a session's ratings for one topic.
type TopicResult struct {
	Topic    string
	Reviewed int
	Success  int
}

// Summary describes a finished or in-progress review session.
type Summary struct {
	Reviewed  int
	Success   int
	Dropped   int
	Cancelled bool
	Duration  time.Duration
	Topics    []TopicResult // first-reviewed order
	Cards     []CardResult
}

// Accuracy returns the share of successful ratings, or 0 with no ratings.
func (s *Summary) Accuracy() float64 {
	if s.Reviewed == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.Reviewed)
}

// Summary builds a summary of the session so far.
func (s *ReviewSession) Summary() *Summary {
	sum := &Summary{
		Reviewed:  len(s.results),
		Dropped:   s.Remaining(),
		Cancelled: s.phase == PhaseCancelled,
		Cards:     append([]CardResult(nil), s.results...),
	}
	if !s.finished.IsZero() {
		sum.Duration = s.finished.Sub(s.started)
	}

	index := make(map[string]int)
	for _, r := range s.results {
		if r.Success {
			sum.Success++
		}
		i, ok := index[r.Topic]
		if !ok {
			i = len(sum.Topics)
			index[r.Topic] = i
			sum.Topics = append(sum.Topics, TopicResult{Topic: r.Topic})
		}
		sum.Topics[i].Reviewed++
		if r.Success {
			sum.Topics[i].Success++
		}
	}
	return sum
}
