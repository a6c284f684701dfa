package mastery

import (
	"errors"
	"fmt"
)

// ErrCorruptStats is returned when persisted stats cannot be trusted. Callers
// treat it as recoverable and continue with empty stats.
var ErrCorruptStats = errors.New("corrupt topic stats")

// StatsSnapshot is the persisted form of a user's stats. Order lists topics
// in first-seen order and must match the keys of Topics.
type StatsSnapshot struct {
	Order  []string              `json:"order"`
	Topics map[string]TopicStats `json:"topics"`
}

// Validate returns ErrCorruptStats if the snapshot violates a counter
// invariant or its order does not match its topics.
func (s *StatsSnapshot) Validate() error {
	if s == nil {
		return nil
	}
	if len(s.Order) != len(s.Topics) {
		return fmt.Errorf("%w: %d ordered topics, %d stats", ErrCorruptStats, len(s.Order), len(s.Topics))
	}
	seen := make(map[string]bool, len(s.Order))
	for _, topic := range s.Order {
		if seen[topic] {
			return fmt.Errorf("%w: duplicate topic %q", ErrCorruptStats, topic)
		}
		seen[topic] = true
		ts, ok := s.Topics[topic]
		if !ok {
			return fmt.Errorf("%w: no stats for topic %q", ErrCorruptStats, topic)
		}
		if !ts.Valid() {
			return fmt.Errorf("%w: topic %q has counters %+v", ErrCorruptStats, topic, ts)
		}
	}
	return nil
}
