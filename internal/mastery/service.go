package mastery

// Service aggregates per-topic counters in memory. Topics are kept in the
// order they were first recorded so weak-topic queries are deterministic.
type Service struct {
	order  []string
	topics map[string]*TopicStats
}

// NewService creates a service from a snapshot. A nil snapshot yields an
// empty service. The snapshot is assumed valid; see StatsSnapshot.Validate.
func NewService(snap *StatsSnapshot) *Service {
	s := &Service{topics: make(map[string]*TopicStats)}
	if snap == nil {
		return s
	}
	for _, topic := range snap.Order {
		ts, ok := snap.Topics[topic]
		if !ok {
			continue
		}
		s.order = append(s.order, topic)
		s.topics[topic] = &ts
	}
	return s
}

// RecordQuiz records one quiz answer for a topic.
func (s *Service) RecordQuiz(topic string, correct bool) *Transition {
	return s.apply(topic, "quiz", func(ts TopicStats) TopicStats { return ts.withQuiz(correct) })
}

// RecordFlashcard records one flashcard review for a topic.
func (s *Service) RecordFlashcard(topic string, success bool) *Transition {
	return s.apply(topic, "flashcard", func(ts TopicStats) TopicStats { return ts.withFlashcard(success) })
}

// apply replaces a topic's counters, creating the topic on first use. It
// returns a transition when the topic's weakness under the default
// thresholds changes.
func (s *Service) apply(topic, trigger string, f func(TopicStats) TopicStats) *Transition {
	th := DefaultThresholds()
	before := s.Stats(topic)
	after := f(before)

	ts, ok := s.topics[topic]
	if !ok {
		ts = &TopicStats{}
		s.topics[topic] = ts
		s.order = append(s.order, topic)
	}
	*ts = after

	from, to := ResolveState(before, th), ResolveState(after, th)
	if from == to {
		return nil
	}
	return &Transition{Topic: topic, From: from, To: to, Trigger: trigger}
}

// Accuracy returns the live accuracy of a topic for a kind; 1.0 when nothing
// has been recorded.
func (s *Service) Accuracy(topic string, k Kind) float64 {
	return s.Stats(topic).Accuracy(k)
}

// IsWeak reports whether a topic is below either threshold.
func (s *Service) IsWeak(topic string, th Thresholds) bool {
	return s.Stats(topic).IsWeak(th)
}

// WeakTopics returns the weak topics in first-recorded order.
func (s *Service) WeakTopics(th Thresholds) []string {
	var weak []string
	for _, topic := range s.order {
		if s.topics[topic].IsWeak(th) {
			weak = append(weak, topic)
		}
	}
	return weak
}

// Topics returns all known topics in first-recorded order.
func (s *Service) Topics() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Stats returns a copy of a topic's counters. Unknown topics return zeros.
func (s *Service) Stats(topic string) TopicStats {
	if ts, ok := s.topics[topic]; ok {
		return *ts
	}
	return TopicStats{}
}

// Has reports whether any event has been recorded for the topic.
func (s *Service) Has(topic string) bool {
	_, ok := s.topics[topic]
	return ok
}

// Position returns the topic's index in first-recorded order, or the index
// it would take if recorded next.
func (s *Service) Position(topic string) int {
	for i, t := range s.order {
		if t == topic {
			return i
		}
	}
	return len(s.order)
}

// Reset forgets a single topic.
func (s *Service) Reset(topic string) {
	if _, ok := s.topics[topic]; !ok {
		return
	}
	delete(s.topics, topic)
	for i, t := range s.order {
		if t == topic {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ResetAll forgets every topic.
func (s *Service) ResetAll() {
	s.order = nil
	s.topics = make(map[string]*TopicStats)
}

// Snapshot exports the current counters for persistence.
func (s *Service) Snapshot() *StatsSnapshot {
	snap := &StatsSnapshot{
		Order:  s.Topics(),
		Topics: make(map[string]TopicStats, len(s.topics)),
	}
	for topic, ts := range s.topics {
		snap.Topics[topic] = *ts
	}
	return snap
}
