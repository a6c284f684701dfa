package mastery

// TopicState summarises a topic's standing for display.
type TopicState string

const (
	StateNew    TopicState = "new"
	StateWeak   TopicState = "weak"
	StateSteady TopicState = "steady"
)

// ResolveState maps a topic's counters to its display state.
func ResolveState(ts TopicStats, th Thresholds) TopicState {
	switch {
	case ts.Attempts() == 0:
		return StateNew
	case ts.IsWeak(th):
		return StateWeak
	default:
		return StateSteady
	}
}

// Transition records a change in a topic's weakness for logging.
type Transition struct {
	Topic   string
	From    TopicState
	To      TopicState
	Trigger string // "quiz" or "flashcard"
}
