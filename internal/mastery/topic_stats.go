package mastery

// Kind selects which counter pair an accuracy query reads.
type Kind int

const (
	KindQuiz Kind = iota
	KindFlashcard
)

func (k Kind) String() string {
	switch k {
	case KindQuiz:
		return "quiz"
	case KindFlashcard:
		return "flashcard"
	}
	return "unknown"
}

// TopicStats holds the performance counters for a single topic.
type TopicStats struct {
	QuizAttempts     int `json:"quiz_attempts"`
	QuizCorrect      int `json:"quiz_correct"`
	FlashcardReviews int `json:"flashcard_reviews"`
	FlashcardGood    int `json:"flashcard_good"`
}

// Accuracy returns correct/attempts for the given kind. With no attempts it
// returns exactly 1.0.
func (ts TopicStats) Accuracy(k Kind) float64 {
	var correct, attempts int
	switch k {
	case KindQuiz:
		correct, attempts = ts.QuizCorrect, ts.QuizAttempts
	case KindFlashcard:
		correct, attempts = ts.FlashcardGood, ts.FlashcardReviews
	}
	if attempts == 0 {
		return 1.0
	}
	return float64(correct) / float64(attempts)
}

// IsWeak reports whether either accuracy is below its threshold.
func (ts TopicStats) IsWeak(th Thresholds) bool {
	return ts.Accuracy(KindQuiz) < th.Quiz || ts.Accuracy(KindFlashcard) < th.Flashcard
}

// Attempts returns the total number of recorded events.
func (ts TopicStats) Attempts() int {
	return ts.QuizAttempts + ts.FlashcardReviews
}

// Valid reports whether the counters are non-negative and no correct count
// exceeds its attempt count.
func (ts TopicStats) Valid() bool {
	return ts.QuizAttempts >= 0 && ts.QuizCorrect >= 0 &&
		ts.FlashcardReviews >= 0 && ts.FlashcardGood >= 0 &&
		ts.QuizCorrect <= ts.QuizAttempts &&
		ts.FlashcardGood <= ts.FlashcardReviews
}

func (ts TopicStats) withQuiz(correct bool) TopicStats {
	ts.QuizAttempts++
	if correct {
		ts.QuizCorrect++
	}
	return ts
}

func (ts TopicStats) withFlashcard(success bool) TopicStats {
	ts.FlashcardReviews++
	if success {
		ts.FlashcardGood++
	}
	return ts
}

// Thresholds are the accuracy floors below which a topic counts as weak.
type Thresholds struct {
	Quiz      float64 `json:"quiz" mapstructure:"quiz" validate:"gte=0,lte=1"`
	Flashcard float64 `json:"flashcard" mapstructure:"flashcard" validate:"gte=0,lte=1"`
}

// DefaultThresholds returns the standard weakness thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Quiz: 0.6, Flashcard: 0.7}
}
