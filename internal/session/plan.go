package session

// DifficultyTier is a content-difficulty hint for question generation. It
// has no effect on quiz sizing.
type DifficultyTier string

const (
	TierEasy   DifficultyTier = "easy"
	TierNormal DifficultyTier = "normal"
	TierHard   DifficultyTier = "hard"
)

// QuizConfig is the derived shape of the next quiz for a topic.
type QuizConfig struct {
	Questions int
	PassRatio float64
	Tier      DifficultyTier
}

// QuizSize is the sizing half of a QuizConfig.
type QuizSize struct {
	Questions int
	PassRatio float64
}

// Quiz sizing breakpoints.
const (
	sizeLowAccuracy  = 0.5
	sizeHighAccuracy = 0.7
)

// Difficulty tier breakpoints.
const (
	tierLowAccuracy  = 0.5
	tierHighAccuracy = 0.8
)

// PlanQuiz sizes a quiz from quiz accuracy. Weaker learners get more
// questions and a stricter pass ratio.
func PlanQuiz(accuracy float64) QuizSize {
	switch {
	case accuracy < sizeLowAccuracy:
		return QuizSize{Questions: 5, PassRatio: 0.8}
	case accuracy < sizeHighAccuracy:
		return QuizSize{Questions: 4, PassRatio: 0.75}
	default:
		return QuizSize{Questions: 3, PassRatio: 0.7}
	}
}

// TierFor maps quiz accuracy to a content-difficulty tier.
func TierFor(accuracy float64) DifficultyTier {
	switch {
	case accuracy < tierLowAccuracy:
		return TierEasy
	case accuracy < tierHighAccuracy:
		return TierNormal
	default:
		return TierHard
	}
}

// Passed reports whether score out of total meets the pass ratio. A quiz
// with no questions never passes.
func Passed(score, total int, passRatio float64) bool {
	if total <= 0 {
		return false
	}
	return float64(score)/float64(total) >= passRatio
}
