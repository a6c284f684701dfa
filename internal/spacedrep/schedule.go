package spacedrep

// Defaults applied to new cards and to cards loaded with missing fields.
const (
	DefaultEaseFactor   = 2.5
	DefaultIntervalDays = 1
)

// MinEaseFactor is the floor for the ease factor under the graded and
// three-tier policies.
const MinEaseFactor = 1.3

// Graded policy constants.
const (
	// GradedPassQuality is the lowest quality counted as a successful recall.
	GradedPassQuality = 3

	// SecondIntervalDays is the interval after the second consecutive success.
	SecondIntervalDays = 6
)

// MaxDoublingIntervalDays caps the interval under the doubling policy.
const MaxDoublingIntervalDays = 30

// Three-tier policy constants.
const (
	AgainEasePenalty  = 0.2
	EasyEaseBonus     = 0.1
	EasyIntervalBoost = 1.3
)
