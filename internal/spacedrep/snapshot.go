package spacedrep

// Restore substitutes defaults for missing or out-of-range fields of a state
// read back from storage. A missing ease becomes 2.5, a missing interval 1 day
// and negative repetitions 0. An ease below the floor is raised to the floor.
// Due is left as-is; a nil due keeps the card immediately due.
func Restore(s State) State {
	if s.EaseFactor <= 0 {
		s.EaseFactor = DefaultEaseFactor
	} else if s.EaseFactor < MinEaseFactor {
		s.EaseFactor = MinEaseFactor
	}
	if s.IntervalDays < 1 {
		s.IntervalDays = DefaultIntervalDays
	}
	if s.Repetitions < 0 {
		s.Repetitions = 0
	}
	return s
}
