package spacedrep

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestGraded_NewCardPerfectRecall(t *testing.T) {
	got, err := Graded{}.Schedule(NewState(), 5, testNow)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", got.Repetitions)
	}
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
	if got.EaseFactor != 2.6 {
		t.Errorf("EaseFactor = %v, want 2.6", got.EaseFactor)
	}
	if got.Due == nil || !got.Due.Equal(testNow.AddDate(0, 0, 1)) {
		t.Errorf("Due = %v, want %v", got.Due, testNow.AddDate(0, 0, 1))
	}
	if got.LastReviewed == nil || !got.LastReviewed.Equal(testNow) {
		t.Errorf("LastReviewed = %v, want %v", got.LastReviewed, testNow)
	}
}

func TestGraded_FailureResets(t *testing.T) {
	for q := 0; q < GradedPassQuality; q++ {
		s := State{Repetitions: 3, IntervalDays: 10, EaseFactor: 2.5}
		got, err := Graded{}.Schedule(s, q, testNow)
		if err != nil {
			t.Fatalf("q=%d: Schedule: %v", q, err)
		}
		if got.Repetitions != 0 {
			t.Errorf("q=%d: Repetitions = %d, want 0", q, got.Repetitions)
		}
		if got.IntervalDays != 1 {
			t.Errorf("q=%d: IntervalDays = %d, want 1", q, got.IntervalDays)
		}
	}
}

func TestGraded_SuccessiveIntervals(t *testing.T) {
	// Quality 4 leaves the ease factor at 2.5.
	s := NewState()
	want := []int{1, 6, 15, 38}
	now := testNow
	for i, w := range want {
		var err error
		s, err = Graded{}.Schedule(s, 4, now)
		if err != nil {
			t.Fatalf("review %d: %v", i+1, err)
		}
		if s.Repetitions != i+1 {
			t.Errorf("review %d: Repetitions = %d, want %d", i+1, s.Repetitions, i+1)
		}
		if s.IntervalDays != w {
			t.Errorf("review %d: IntervalDays = %d, want %d", i+1, s.IntervalDays, w)
		}
		if s.EaseFactor != 2.5 {
			t.Errorf("review %d: EaseFactor = %v, want 2.5", i+1, s.EaseFactor)
		}
		now = *s.Due
	}
}

func TestGraded_ThirdIntervalUsesPriorEase(t *testing.T) {
	s := State{Repetitions: 2, IntervalDays: 6, EaseFactor: 2.7}
	got, err := Graded{}.Schedule(s, 5, testNow)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	// round(6 * 2.7) = 16, then ease rises to 2.8.
	if got.IntervalDays != 16 {
		t.Errorf("IntervalDays = %d, want 16", got.IntervalDays)
	}
	if got.EaseFactor != 2.8 {
		t.Errorf("EaseFactor = %v, want 2.8", got.EaseFactor)
	}
}

func TestGraded_EaseFloor(t *testing.T) {
	for q := 0; q <= 5; q++ {
		for _, ease := range []float64{1.3, 1.4, 2.5, 3.1} {
			got, err := Graded{}.Schedule(State{EaseFactor: ease, IntervalDays: 4, Repetitions: 2}, q, testNow)
			if err != nil {
				t.Fatalf("q=%d ease=%v: %v", q, ease, err)
			}
			if got.EaseFactor < MinEaseFactor {
				t.Errorf("q=%d ease=%v: EaseFactor = %v, below %v", q, ease, got.EaseFactor, MinEaseFactor)
			}
		}
	}
}

func TestGraded_EaseUpdateTable(t *testing.T) {
	tests := []struct {
		q    int
		want float64
	}{
		{5, 2.6},
		{4, 2.5},
		{3, 2.36},
		{2, 2.18},
		{1, 1.96},
		{0, 1.7},
	}
	for _, tt := range tests {
		if got := gradedEase(2.5, tt.q); got != tt.want {
			t.Errorf("gradedEase(2.5, %d) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestGraded_InvalidRating(t *testing.T) {
	in := State{Repetitions: 2, IntervalDays: 6, EaseFactor: 2.5}
	for _, q := range []int{-1, 6, 42} {
		got, err := Graded{}.Schedule(in, q, testNow)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("q=%d: err = %v, want ErrInvalidRating", q, err)
		}
		if got != in {
			t.Errorf("q=%d: state changed to %+v", q, got)
		}
	}
}

func TestGraded_RestoresMissingFields(t *testing.T) {
	got, err := Graded{}.Schedule(State{}, 5, testNow)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if got.EaseFactor != 2.6 {
		t.Errorf("EaseFactor = %v, want 2.6", got.EaseFactor)
	}
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
}
