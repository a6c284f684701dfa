package spacedrep

import "testing"

func TestRestore(t *testing.T) {
	tests := []struct {
		name string
		in   State
		want State
	}{
		{"empty", State{}, State{EaseFactor: 2.5, IntervalDays: 1}},
		{"negative reps", State{Repetitions: -2, EaseFactor: 2.1, IntervalDays: 3}, State{EaseFactor: 2.1, IntervalDays: 3}},
		{"ease below floor", State{EaseFactor: 1.1, IntervalDays: 3}, State{EaseFactor: 1.3, IntervalDays: 3}},
		{"zero interval", State{Repetitions: 2, EaseFactor: 2.5}, State{Repetitions: 2, EaseFactor: 2.5, IntervalDays: 1}},
		{"valid untouched", State{Repetitions: 4, EaseFactor: 2.9, IntervalDays: 40}, State{Repetitions: 4, EaseFactor: 2.9, IntervalDays: 40}},
	}
	for _, tt := range tests {
		if got := Restore(tt.in); got != tt.want {
			t.Errorf("%s: Restore = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestRestore_KeepsNilDue(t *testing.T) {
	got := Restore(State{})
	if got.Due != nil {
		t.Errorf("Due = %v, want nil", got.Due)
	}
	if !got.IsDue(testNow) {
		t.Error("restored card without due should be due")
	}
}
