package session

import (
	"testing"

	"github.com/abhisek/revise/internal/mastery"
)

func TestPlanQuiz(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     QuizSize
	}{
		{0.0, QuizSize{5, 0.8}},
		{0.4, QuizSize{5, 0.8}},
		{0.49, QuizSize{5, 0.8}},
		{0.5, QuizSize{4, 0.75}},
		{0.69, QuizSize{4, 0.75}},
		{0.7, QuizSize{3, 0.7}},
		{1.0, QuizSize{3, 0.7}},
	}
	for _, tt := range tests {
		if got := PlanQuiz(tt.accuracy); got != tt.want {
			t.Errorf("PlanQuiz(%v) = %+v, want %+v", tt.accuracy, got, tt.want)
		}
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     DifficultyTier
	}{
		{0.0, TierEasy},
		{0.49, TierEasy},
		{0.5, TierNormal},
		{0.7, TierNormal},
		{0.79, TierNormal},
		{0.8, TierHard},
		{1.0, TierHard},
	}
	for _, tt := range tests {
		if got := TierFor(tt.accuracy); got != tt.want {
			t.Errorf("TierFor(%v) = %s, want %s", tt.accuracy, got, tt.want)
		}
	}
}

func TestPassed(t *testing.T) {
	tests := []struct {
		score, total int
		ratio        float64
		want         bool
	}{
		{0, 0, 0.7, false},
		{0, 0, 0, false},
		{3, -1, 0.5, false},
		{3, 4, 0.75, true},
		{2, 4, 0.75, false},
		{4, 5, 0.8, true},
		{7, 10, 0.7, true},
	}
	for _, tt := range tests {
		if got := Passed(tt.score, tt.total, tt.ratio); got != tt.want {
			t.Errorf("Passed(%d, %d, %v) = %v, want %v", tt.score, tt.total, tt.ratio, got, tt.want)
		}
	}
}

func TestQuizConfigFor_WeakTopic(t *testing.T) {
	svc := mastery.NewService(nil)
	for i := 0; i < 10; i++ {
		svc.RecordQuiz("Pointers", i < 4)
	}

	got := QuizConfigFor(svc, "Pointers")
	want := QuizConfig{Questions: 5, PassRatio: 0.8, Tier: TierEasy}
	if got != want {
		t.Errorf("QuizConfigFor = %+v, want %+v", got, want)
	}
	if !svc.IsWeak("Pointers", mastery.DefaultThresholds()) {
		t.Error("IsWeak = false, want true")
	}
}

func TestQuizConfigFor_UnseenTopic(t *testing.T) {
	svc := mastery.NewService(nil)

	// Zero attempts read as accuracy 1.0 for both mappings.
	got := QuizConfigFor(svc, "Channels")
	want := QuizConfig{Questions: 3, PassRatio: 0.7, Tier: TierHard}
	if got != want {
		t.Errorf("QuizConfigFor = %+v, want %+v", got, want)
	}
	if svc.IsWeak("Channels", mastery.DefaultThresholds()) {
		t.Error("IsWeak = true, want false")
	}
}

func TestBuildPlan(t *testing.T) {
	svc := mastery.NewService(nil)
	svc.RecordQuiz("B", false)
	svc.RecordQuiz("D", true)

	plan := BuildPlan([]string{"A", "B", "C", "D"}, []string{"D"}, svc, mastery.DefaultThresholds())

	got := plan.Topics()
	want := []string{"B", "A", "C"}
	if len(got) != len(want) {
		t.Fatalf("Topics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Topics[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if plan.Slots[0].Category != CategoryWeak || plan.Slots[1].Category != CategoryNext {
		t.Errorf("categories = %s, %s", plan.Slots[0].Category, plan.Slots[1].Category)
	}
	if plan.Slots[0].Quiz.Questions != 5 {
		t.Errorf("weak topic quiz = %+v, want 5 questions", plan.Slots[0].Quiz)
	}
}
