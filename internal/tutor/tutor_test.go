package tutor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/revise/internal/logging"
	"github.com/abhisek/revise/internal/mastery"
	"github.com/abhisek/revise/internal/material"
	"github.com/abhisek/revise/internal/quiz"
	"github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/store"
)

var (
	testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mapTopic = material.Topic{
		Title: "Maps",
		Content: "A map is an unordered collection of key and value pairs with unique keys. " +
			"Maps make lookups by key fast regardless of how many entries they hold.",
	}
	sliceTopic = material.Topic{
		Title:   "Slices",
		Content: "A slice is a descriptor of a contiguous segment of an underlying array.",
	}

	bank = quiz.StaticSource{Bank: map[string][]quiz.Question{
		"Maps": {
			{Prompt: "Map keys are?", Answer: "unique"},
			{Prompt: "Map order?", Answer: "unordered"},
			{Prompt: "Lookup by?", Answer: "key"},
		},
		"Slices": {
			{Prompt: "Slices describe an?", Answer: "array"},
			{Prompt: "Segment kind?", Answer: "contiguous"},
			{Prompt: "Built-in to grow?", Answer: "append"},
			{Prompt: "Zero value?", Answer: "nil"},
			{Prompt: "Length func?", Answer: "len"},
		},
	}}
)

type scriptedLearner struct {
	answers map[string]string // prompt → answer; missing prompts get "?"
	stopAt  string

	taught   []string
	explains []string
	reviews  []string
	done     []TopicReport
}

func (l *scriptedLearner) Ask(_ context.Context, q quiz.Question, _, _ int) (string, error) {
	if a, ok := l.answers[q.Prompt]; ok {
		return a, nil
	}
	return "?", nil
}

func (l *scriptedLearner) Teach(_ context.Context, topic material.Topic, explanation string) error {
	if topic.Title == l.stopAt {
		return ErrStopped
	}
	l.taught = append(l.taught, topic.Title)
	l.explains = append(l.explains, explanation)
	return nil
}

func (l *scriptedLearner) Review(_ context.Context, missed quiz.Answer, explanation string) {
	l.reviews = append(l.reviews, missed.Question.Prompt+": "+explanation)
}

func (l *scriptedLearner) Done(_ context.Context, r TopicReport) {
	l.done = append(l.done, r)
}

type fixture struct {
	store   *store.Store
	tracker *mastery.Tracker
	user    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "revise.db"), store.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	tr, err := mastery.LoadTracker(ctx, s.Stats("ana"), logging.Discard())
	if err != nil {
		t.Fatalf("LoadTracker() error = %v", err)
	}
	return &fixture{store: s, tracker: tr, user: "ana"}
}

func (f *fixture) tutor(explainer Explainer) *Tutor {
	return New(Deps{
		Progress:   f.store.Progress(f.user),
		Quizzes:    f.store.Quizzes(f.user),
		Cards:      f.store.Cards(f.user),
		Stats:      f.tracker,
		Runner:     quiz.NewRunner(bank, nil, logging.Discard()),
		Explainer:  explainer,
		Thresholds: mastery.DefaultThresholds(),
		Now:        func() time.Time { return testNow },
		Logger:     logging.Discard(),
	})
}

func TestTeach_PassAndFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	learner := &scriptedLearner{answers: map[string]string{
		"Map keys are?": "Unique",
		"Map order?":    "unordered",
		"Lookup by?":    "key",
		"Segment kind?": "contiguous",
	}}

	report, err := f.tutor(nil).Teach(ctx, []material.Topic{mapTopic, sliceTopic}, learner)
	if err != nil {
		t.Fatalf("Teach() error = %v", err)
	}
	if len(report.Topics) != 2 {
		t.Fatalf("taught %d topics, want 2", len(report.Topics))
	}

	m := report.Topics[0]
	if m.Topic != "Maps" || !m.Passed || m.Score != 3 || m.Total != 3 || m.CardsAdded != 2 {
		t.Errorf("Maps report = %+v", m)
	}
	if m.Quiz.Questions != 3 || m.Quiz.Tier != session.TierHard {
		t.Errorf("fresh topic quiz = %+v, want 3 questions on the hard tier", m.Quiz)
	}

	s := report.Topics[1]
	if s.Passed || s.Score != 1 || s.Total != 3 || s.CardsAdded != 0 {
		t.Errorf("Slices report = %+v", s)
	}
	if len(learner.reviews) != 2 || !strings.Contains(learner.reviews[0], `expected answer was "array"`) {
		t.Errorf("reviews = %q", learner.reviews)
	}
	if learner.explains[0] != mapTopic.Content {
		t.Errorf("plain explainer should show the material, got %q", learner.explains[0])
	}
	if len(learner.done) != 2 {
		t.Errorf("Done called %d times, want 2", len(learner.done))
	}

	completed, err := f.store.Progress(f.user).CompletedTopics(ctx)
	if err != nil || len(completed) != 1 || completed[0] != "Maps" {
		t.Errorf("CompletedTopics() = %v, %v", completed, err)
	}
	cards, err := f.store.Cards(f.user).ListTopic(ctx, "Maps")
	if err != nil || len(cards) != 2 || cards[0].Front != "What is Maps?" {
		t.Errorf("Maps cards = %+v, %v", cards, err)
	}
	attempts, err := f.store.Quizzes(f.user).List(ctx, "", 0)
	if err != nil || len(attempts) != 2 {
		t.Fatalf("quiz attempts = %d, %v", len(attempts), err)
	}
	if st := f.tracker.Service().Stats("Slices"); st.QuizAttempts != 3 || st.QuizCorrect != 1 {
		t.Errorf("Slices stats = %+v", st)
	}
}

func TestTeach_SecondPassPrioritisesWeak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	learner := &scriptedLearner{answers: map[string]string{
		"Map keys are?": "unique", "Map order?": "unordered", "Lookup by?": "key",
	}}
	tut := f.tutor(nil)
	if _, err := tut.Teach(ctx, []material.Topic{mapTopic, sliceTopic}, learner); err != nil {
		t.Fatal(err)
	}

	extra := material.Topic{Title: "Interfaces", Content: "An interface type is defined as a set of method signatures."}
	plan, completed, err := tut.Plan(ctx, []material.Topic{mapTopic, extra, sliceTopic})
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 1 || completed[0] != "Maps" {
		t.Errorf("completed = %v, want [Maps]", completed)
	}
	got := plan.Topics()
	if len(got) != 2 || got[0] != "Slices" || got[1] != "Interfaces" {
		t.Fatalf("plan = %v, want [Slices Interfaces]", got)
	}
	weak := plan.Slots[0]
	if weak.Category != session.CategoryWeak || weak.Quiz.Questions != 5 || weak.Quiz.Tier != session.TierEasy {
		t.Errorf("weak slot = %+v", weak)
	}

	report, err := tut.Teach(ctx, []material.Topic{mapTopic, sliceTopic}, learner)
	if err != nil {
		t.Fatal(err)
	}
	if report.Topics[0].Total != 5 {
		t.Errorf("weak topic quiz size = %d, want 5", report.Topics[0].Total)
	}
}

type failingExplainer struct{}

func (failingExplainer) Explain(context.Context, material.Topic) (string, error) {
	return "", errors.New("offline")
}

func (failingExplainer) ExplainMistake(context.Context, string, string) (string, error) {
	return "", errors.New("offline")
}

func TestTeach_ExplainerFailureContinues(t *testing.T) {
	f := newFixture(t)
	learner := &scriptedLearner{}

	report, err := f.tutor(failingExplainer{}).Teach(context.Background(), []material.Topic{sliceTopic}, learner)
	if err != nil {
		t.Fatalf("Teach() error = %v", err)
	}
	if len(report.Topics) != 1 || report.Topics[0].Passed {
		t.Fatalf("report = %+v", report)
	}
	if learner.explains[0] != sliceTopic.Content {
		t.Errorf("explanation fallback = %q", learner.explains[0])
	}
	for _, r := range learner.reviews {
		if !strings.HasSuffix(r, ReviewUnavailable) {
			t.Errorf("review = %q, want unavailable notice", r)
		}
	}
}

func TestTeach_NoQuestionsLeavesTopicIncomplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	empty := material.Topic{Title: "Empty", Content: "Too short."}

	report, err := f.tutor(nil).Teach(ctx, []material.Topic{empty}, &scriptedLearner{})
	if err != nil {
		t.Fatalf("Teach() error = %v", err)
	}
	if !report.Topics[0].Skipped || report.Topics[0].Passed {
		t.Errorf("report = %+v", report.Topics[0])
	}
	completed, _ := f.store.Progress(f.user).CompletedTopics(ctx)
	if len(completed) != 0 {
		t.Errorf("CompletedTopics() = %v, want none", completed)
	}
}

func TestTeach_Stop(t *testing.T) {
	f := newFixture(t)
	learner := &scriptedLearner{stopAt: "Slices"}

	report, err := f.tutor(nil).Teach(context.Background(), []material.Topic{mapTopic, sliceTopic}, learner)
	if err != nil {
		t.Fatalf("Teach() error = %v", err)
	}
	if !report.Stopped || len(report.Topics) != 1 {
		t.Errorf("report = %+v, want stopped after one topic", report)
	}
}

func TestTeach_ExistingCardsNotDuplicated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	learner := &scriptedLearner{answers: map[string]string{
		"Map keys are?": "unique", "Map order?": "unordered", "Lookup by?": "key",
	}}
	tut := f.tutor(nil)
	if _, err := tut.Teach(ctx, []material.Topic{mapTopic}, learner); err != nil {
		t.Fatal(err)
	}
	if err := f.store.Progress(f.user).Reset(ctx, "Maps"); err != nil {
		t.Fatal(err)
	}
	report, err := tut.Teach(ctx, []material.Topic{mapTopic}, learner)
	if err != nil {
		t.Fatal(err)
	}
	if report.Topics[0].CardsAdded != 0 {
		t.Errorf("CardsAdded = %d on second pass, want 0", report.Topics[0].CardsAdded)
	}
}
