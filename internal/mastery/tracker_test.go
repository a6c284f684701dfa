package mastery

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// memRepo is an in-memory Repo for testing.
type memRepo struct {
	snap    *StatsSnapshot
	loadErr error
	saveErr error
	saved   map[string]TopicStats
	pos     map[string]int
	deleted []string
	cleared bool
}

func newMemRepo() *memRepo {
	return &memRepo{saved: map[string]TopicStats{}, pos: map[string]int{}}
}

func (m *memRepo) LoadStats(context.Context) (*StatsSnapshot, error) {
	return m.snap, m.loadErr
}

func (m *memRepo) SaveTopic(_ context.Context, topic string, position int, ts TopicStats) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[topic] = ts
	m.pos[topic] = position
	return nil
}

func (m *memRepo) DeleteTopic(_ context.Context, topic string) error {
	m.deleted = append(m.deleted, topic)
	return nil
}

func (m *memRepo) DeleteAll(context.Context) error {
	m.cleared = true
	return nil
}

func TestLoadTracker_CorruptStatsRecovers(t *testing.T) {
	repo := newMemRepo()
	repo.snap = &StatsSnapshot{
		Order:  []string{"a"},
		Topics: map[string]TopicStats{"a": {QuizAttempts: 1, QuizCorrect: 5}},
	}

	tr, err := LoadTracker(context.Background(), repo, nil)
	if err != nil {
		t.Fatalf("LoadTracker: %v", err)
	}
	if n := len(tr.Service().Topics()); n != 0 {
		t.Errorf("Topics = %d, want empty after corrupt load", n)
	}
}

func TestLoadTracker_CorruptErrorFromRepo(t *testing.T) {
	repo := newMemRepo()
	repo.loadErr = fmt.Errorf("row 3: %w", ErrCorruptStats)

	if _, err := LoadTracker(context.Background(), repo, nil); err != nil {
		t.Errorf("LoadTracker = %v, want nil", err)
	}
}

func TestLoadTracker_OtherErrorsFail(t *testing.T) {
	repo := newMemRepo()
	repo.loadErr = errors.New("disk gone")

	if _, err := LoadTracker(context.Background(), repo, nil); err == nil {
		t.Error("LoadTracker = nil, want error")
	}
}

func TestTracker_RecordPersistsBeforeApplying(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	tr, _ := LoadTracker(ctx, repo, nil)

	if err := tr.RecordQuiz(ctx, "a", true); err != nil {
		t.Fatalf("RecordQuiz: %v", err)
	}
	if err := tr.RecordFlashcard(ctx, "b", false); err != nil {
		t.Fatalf("RecordFlashcard: %v", err)
	}
	if repo.saved["a"] != (TopicStats{QuizAttempts: 1, QuizCorrect: 1}) {
		t.Errorf("saved a = %+v", repo.saved["a"])
	}
	if repo.pos["b"] != 1 {
		t.Errorf("position of b = %d, want 1", repo.pos["b"])
	}

	repo.saveErr = errors.New("locked")
	if err := tr.RecordQuiz(ctx, "a", false); err == nil {
		t.Fatal("RecordQuiz = nil, want error")
	}
	if got := tr.Service().Stats("a"); got.QuizAttempts != 1 {
		t.Errorf("in-memory stats advanced on failed save: %+v", got)
	}
}

func TestTracker_Reset(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	tr, _ := LoadTracker(ctx, repo, nil)
	_ = tr.RecordQuiz(ctx, "a", true)
	_ = tr.RecordQuiz(ctx, "b", true)

	if err := tr.Reset(ctx, "a"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if tr.Service().Has("a") || len(repo.deleted) != 1 {
		t.Errorf("Reset did not remove a: deleted=%v", repo.deleted)
	}
	if err := tr.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	if !repo.cleared || len(tr.Service().Topics()) != 0 {
		t.Error("ResetAll did not clear stats")
	}
}
