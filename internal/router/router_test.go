package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revise/internal/screen"
)

type stubScreen struct {
	title   string
	inits   int
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestInitRunsInitialScreen(t *testing.T) {
	first := &stubScreen{title: "review"}
	r := New(first)
	r.Init()

	if first.inits != 1 {
		t.Errorf("inits = %d, want 1", first.inits)
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "review"})
	next := &stubScreen{title: "summary"}
	r.Replace(next)

	if r.Active().Title() != "summary" {
		t.Errorf("active = %q, want summary", r.Active().Title())
	}
	if next.inits != 1 {
		t.Error("Replace should run the new screen's Init")
	}
}

func TestReplaceScreenMsgIsNotForwarded(t *testing.T) {
	first := &stubScreen{title: "review"}
	r := New(first)
	next := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: next})

	if first.updates != 0 {
		t.Errorf("old screen saw %d updates, want 0", first.updates)
	}
	if got := r.View(80, 24); got != "summary" {
		t.Errorf("View = %q, want summary", got)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	first := &stubScreen{title: "review"}
	r := New(first)
	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if first.updates != 1 {
		t.Errorf("updates = %d, want 1", first.updates)
	}
}

func TestNilRouter(t *testing.T) {
	r := New(nil)
	if r.Init() != nil || r.Update(nil) != nil || r.View(80, 24) != "" {
		t.Error("a router without a screen should be inert")
	}
}
