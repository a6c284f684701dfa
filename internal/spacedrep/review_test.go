package spacedrep

import (
	"testing"
	"time"
)

func dueAt(id string, due *time.Time) Card {
	c := Card{ID: id, Topic: "t", State: NewState()}
	c.Due = due
	return c
}

func ptr(t time.Time) *time.Time { return &t }

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectDue_OrderAndFilter(t *testing.T) {
	cards := []Card{
		dueAt("future", ptr(testNow.Add(time.Hour))),
		dueAt("yesterday", ptr(testNow.AddDate(0, 0, -1))),
		dueAt("new-a", nil),
		dueAt("exactly-now", ptr(testNow)),
		dueAt("last-week", ptr(testNow.AddDate(0, 0, -7))),
		dueAt("new-b", nil),
	}

	got := ids(SelectDue(cards, testNow, 0))
	want := []string{"new-a", "new-b", "last-week", "yesterday", "exactly-now"}
	if !equalIDs(got, want) {
		t.Errorf("SelectDue = %v, want %v", got, want)
	}
}

func TestSelectDue_Limit(t *testing.T) {
	cards := []Card{
		dueAt("b", ptr(testNow.AddDate(0, 0, -1))),
		dueAt("a", nil),
		dueAt("c", ptr(testNow.AddDate(0, 0, -2))),
	}
	got := ids(SelectDue(cards, testNow, 2))
	want := []string{"a", "c"}
	if !equalIDs(got, want) {
		t.Errorf("SelectDue limit 2 = %v, want %v", got, want)
	}
}

func TestSelectDue_DoesNotModifyInput(t *testing.T) {
	cards := []Card{
		dueAt("b", ptr(testNow.AddDate(0, 0, -1))),
		dueAt("a", nil),
	}
	SelectDue(cards, testNow, 0)
	if cards[0].ID != "b" || cards[1].ID != "a" {
		t.Errorf("input reordered: %v", ids(cards))
	}
}

func TestSelectDue_Empty(t *testing.T) {
	if got := SelectDue(nil, testNow, 5); len(got) != 0 {
		t.Errorf("SelectDue(nil) = %v, want empty", got)
	}
}

func TestCountDue(t *testing.T) {
	cards := []Card{
		dueAt("a", nil),
		dueAt("b", ptr(testNow.AddDate(0, 0, 3))),
		dueAt("c", ptr(testNow)),
	}
	if got := CountDue(cards, testNow); got != 2 {
		t.Errorf("CountDue = %d, want 2", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		s    State
		want ReviewStatus
	}{
		{"never scheduled", NewState(), ReviewNew},
		{"future", State{IntervalDays: 4, Due: ptr(testNow.AddDate(0, 0, 1))}, ReviewNotDue},
		{"within grace", State{IntervalDays: 4, Due: ptr(testNow.AddDate(0, 0, -1))}, ReviewDue},
		{"past grace", State{IntervalDays: 4, Due: ptr(testNow.AddDate(0, 0, -3))}, ReviewOverdue},
	}
	for _, tt := range tests {
		if got := tt.s.Status(testNow); got != tt.want {
			t.Errorf("%s: Status = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDaysUntilDue(t *testing.T) {
	s := State{Due: ptr(testNow.Add(36 * time.Hour))}
	if got := s.DaysUntilDue(testNow); got != 2 {
		t.Errorf("DaysUntilDue = %d, want 2", got)
	}
	if got := NewState().DaysUntilDue(testNow); got != 0 {
		t.Errorf("DaysUntilDue(new) = %d, want 0", got)
	}
}
