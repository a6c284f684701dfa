package session

import (
	"reflect"
	"testing"
)

func TestOrderTopics(t *testing.T) {
	tests := []struct {
		name                 string
		all, completed, weak []string
		want                 []string
	}{
		{
			name: "weak first in input order",
			all:  []string{"a", "b", "c", "d", "e"},
			weak: []string{"d", "b"},
			want: []string{"b", "d", "a", "c", "e"},
		},
		{
			name:      "completed excluded even when weak",
			all:       []string{"a", "b", "c"},
			completed: []string{"b"},
			weak:      []string{"b", "c"},
			want:      []string{"c", "a"},
		},
		{
			name:      "all completed",
			all:       []string{"a", "b"},
			completed: []string{"a", "b"},
			want:      nil,
		},
		{
			name: "duplicates kept once",
			all:  []string{"a", "b", "a"},
			weak: []string{"a"},
			want: []string{"a", "b"},
		},
		{
			name: "weak topic not in all is ignored",
			all:  []string{"a"},
			weak: []string{"z"},
			want: []string{"a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderTopics(tt.all, tt.completed, tt.weak)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OrderTopics = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderTopics_NeverIncludesCompleted(t *testing.T) {
	all := []string{"t1", "t2", "t3", "t4", "t5", "t6"}
	for mask := 0; mask < 1<<len(all); mask++ {
		var completed, weak []string
		for i, topic := range all {
			if mask&(1<<i) != 0 {
				completed = append(completed, topic)
			}
			if i%2 == 0 {
				weak = append(weak, topic)
			}
		}
		done := toSet(completed)
		for _, topic := range OrderTopics(all, completed, weak) {
			if done[topic] {
				t.Fatalf("mask %b: completed topic %s returned", mask, topic)
			}
		}
	}
}

func TestOrderTopics_Deterministic(t *testing.T) {
	all := []string{"q", "w", "e", "r", "t", "y"}
	weak := []string{"y", "e", "q"}
	first := OrderTopics(all, nil, weak)
	for i := 0; i < 20; i++ {
		if got := OrderTopics(all, nil, weak); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v differs from %v", i, got, first)
		}
	}
}
