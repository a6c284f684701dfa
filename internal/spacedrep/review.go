package spacedrep

import (
	"sort"
	"time"
)

// ReviewStatus describes a card's review status for display.
type ReviewStatus string

const (
	ReviewNew     ReviewStatus = "new"
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
)

// Status returns the review status for UI display. A card counts as overdue
// once it is past due by more than half of its interval.
func (s State) Status(now time.Time) ReviewStatus {
	if s.Due == nil {
		return ReviewNew
	}
	if !s.IsDue(now) {
		return ReviewNotDue
	}
	grace := float64(s.IntervalDays) * 0.5
	if s.OverdueDays(now) > grace {
		return ReviewOverdue
	}
	return ReviewDue
}

// SelectDue returns the cards due at now, never-scheduled cards first and the
// rest by ascending due time. Ties keep input order. A positive limit
// truncates the result after sorting. The input slice is not modified.
func SelectDue(cards []Card, now time.Time, limit int) []Card {
	due := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].Due, due[j].Due
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}

// CountDue returns the number of cards due at now.
func CountDue(cards []Card, now time.Time) int {
	n := 0
	for _, c := range cards {
		if c.IsDue(now) {
			n++
		}
	}
	return n
}
