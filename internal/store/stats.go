package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/revise/internal/mastery"
)

// StatsRepo stores one user's topic stats. It implements mastery.Repo.
type StatsRepo struct {
	q      querier
	userID string
}

var _ mastery.Repo = (*StatsRepo)(nil)

// LoadStats returns the user's stats in first-recorded order. Rows that
// break a counter invariant yield ErrCorruptStats.
func (r *StatsRepo) LoadStats(ctx context.Context) (*mastery.StatsSnapshot, error) {
	query, args := builder().
		Select("topic", "quiz_attempts", "quiz_correct", "flashcard_reviews", "flashcard_good").
		From(entsql.Table("topic_stats")).
		Where(entsql.EQ("user_id", r.userID)).
		OrderBy("position", "rowid").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load topic stats: %w", err)
	}
	defer rows.Close()

	snap := &mastery.StatsSnapshot{Topics: make(map[string]mastery.TopicStats)}
	for rows.Next() {
		var topic string
		var ts mastery.TopicStats
		if err := rows.Scan(&topic, &ts.QuizAttempts, &ts.QuizCorrect, &ts.FlashcardReviews, &ts.FlashcardGood); err != nil {
			return nil, fmt.Errorf("%w: scan topic stats: %v", ErrCorruptStats, err)
		}
		if !ts.Valid() {
			return nil, fmt.Errorf("%w: topic %q has counters %+v", ErrCorruptStats, topic, ts)
		}
		snap.Order = append(snap.Order, topic)
		snap.Topics[topic] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load topic stats: %w", err)
	}
	return snap, nil
}

// SaveTopic writes a topic's counters. The position is fixed when the topic
// is first saved.
func (r *StatsRepo) SaveTopic(ctx context.Context, topic string, position int, ts mastery.TopicStats) error {
	ins := builder().Insert("topic_stats").
		Columns("user_id", "topic", "position", "quiz_attempts", "quiz_correct", "flashcard_reviews", "flashcard_good").
		Values(r.userID, topic, position, ts.QuizAttempts, ts.QuizCorrect, ts.FlashcardReviews, ts.FlashcardGood).
		OnConflict(
			entsql.ConflictColumns("user_id", "topic"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("quiz_attempts")
				u.SetExcluded("quiz_correct")
				u.SetExcluded("flashcard_reviews")
				u.SetExcluded("flashcard_good")
			}),
		)
	if _, err := execBuilt(ctx, r.q, ins); err != nil {
		return fmt.Errorf("save stats for %q: %w", topic, err)
	}
	return nil
}

// DeleteTopic removes a topic's counters.
func (r *StatsRepo) DeleteTopic(ctx context.Context, topic string) error {
	del := builder().Delete("topic_stats").
		Where(entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("topic", topic)))
	if _, err := execBuilt(ctx, r.q, del); err != nil {
		return fmt.Errorf("delete stats for %q: %w", topic, err)
	}
	return nil
}

// DeleteAll removes all of the user's counters.
func (r *StatsRepo) DeleteAll(ctx context.Context) error {
	del := builder().Delete("topic_stats").Where(entsql.EQ("user_id", r.userID))
	if _, err := execBuilt(ctx, r.q, del); err != nil {
		return fmt.Errorf("delete all stats: %w", err)
	}
	return nil
}

// ReplaceAll overwrites the user's stats with a snapshot.
func (r *StatsRepo) ReplaceAll(ctx context.Context, snap *mastery.StatsSnapshot) error {
	if err := r.DeleteAll(ctx); err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	for i, topic := range snap.Order {
		if err := r.SaveTopic(ctx, topic, i, snap.Topics[topic]); err != nil {
			return err
		}
	}
	return nil
}
