package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var progressColumns = []string{"topic", "completed", "quiz_score", "quiz_total", "last_attempt"}

// ProgressRepo stores one user's per-topic progress.
type ProgressRepo struct {
	q      querier
	userID string
}

// Get returns a topic's progress. Unknown topics return a zero record.
func (r *ProgressRepo) Get(ctx context.Context, topic string) (TopicProgress, error) {
	query, args := builder().Select(progressColumns...).
		From(entsql.Table("topic_progress")).
		Where(entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("topic", topic))).
		Query()
	p, err := scanProgress(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return TopicProgress{Topic: topic}, nil
	}
	if err != nil {
		return TopicProgress{}, fmt.Errorf("get progress for %q: %w", topic, err)
	}
	return p, nil
}

// List returns all progress records ordered by topic.
func (r *ProgressRepo) List(ctx context.Context) ([]TopicProgress, error) {
	query, args := builder().Select(progressColumns...).
		From(entsql.Table("topic_progress")).
		Where(entsql.EQ("user_id", r.userID)).
		OrderBy("topic").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []TopicProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CompletedTopics returns the completed topics ordered by topic.
func (r *ProgressRepo) CompletedTopics(ctx context.Context) ([]string, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var done []string
	for _, p := range all {
		if p.Completed {
			done = append(done, p.Topic)
		}
	}
	return done, nil
}

// RecordAttempt stores the latest quiz score for a topic. A passing attempt
// marks the topic completed; a failing one never clears completion.
func (r *ProgressRepo) RecordAttempt(ctx context.Context, topic string, score, total int, passed bool, at time.Time) error {
	p, err := r.Get(ctx, topic)
	if err != nil {
		return err
	}
	p.QuizScore = score
	p.QuizTotal = total
	p.Completed = p.Completed || passed
	p.LastAttempt = &at
	return r.Put(ctx, p)
}

// MarkCompleted marks a topic completed without touching its score.
func (r *ProgressRepo) MarkCompleted(ctx context.Context, topic string) error {
	p, err := r.Get(ctx, topic)
	if err != nil {
		return err
	}
	p.Completed = true
	return r.Put(ctx, p)
}

// Put writes a progress record, replacing any existing one.
func (r *ProgressRepo) Put(ctx context.Context, p TopicProgress) error {
	ins := builder().Insert("topic_progress").
		Columns("user_id", "topic", "completed", "quiz_score", "quiz_total", "last_attempt").
		Values(r.userID, p.Topic, boolInt(p.Completed), p.QuizScore, p.QuizTotal, nullTime(p.LastAttempt)).
		OnConflict(
			entsql.ConflictColumns("user_id", "topic"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := execBuilt(ctx, r.q, ins); err != nil {
		return fmt.Errorf("save progress for %q: %w", p.Topic, err)
	}
	return nil
}

// Reset removes a topic's progress, or all progress when topic is empty.
func (r *ProgressRepo) Reset(ctx context.Context, topic string) error {
	where := entsql.EQ("user_id", r.userID)
	if topic != "" {
		where = entsql.And(where, entsql.EQ("topic", topic))
	}
	if _, err := execBuilt(ctx, r.q, builder().Delete("topic_progress").Where(where)); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

func scanProgress(row rowScanner) (TopicProgress, error) {
	var p TopicProgress
	var completed int
	var last sql.NullString
	if err := row.Scan(&p.Topic, &completed, &p.QuizScore, &p.QuizTotal, &last); err != nil {
		return TopicProgress{}, err
	}
	p.Completed = completed != 0
	p.LastAttempt = parseNullTime(last)
	return p, nil
}
