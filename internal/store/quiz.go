package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// QuizRepo stores one user's quiz attempts.
type QuizRepo struct {
	q      querier
	userID string
}

// Append stores an attempt. An empty ID is filled with a new uuid.
func (r *QuizRepo) Append(ctx context.Context, a QuizAttempt) (QuizAttempt, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Answers == nil {
		a.Answers = []AnswerRecord{}
	}
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return a, fmt.Errorf("encode answers: %w", err)
	}

	ins := builder().Insert("quiz_attempts").
		Columns("id", "user_id", "topic", "score", "total", "passed", "answers_json", "created_at").
		Values(a.ID, r.userID, a.Topic, a.Score, a.Total, boolInt(a.Passed), string(answers), formatTime(a.CreatedAt)).
		OnConflict(entsql.ConflictColumns("user_id", "id"), entsql.DoNothing())
	if _, err := execBuilt(ctx, r.q, ins); err != nil {
		return a, fmt.Errorf("save quiz attempt: %w", err)
	}
	return a, nil
}

// List returns attempts newest first, optionally for one topic. A positive
// limit caps the result.
func (r *QuizRepo) List(ctx context.Context, topic string, limit int) ([]QuizAttempt, error) {
	where := entsql.EQ("user_id", r.userID)
	if topic != "" {
		where = entsql.And(where, entsql.EQ("topic", topic))
	}
	sel := builder().Select("id", "topic", "score", "total", "passed", "answers_json", "created_at").
		From(entsql.Table("quiz_attempts")).
		Where(where).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []QuizAttempt
	for rows.Next() {
		var a QuizAttempt
		var passed int
		var answers, created string
		if err := rows.Scan(&a.ID, &a.Topic, &a.Score, &a.Total, &passed, &answers, &created); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		a.Passed = passed != 0
		a.CreatedAt = parseTime(created)
		if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of attempt %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAll removes the user's quiz history.
func (r *QuizRepo) DeleteAll(ctx context.Context) error {
	if _, err := execBuilt(ctx, r.q, builder().Delete("quiz_attempts").Where(entsql.EQ("user_id", r.userID))); err != nil {
		return fmt.Errorf("delete quiz attempts: %w", err)
	}
	return nil
}
