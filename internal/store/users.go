package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// UserRepo manages the local user registry.
type UserRepo struct {
	q querier
}

// Touch registers a user on first use and bumps last_active afterwards.
func (r *UserRepo) Touch(ctx context.Context, id string, now time.Time) error {
	ins := builder().Insert("users").
		Columns("id", "created_at", "last_active").
		Values(id, formatTime(now), formatTime(now)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("last_active")
			}),
		)
	if _, err := execBuilt(ctx, r.q, ins); err != nil {
		return fmt.Errorf("touch user %q: %w", id, err)
	}
	return nil
}

// List returns all users, most recently active first.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	query, args := builder().Select("id", "created_at", "last_active").
		From(entsql.Table("users")).
		OrderBy(entsql.Desc("last_active"), "id").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var created, active string
		if err := rows.Scan(&u.ID, &created, &active); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.CreatedAt = parseTime(created)
		u.LastActive = parseTime(active)
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete removes a user and every row owned by them.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	for _, table := range []string{"cards", "topic_stats", "topic_progress", "quiz_attempts", "llm_request_events"} {
		del := builder().Delete(table).Where(entsql.EQ("user_id", id))
		if _, err := execBuilt(ctx, r.q, del); err != nil {
			return fmt.Errorf("delete %s of user %q: %w", table, id, err)
		}
	}
	res, err := execBuilt(ctx, r.q, builder().Delete("users").Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete user %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	return nil
}
