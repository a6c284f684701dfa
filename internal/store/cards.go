package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/revise/internal/spacedrep"
)

var cardColumns = []string{
	"id", "topic", "front", "back",
	"repetitions", "interval_days", "ease_factor",
	"last_reviewed", "due", "created_at",
}

// CardRepo stores one user's cards.
type CardRepo struct {
	q      querier
	userID string
}

// AddCard inserts a card. It returns false, and writes nothing, when the
// topic already holds a card with the same normalized front.
func (r *CardRepo) AddCard(ctx context.Context, c spacedrep.Card) (bool, error) {
	ins := builder().Insert("cards").
		Columns(append([]string{"user_id", "front_key"}, cardColumns...)...).
		Values(append([]any{r.userID, spacedrep.NormalizeFront(c.Front)}, cardValues(c)...)...).
		OnConflict(
			entsql.ConflictColumns("user_id", "topic", "front_key"),
			entsql.DoNothing(),
		)
	res, err := execBuilt(ctx, r.q, ins)
	if err != nil {
		return false, fmt.Errorf("add card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add card: %w", err)
	}
	return n > 0, nil
}

// GetCard returns a card by id.
func (r *CardRepo) GetCard(ctx context.Context, id string) (spacedrep.Card, error) {
	query, args := builder().Select(cardColumns...).
		From(entsql.Table("cards")).
		Where(entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("id", id))).
		Query()
	c, err := scanCard(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return spacedrep.Card{}, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return spacedrep.Card{}, fmt.Errorf("get card %s: %w", id, err)
	}
	return c, nil
}

// ListCards returns all of the user's cards in creation order.
func (r *CardRepo) ListCards(ctx context.Context) ([]spacedrep.Card, error) {
	return r.list(ctx, entsql.EQ("user_id", r.userID))
}

// ListTopic returns the cards of one topic in creation order.
func (r *CardRepo) ListTopic(ctx context.Context, topic string) ([]spacedrep.Card, error) {
	return r.list(ctx, entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("topic", topic)))
}

func (r *CardRepo) list(ctx context.Context, where *entsql.Predicate) ([]spacedrep.Card, error) {
	query, args := builder().Select(cardColumns...).
		From(entsql.Table("cards")).
		Where(where).
		OrderBy("created_at", "rowid").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []spacedrep.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Topics returns the distinct topics that have cards, alphabetically.
func (r *CardRepo) Topics(ctx context.Context) ([]string, error) {
	query, args := builder().Select("topic").
		From(entsql.Table("cards")).
		Where(entsql.EQ("user_id", r.userID)).
		Distinct().
		OrderBy("topic").
		Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list card topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// UpdateCard writes a card's content and scheduling state.
func (r *CardRepo) UpdateCard(ctx context.Context, c spacedrep.Card) error {
	upd := builder().Update("cards").
		Set("topic", c.Topic).
		Set("front", c.Front).
		Set("back", c.Back).
		Set("front_key", spacedrep.NormalizeFront(c.Front)).
		Set("repetitions", c.Repetitions).
		Set("interval_days", c.IntervalDays).
		Set("ease_factor", c.EaseFactor).
		Set("last_reviewed", nullTime(c.LastReviewed)).
		Set("due", nullTime(c.Due)).
		Where(entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("id", c.ID)))
	res, err := execBuilt(ctx, r.q, upd)
	if err != nil {
		return fmt.Errorf("update card %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

// DeleteCard removes a card by id.
func (r *CardRepo) DeleteCard(ctx context.Context, id string) error {
	del := builder().Delete("cards").
		Where(entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("id", id)))
	res, err := execBuilt(ctx, r.q, del)
	if err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearTopic removes every card of a topic and returns how many were removed.
func (r *CardRepo) ClearTopic(ctx context.Context, topic string) (int64, error) {
	return r.clear(ctx, entsql.And(entsql.EQ("user_id", r.userID), entsql.EQ("topic", topic)))
}

// ClearAll removes all of the user's cards.
func (r *CardRepo) ClearAll(ctx context.Context) (int64, error) {
	return r.clear(ctx, entsql.EQ("user_id", r.userID))
}

func (r *CardRepo) clear(ctx context.Context, where *entsql.Predicate) (int64, error) {
	res, err := execBuilt(ctx, r.q, builder().Delete("cards").Where(where))
	if err != nil {
		return 0, fmt.Errorf("clear cards: %w", err)
	}
	return res.RowsAffected()
}

func cardValues(c spacedrep.Card) []any {
	return []any{
		c.ID, c.Topic, c.Front, c.Back,
		c.Repetitions, c.IntervalDays, c.EaseFactor,
		nullTime(c.LastReviewed), nullTime(c.Due), formatTime(c.CreatedAt),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads a card row. Missing scheduling fields are replaced by
// defaults; an unreadable due time leaves the card immediately due.
func scanCard(row rowScanner) (spacedrep.Card, error) {
	var (
		c         spacedrep.Card
		reps, ivl sql.NullInt64
		ease      sql.NullFloat64
		last, due sql.NullString
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Topic, &c.Front, &c.Back, &reps, &ivl, &ease, &last, &due, &createdAt); err != nil {
		return spacedrep.Card{}, err
	}
	c.Repetitions = int(reps.Int64)
	c.IntervalDays = int(ivl.Int64)
	c.EaseFactor = ease.Float64
	c.LastReviewed = parseNullTime(last)
	c.Due = parseNullTime(due)
	c.CreatedAt = parseTime(createdAt)
	c.State = spacedrep.Restore(c.State)
	return c, nil
}
