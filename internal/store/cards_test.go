package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/revise/internal/spacedrep"
)

func TestCards_AddGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Cards("ana")

	c := spacedrep.NewCard("Go", "What is a channel?", "A typed conduit", testNow)
	added, err := repo.AddCard(ctx, c)
	require.NoError(t, err)
	assert.True(t, added)

	got, err := repo.GetCard(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Front, got.Front)
	assert.Equal(t, c.Back, got.Back)
	assert.Equal(t, 2.5, got.EaseFactor)
	assert.Equal(t, 1, got.IntervalDays)
	assert.Nil(t, got.Due, "unscheduled card has no due")
	assert.Nil(t, got.LastReviewed)
	assert.True(t, got.CreatedAt.Equal(testNow))
}

func TestCards_ScheduledFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Cards("ana")

	c := spacedrep.NewCard("Go", "front", "back", testNow)
	_, err := repo.AddCard(ctx, c)
	require.NoError(t, err)

	sched := spacedrep.NewScheduler(spacedrep.Graded{}).WithClock(func() time.Time { return testNow })
	reviewed, err := sched.Review(c, 5)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateCard(ctx, reviewed))

	got, err := repo.GetCard(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, 2.6, got.EaseFactor)
	require.NotNil(t, got.Due)
	require.NotNil(t, got.LastReviewed)
	assert.True(t, got.Due.Equal(testNow.AddDate(0, 0, 1)))
	assert.True(t, got.LastReviewed.Equal(testNow))
}

func TestCards_DuplicateFrontSkipped(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Cards("ana")

	_, err := repo.AddCard(ctx, spacedrep.NewCard("Go", "What is a slice?", "a", testNow))
	require.NoError(t, err)

	added, err := repo.AddCard(ctx, spacedrep.NewCard("Go", "  what is a SLICE? ", "b", testNow))
	require.NoError(t, err)
	assert.False(t, added)

	added, err = repo.AddCard(ctx, spacedrep.NewCard("Rust", "What is a slice?", "c", testNow))
	require.NoError(t, err)
	assert.True(t, added, "same front in another topic is allowed")

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestCards_MissingFieldsDefaulted(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.DB().Exec(`INSERT INTO cards (id, user_id, topic, front, back, front_key, repetitions, interval_days, ease_factor, last_reviewed, due, created_at)
		VALUES ('legacy', 'ana', 'Go', 'f', 'b', 'f', NULL, NULL, NULL, NULL, 'not-a-time', ?)`, formatTime(testNow))
	require.NoError(t, err)

	got, err := s.Cards("ana").GetCard(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Repetitions)
	assert.Equal(t, 1, got.IntervalDays)
	assert.Equal(t, 2.5, got.EaseFactor)
	assert.Nil(t, got.Due)
	assert.True(t, got.IsDue(testNow))
}

func TestCards_UserIsolation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	ana, ben := s.Cards("ana"), s.Cards("ben")

	c := spacedrep.NewCard("Go", "front", "back", testNow)
	_, err := ana.AddCard(ctx, c)
	require.NoError(t, err)

	_, err = ben.GetCard(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, ben.UpdateCard(ctx, c), ErrNotFound)
	assert.ErrorIs(t, ben.DeleteCard(ctx, c.ID), ErrNotFound)

	n, err := ben.ClearAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	cards, err := ana.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestCards_ListTopicsAndClear(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Cards("ana")

	for i, topic := range []string{"Go", "SQL", "Go"} {
		c := spacedrep.NewCard(topic, "q"+string(rune('a'+i)), "a", testNow.Add(time.Duration(i)*time.Second))
		_, err := repo.AddCard(ctx, c)
		require.NoError(t, err)
	}

	topics, err := repo.Topics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, topics)

	goCards, err := repo.ListTopic(ctx, "Go")
	require.NoError(t, err)
	require.Len(t, goCards, 2)
	assert.Equal(t, "qa", goCards[0].Front)

	n, err := repo.ClearTopic(ctx, "Go")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := repo.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCards_EditAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Cards("ana")

	c := spacedrep.NewCard("Go", "old", "back", testNow)
	_, err := repo.AddCard(ctx, c)
	require.NoError(t, err)

	c.Front = "new"
	require.NoError(t, repo.UpdateCard(ctx, c))
	got, err := repo.GetCard(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Front)

	require.NoError(t, repo.DeleteCard(ctx, c.ID))
	_, err = repo.GetCard(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
