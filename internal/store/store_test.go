package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 10, 18, 4, 5, 123456789, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "revise.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestMigrationsApplied(t *testing.T) {
	s := openTestStore(t)

	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, table := range []string{"users", "cards", "topic_stats", "topic_progress", "quiz_attempts", "llm_request_events"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "revise.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Users().Touch(ctx, "ana", testNow))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ana", users[0].ID)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	users := s.Users()

	require.NoError(t, users.Touch(ctx, "ana", testNow))
	require.NoError(t, users.Touch(ctx, "ben", testNow.Add(time.Hour)))
	require.NoError(t, users.Touch(ctx, "ana", testNow.Add(2*time.Hour)))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ana", list[0].ID)
	assert.True(t, list[0].CreatedAt.Equal(testNow), "created_at kept on touch")
	assert.True(t, list[0].LastActive.Equal(testNow.Add(2*time.Hour)))

	require.NoError(t, users.Delete(ctx, "ben"))
	assert.ErrorIs(t, users.Delete(ctx, "ben"), ErrNotFound)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("REVISE_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "x.db"), p)
	assert.DirExists(t, filepath.Join(dir, "custom"))

	t.Setenv("REVISE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "revise", "revise.db"), p)
}
