package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/revise/internal/mastery"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorruptStats is returned when persisted stats violate their invariants.
var ErrCorruptStats = mastery.ErrCorruptStats

// Store owns the SQLite connection and hands out per-user repositories.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migrations and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open connects to the SQLite database at dsn, applies pragmas and runs
// pending migrations.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	s := &Store{logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; also keeps in-memory databases on a single connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(ctx, db, s.logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.db = db
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Users returns the local user registry.
func (s *Store) Users() *UserRepo {
	return &UserRepo{q: s.db}
}

// Cards returns the card repository for a user.
func (s *Store) Cards(userID string) *CardRepo {
	return &CardRepo{q: s.db, userID: userID}
}

// Stats returns the topic stats repository for a user.
func (s *Store) Stats(userID string) *StatsRepo {
	return &StatsRepo{q: s.db, userID: userID}
}

// Progress returns the topic progress repository for a user.
func (s *Store) Progress(userID string) *ProgressRepo {
	return &ProgressRepo{q: s.db, userID: userID}
}

// Quizzes returns the quiz attempt repository for a user.
func (s *Store) Quizzes(userID string) *QuizRepo {
	return &QuizRepo{q: s.db, userID: userID}
}

// Events returns the LLM request event repository for a user.
func (s *Store) Events(userID string) *LLMEventRepo {
	return &LLMEventRepo{q: s.db, userID: userID}
}

// InTx runs fn inside a transaction. The Tx passed to fn routes every
// repository through the transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Tx exposes per-user repositories bound to a transaction.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Users() *UserRepo { return &UserRepo{q: t.tx} }
func (t *Tx) Cards(userID string) *CardRepo { return &CardRepo{q: t.tx, userID: userID} }
func (t *Tx) Stats(userID string) *StatsRepo { return &StatsRepo{q: t.tx, userID: userID} }
func (t *Tx) Progress(userID string) *ProgressRepo { return &ProgressRepo{q: t.tx, userID: userID} }
func (t *Tx) Quizzes(userID string) *QuizRepo { return &QuizRepo{q: t.tx, userID: userID} }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// execBuilt runs a built statement.
func execBuilt(ctx context.Context, q querier, b interface{ Query() (string, []any) }) (sql.Result, error) {
	query, args := b.Query()
	return q.ExecContext(ctx, query, args...)
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. REVISE_DB environment variable
// 2. $XDG_DATA_HOME/revise/revise.db
// 3. ~/.local/share/revise/revise.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("REVISE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "revise", "revise.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// parseNullTime returns nil for NULL or unparseable values.
func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
