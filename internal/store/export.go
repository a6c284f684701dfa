package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/revise/internal/mastery"
	"github.com/abhisek/revise/internal/spacedrep"
)

// FormatVersion is the version of the export document format. Imports accept
// any version with the same major number.
const FormatVersion = "v1.1.0"

// ErrFormatVersion is returned when an export document has an unsupported
// format version.
var ErrFormatVersion = errors.New("unsupported export format version")

// Export is a portable snapshot of one user's state.
type Export struct {
	FormatVersion string                 `json:"format_version"`
	UserID        string                 `json:"user_id"`
	ExportedAt    time.Time              `json:"exported_at"`
	Cards         []spacedrep.Card       `json:"cards"`
	Stats         *mastery.StatsSnapshot `json:"stats"`
	Progress      []TopicProgress        `json:"progress"`
	QuizAttempts  []QuizAttempt          `json:"quiz_attempts,omitempty"`
}

// CheckFormatVersion returns ErrFormatVersion unless v is a valid semantic
// version with the same major version as FormatVersion.
func CheckFormatVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrFormatVersion, v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: %s, want %s.x.y", ErrFormatVersion, v, semver.Major(FormatVersion))
	}
	return nil
}

// ExportUser collects a user's cards, stats, progress and quiz history.
func (s *Store) ExportUser(ctx context.Context, userID string, now time.Time) (*Export, error) {
	cards, err := s.Cards(userID).ListCards(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(userID).LoadStats(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.Progress(userID).List(ctx)
	if err != nil {
		return nil, err
	}
	attempts, err := s.Quizzes(userID).List(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	return &Export{
		FormatVersion: FormatVersion,
		UserID:        userID,
		ExportedAt:    now,
		Cards:         cards,
		Stats:         stats,
		Progress:      progress,
		QuizAttempts:  attempts,
	}, nil
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	CardsAdded     int
	CardsUpdated   int
	CardsSkipped   int
	StatsTopics    int
	ProgressTopics int
	QuizAttempts   int
}

// ImportUser loads an export into userID's state in one transaction. With
// replace set, the user's existing cards, stats, progress and quiz history
// are removed first; otherwise cards are merged by id, duplicate fronts are
// skipped and stats are overwritten only when the export carries any.
func (s *Store) ImportUser(ctx context.Context, userID string, exp *Export, replace bool) (ImportResult, error) {
	var res ImportResult
	if err := CheckFormatVersion(exp.FormatVersion); err != nil {
		return res, err
	}
	if err := exp.Stats.Validate(); err != nil {
		return res, fmt.Errorf("import stats: %w", err)
	}

	err := s.InTx(ctx, func(tx *Tx) error {
		cards := tx.Cards(userID)
		if replace {
			if _, err := cards.ClearAll(ctx); err != nil {
				return err
			}
			if err := tx.Progress(userID).Reset(ctx, ""); err != nil {
				return err
			}
			if err := tx.Quizzes(userID).DeleteAll(ctx); err != nil {
				return err
			}
		}

		for _, c := range exp.Cards {
			c.State = spacedrep.Restore(c.State)
			_, err := cards.GetCard(ctx, c.ID)
			switch {
			case err == nil:
				if err := cards.UpdateCard(ctx, c); err != nil {
					return err
				}
				res.CardsUpdated++
				continue
			case !errors.Is(err, ErrNotFound):
				return err
			}
			added, err := cards.AddCard(ctx, c)
			if err != nil {
				return err
			}
			if added {
				res.CardsAdded++
			} else {
				res.CardsSkipped++
			}
		}

		if replace || (exp.Stats != nil && len(exp.Stats.Order) > 0) {
			if err := tx.Stats(userID).ReplaceAll(ctx, exp.Stats); err != nil {
				return err
			}
			if exp.Stats != nil {
				res.StatsTopics = len(exp.Stats.Order)
			}
		}

		for _, p := range exp.Progress {
			if err := tx.Progress(userID).Put(ctx, p); err != nil {
				return err
			}
			res.ProgressTopics++
		}

		for _, a := range exp.QuizAttempts {
			if _, err := tx.Quizzes(userID).Append(ctx, a); err != nil {
				return err
			}
			res.QuizAttempts++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import user %q: %w", userID, err)
	}
	return res, nil
}
