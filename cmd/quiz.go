package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Record quiz outcomes and inspect quiz planning",
}

var quizRecordCmd = &cobra.Command{
	Use:   "record <topic>",
	Short: "Record quiz answers for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		correct, _ := cmd.Flags().GetInt("correct")
		wrong, _ := cmd.Flags().GetInt("wrong")
		return recordOutcomes(cmd, e, args[0], correct, wrong, "quiz")
	}),
}

var quizPlanCmd = &cobra.Command{
	Use:   "plan <topic>",
	Short: "Show the size and difficulty of the next quiz for a topic",
	Long: `Show the size and difficulty of the next quiz for a topic.

Both are derived from quiz accuracy. Size: below 0.5 gives 5 questions at a
0.8 pass ratio, below 0.7 gives 4 at 0.75, otherwise 3 at 0.7. Difficulty:
below 0.5 is easy, below 0.8 is normal, otherwise hard.

A topic with no quiz attempts counts as accuracy 1.0, so its first quiz is
short and marked hard. Whether new topics should start easy instead is an
open product question.`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		tracker, err := e.tracker(cmd.Context())
		if err != nil {
			return err
		}
		cfg := session.QuizConfigFor(tracker.Service(), args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Topic:      %s\n", args[0])
		fmt.Fprintf(out, "Questions:  %d\n", cfg.Questions)
		fmt.Fprintf(out, "Pass ratio: %.2f\n", cfg.PassRatio)
		fmt.Fprintf(out, "Difficulty: %s\n", cfg.Tier)
		return nil
	}),
}

var quizHistoryCmd = &cobra.Command{
	Use:   "history [topic]",
	Short: "List past quiz attempts",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		limit, _ := cmd.Flags().GetInt("limit")
		var topic string
		if len(args) == 1 {
			topic = args[0]
		}

		attempts, err := e.store.Quizzes(e.user).List(cmd.Context(), topic, limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No quiz attempts yet.")
			return nil
		}
		for _, a := range attempts {
			mark := "fail"
			if a.Passed {
				mark = "pass"
			}
			fmt.Fprintf(out, "%-16s  %-24s  %d/%d  %s\n",
				humanize.Time(a.CreatedAt), truncate(a.Topic, 24), a.Score, a.Total, mark)
		}
		return nil
	}),
}

var quizDrillCmd = &cobra.Command{
	Use:   "drill [topic]",
	Short: "Go over random questions from past quizzes",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return errors.New("--limit must be positive")
		}
		var topic string
		if len(args) == 1 {
			topic = strings.TrimSpace(args[0])
		}

		attempts, err := e.store.Quizzes(e.user).List(cmd.Context(), topic, 0)
		if err != nil {
			return err
		}
		con := newConsole(cmd.InOrStdin(), cmd.OutOrStdout())
		if len(attempts) == 0 {
			if topic == "" {
				con.println("No quiz attempts yet.")
			} else {
				con.printf("No quiz attempts for %q.\n", topic)
			}
			return nil
		}

		type drillItem struct {
			topic string
			store.AnswerRecord
		}
		var pool []drillItem
		for _, a := range attempts {
			for _, rec := range a.Answers {
				pool = append(pool, drillItem{topic: a.Topic, AnswerRecord: rec})
			}
		}
		if len(pool) == 0 {
			con.println("No questions recorded.")
			return nil
		}
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		pool = pool[:min(limit, len(pool))]

		title := topic
		if title == "" {
			title = "all topics"
		}
		con.printf("== Drill: %s ==\n", title)
		for i, item := range pool {
			con.printf("\nQuestion %d of %d [%s]\n", i+1, len(pool), item.topic)
			con.printf("Q: %s\n", item.Question)
			line, err := con.ask("Press Enter to reveal (q to stop): ")
			if errors.Is(err, io.EOF) || (err == nil && isQuit(line)) {
				con.printf("Stopped after %d of %d questions.\n", i, len(pool))
				return nil
			}
			if err != nil {
				return err
			}
			con.printf("A: %s\n", item.Expected)
			if item.Answer != "" {
				mark := "missed"
				if item.Correct {
					mark = "correct"
				}
				con.printf("You answered %q (%s).\n", item.Answer, mark)
			}
		}
		return nil
	}),
}

var flashcardCmd = &cobra.Command{
	Use:   "flashcard",
	Short: "Record flashcard outcomes reviewed outside revise",
}

var flashcardRecordCmd = &cobra.Command{
	Use:   "record <topic>",
	Short: "Record flashcard reviews for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		good, _ := cmd.Flags().GetInt("good")
		again, _ := cmd.Flags().GetInt("again")
		return recordOutcomes(cmd, e, args[0], good, again, "flashcard")
	}),
}

func init() {
	quizRecordCmd.Flags().Int("correct", 0, "Number of correct answers")
	quizRecordCmd.Flags().Int("wrong", 0, "Number of wrong answers")
	quizHistoryCmd.Flags().Int("limit", 20, "Maximum number of attempts to list")
	quizDrillCmd.Flags().Int("limit", 3, "Number of questions to drill")

	flashcardRecordCmd.Flags().Int("good", 0, "Number of successful reviews")
	flashcardRecordCmd.Flags().Int("again", 0, "Number of failed reviews")

	quizCmd.AddCommand(quizRecordCmd)
	quizCmd.AddCommand(quizPlanCmd)
	quizCmd.AddCommand(quizHistoryCmd)
	quizCmd.AddCommand(quizDrillCmd)
	flashcardCmd.AddCommand(flashcardRecordCmd)
}

// recordOutcomes adds ok successes and bad failures of kind to a topic.
func recordOutcomes(cmd *cobra.Command, e *env, topic string, ok, bad int, kind string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("topic must not be empty")
	}
	if ok < 0 || bad < 0 {
		return errors.New("counts must not be negative")
	}
	if ok+bad == 0 {
		return errors.New("nothing to record")
	}

	ctx := cmd.Context()
	tracker, err := e.tracker(ctx)
	if err != nil {
		return err
	}
	record := tracker.RecordQuiz
	if kind == "flashcard" {
		record = tracker.RecordFlashcard
	}
	for i := range ok + bad {
		if err := record(ctx, topic, i < ok); err != nil {
			return err
		}
	}

	ts := tracker.Service().Stats(topic)
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d %s results for %q: quiz %d/%d, flashcards %d/%d.\n",
		ok+bad, kind, topic, ts.QuizCorrect, ts.QuizAttempts, ts.FlashcardGood, ts.FlashcardReviews)
	return nil
}
