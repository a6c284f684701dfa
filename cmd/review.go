package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/app"
	"github.com/abhisek/revise/internal/config"
	"github.com/abhisek/revise/internal/session"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the flashcards that are due",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")
		plain, _ := cmd.Flags().GetBool("plain")

		sched, err := e.scheduler()
		if err != nil {
			return err
		}
		tracker, err := e.tracker(ctx)
		if err != nil {
			return err
		}

		rs := session.NewReviewSession(e.cards(), tracker, sched, session.ReviewOptions{
			Limit:  e.cfg.Review.Limit,
			Topic:  topic,
			Logger: e.logger,
		})

		var sum *session.Summary
		if plain {
			con := newConsole(cmd.InOrStdin(), cmd.OutOrStdout())
			if err := rs.Run(ctx, plainRater{con}); err != nil {
				return err
			}
			sum = rs.Summary()
		} else {
			if sum, err = app.RunReview(ctx, rs); err != nil {
				return err
			}
		}
		printReviewSummary(cmd.OutOrStdout(), sum)
		return nil
	}),
}

func init() {
	reviewCmd.Flags().Int("limit", 0, "Maximum number of cards in the session (default from config)")
	cobra.CheckErr(config.BindFlag(reviewCmd.Flags(), "limit", "review.limit"))
	reviewCmd.Flags().String("topic", "", "Only review cards of this topic")
	reviewCmd.Flags().Bool("plain", false, "Line-by-line review instead of the full-screen view")
}

// plainRater asks for ratings on the console.
type plainRater struct {
	con *console
}

func (r plainRater) Rate(_ context.Context, p session.Prompt) (int, error) {
	lo, hi := p.Policy.RatingRange()
	if p.LastErr != nil {
		r.con.printf("  %v\n", p.LastErr)
	} else {
		r.con.printf("\n[%d/%d] %s\n", p.Index+1, p.Total, p.Card.Topic)
		r.con.printf("  Q: %s\n", p.Card.Front)
		line, err := r.con.ask("  (enter to show the answer, q to stop) ")
		if err != nil {
			return 0, stopOnEOF(err)
		}
		if isQuit(line) {
			return 0, session.ErrCancelled
		}
		r.con.printf("  A: %s\n", p.Card.Back)
		for i, label := range p.Policy.Labels() {
			r.con.printf("    %d  %s\n", lo+i, label)
		}
	}

	for {
		line, err := r.con.ask(fmt.Sprintf("  Rating %d-%d: ", lo, hi))
		if err != nil {
			return 0, stopOnEOF(err)
		}
		if isQuit(line) {
			return 0, session.ErrCancelled
		}
		rating, err := strconv.Atoi(line)
		if err != nil {
			r.con.println("  Enter a number.")
			continue
		}
		return rating, nil
	}
}

// stopOnEOF turns the end of input into a clean stop.
func stopOnEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return session.ErrCancelled
	}
	return err
}

func printReviewSummary(out io.Writer, sum *session.Summary) {
	if sum.Reviewed == 0 && !sum.Cancelled {
		fmt.Fprintln(out, "Nothing due. Come back later.")
		return
	}
	fmt.Fprintf(out, "\nReviewed %d cards, recalled %d (%.0f%%).\n",
		sum.Reviewed, sum.Success, sum.Accuracy()*100)
	if sum.Dropped > 0 {
		fmt.Fprintf(out, "%d cards left for later.\n", sum.Dropped)
	}
	for _, t := range sum.Topics {
		fmt.Fprintf(out, "  %-24s %d/%d\n", truncate(t.Topic, 24), t.Success, t.Reviewed)
	}
}
