package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [topic]",
	Short: "Reset learner statistics and progress",
	Long:  "Clears the statistics and completion of one topic, or of every topic with --all.\nFlashcards are kept unless --cards is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		all, _ := cmd.Flags().GetBool("all")
		withCards, _ := cmd.Flags().GetBool("cards")

		var topic string
		switch {
		case all && len(args) == 0:
		case !all && len(args) == 1:
			topic = args[0]
		default:
			return errors.New("pass either a topic or --all")
		}

		tracker, err := e.tracker(ctx)
		if err != nil {
			return err
		}
		if topic == "" {
			err = tracker.ResetAll(ctx)
		} else {
			err = tracker.Reset(ctx, topic)
		}
		if err != nil {
			return err
		}
		if err := e.store.Progress(e.user).Reset(ctx, topic); err != nil {
			return err
		}

		var cleared int64
		if withCards {
			if topic == "" {
				cleared, err = e.cards().ClearAll(ctx)
			} else {
				cleared, err = e.cards().ClearTopic(ctx, topic)
			}
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		what := "all topics"
		if topic != "" {
			what = fmt.Sprintf("%q", topic)
		}
		fmt.Fprintf(out, "Reset statistics and progress of %s.\n", what)
		if withCards {
			fmt.Fprintf(out, "Deleted %d cards.\n", cleared)
		}
		return nil
	}),
}

func init() {
	resetCmd.Flags().Bool("all", false, "Reset every topic")
	resetCmd.Flags().Bool("cards", false, "Also delete the flashcards")
}
