package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/config"
	"github.com/abhisek/revise/internal/spacedrep"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List the flashcards due for review",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		cards, err := e.cards().ListCards(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		due := spacedrep.SelectDue(cards, now, e.cfg.Review.Limit)
		out := cmd.OutOrStdout()
		if len(due) == 0 {
			fmt.Fprintln(out, "Nothing due. Come back later.")
			return nil
		}

		total := spacedrep.CountDue(cards, now)
		fmt.Fprintf(out, "%d of %d cards due", total, len(cards))
		if len(due) < total {
			fmt.Fprintf(out, " (showing %d)", len(due))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, c := range due {
			fmt.Fprintf(out, "%-8s  %-20s  %-34s  %s\n",
				shortID(c.ID), truncate(c.Topic, 20), truncate(c.Front, 34), dueLabel(c.State, now))
		}
		return nil
	}),
}

func init() {
	dueCmd.Flags().Int("limit", 0, "Maximum number of cards to list (default from config)")
	cobra.CheckErr(config.BindFlag(dueCmd.Flags(), "limit", "review.limit"))
}
