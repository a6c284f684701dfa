package cmd

import (
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/mastery"
	"github.com/abhisek/revise/internal/session"
	"github.com/abhisek/revise/internal/spacedrep"
	"github.com/abhisek/revise/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats [topic]",
	Short: "Show learning statistics per topic",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		tracker, err := e.tracker(ctx)
		if err != nil {
			return err
		}
		cards, err := e.cards().ListCards(ctx)
		if err != nil {
			return err
		}

		svc := tracker.Service()
		topics := svc.Topics()
		if len(args) == 1 {
			if !svc.Has(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "No statistics for %q yet.\n", args[0])
				return nil
			}
			topics = []string{args[0]}
		}
		if len(topics) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No statistics yet. Learn some material or review cards first.")
			return nil
		}

		renderStats(cmd.OutOrStdout(), svc, topics, cards, e.cfg.Thresholds, time.Now())
		return nil
	}),
}

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "List topics whose accuracy is below the thresholds",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		tracker, err := e.tracker(cmd.Context())
		if err != nil {
			return err
		}
		svc := tracker.Service()
		weak := svc.WeakTopics(e.cfg.Thresholds)

		out := cmd.OutOrStdout()
		if len(weak) == 0 {
			fmt.Fprintln(out, "No weak topics.")
			return nil
		}
		for _, t := range weak {
			fmt.Fprintf(out, "%-28s  quiz %3.0f%%  flashcards %3.0f%%\n", truncate(t, 28),
				svc.Accuracy(t, mastery.KindQuiz)*100, svc.Accuracy(t, mastery.KindFlashcard)*100)
		}
		return nil
	}),
}

var nextCmd = &cobra.Command{
	Use:   "next <topic>...",
	Short: "Order topics for the next teaching pass",
	Long:  "Orders the given topics the way learn would: weak topics first, then the rest, skipping completed ones.",
	Args:  cobra.MinimumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		tracker, err := e.tracker(ctx)
		if err != nil {
			return err
		}
		completed, err := e.store.Progress(e.user).CompletedTopics(ctx)
		if err != nil {
			return err
		}

		plan := session.BuildPlan(args, completed, tracker.Service(), e.cfg.Thresholds)
		out := cmd.OutOrStdout()
		if len(plan.Slots) == 0 {
			fmt.Fprintln(out, "All of these topics are complete.")
			return nil
		}
		for i, slot := range plan.Slots {
			fmt.Fprintf(out, "%2d. %-28s  %-4s  %d questions, pass %.0f%%, %s\n",
				i+1, truncate(slot.Topic, 28), slot.Category,
				slot.Quiz.Questions, slot.Quiz.PassRatio*100, slot.Quiz.Tier)
		}
		return nil
	}),
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show which topics are complete",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		list, err := e.store.Progress(e.user).List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No topics started yet.")
			return nil
		}

		done := 0
		for _, p := range list {
			mark := " "
			if p.Completed {
				mark = "✓"
				done++
			}
			last := "never"
			if p.LastAttempt != nil {
				last = humanize.Time(*p.LastAttempt)
			}
			fmt.Fprintf(out, "%s %-28s  last quiz %d/%d  %s\n", mark, truncate(p.Topic, 28), p.QuizScore, p.QuizTotal, last)
		}
		fmt.Fprintf(out, "\n%d of %d topics complete.\n", done, len(list))
		return nil
	}),
}

func renderStats(out io.Writer, svc *mastery.Service, topics []string, cards []spacedrep.Card, th mastery.Thresholds, now time.Time) {
	perTopic := make(map[string][]spacedrep.Card)
	for _, c := range cards {
		perTopic[c.Topic] = append(perTopic[c.Topic], c)
	}

	col := func(w int) lipgloss.Style { return lipgloss.NewStyle().Width(w).MaxWidth(w) }
	head := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)

	fmt.Fprintln(out, head.Render(
		col(28).Render("Topic")+col(8).Render("State")+col(16).Render("Quiz")+col(16).Render("Flashcards")+col(10).Render("Cards")+"Due"))
	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", 84)))

	for _, t := range topics {
		ts := svc.Stats(t)
		state := mastery.ResolveState(ts, th)
		tc := perTopic[t]
		fmt.Fprintln(out,
			col(28).Render(truncate(t, 27))+
				col(8).Foreground(stateColor(state)).Render(string(state))+
				col(16).Render(ratio(ts.QuizCorrect, ts.QuizAttempts))+
				col(16).Render(ratio(ts.FlashcardGood, ts.FlashcardReviews))+
				col(10).Render(fmt.Sprint(len(tc)))+
				fmt.Sprint(spacedrep.CountDue(tc, now)))
	}
}

func stateColor(s mastery.TopicState) color.Color {
	switch s {
	case mastery.StateWeak:
		return theme.Error
	case mastery.StateSteady:
		return theme.Success
	default:
		return theme.TextDim
	}
}

// ratio renders correct/attempts with a percentage, or "-" with none.
func ratio(correct, attempts int) string {
	if attempts == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d %3.0f%%", correct, attempts, float64(correct)/float64(attempts)*100)
}
