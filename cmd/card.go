package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/spacedrep"
	"github.com/abhisek/revise/internal/store"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage flashcards",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <topic> <front> <back>",
	Short: "Add a flashcard",
	Args:  cobra.ExactArgs(3),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		topic, front, back := strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), strings.TrimSpace(args[2])
		if topic == "" || front == "" || back == "" {
			return errors.New("topic, front and back must not be empty")
		}

		c := spacedrep.NewCard(topic, front, back, time.Now())
		added, err := e.cards().AddCard(cmd.Context(), c)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !added {
			fmt.Fprintf(out, "A card with that front already exists in %q; nothing added.\n", topic)
			return nil
		}
		fmt.Fprintf(out, "Added card %s to %q.\n", c.ID, topic)
		return nil
	}),
}

var cardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List flashcards",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		topic, _ := cmd.Flags().GetString("topic")

		var (
			cards []spacedrep.Card
			err   error
		)
		if topic != "" {
			cards, err = e.cards().ListTopic(cmd.Context(), topic)
		} else {
			cards, err = e.cards().ListCards(cmd.Context())
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(cards) == 0 {
			fmt.Fprintln(out, "No cards found.")
			return nil
		}

		now := time.Now()
		fmt.Fprintf(out, "%-8s  %-20s  %-40s  %s\n", "ID", "Topic", "Front", "Due")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, c := range cards {
			fmt.Fprintf(out, "%-8s  %-20s  %-40s  %s\n",
				shortID(c.ID), truncate(c.Topic, 20), truncate(c.Front, 40), dueLabel(c.State, now))
		}
		return nil
	}),
}

var cardShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a flashcard and its schedule",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := findCard(cmd, e, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		now := time.Now()
		fmt.Fprintf(out, "ID:          %s\n", c.ID)
		fmt.Fprintf(out, "Topic:       %s\n", c.Topic)
		fmt.Fprintf(out, "Front:       %s\n", c.Front)
		fmt.Fprintf(out, "Back:        %s\n", c.Back)
		fmt.Fprintf(out, "Created:     %s\n", c.CreatedAt.Local().Format(time.DateTime))
		fmt.Fprintf(out, "Repetitions: %d\n", c.Repetitions)
		fmt.Fprintf(out, "Interval:    %d days\n", c.IntervalDays)
		fmt.Fprintf(out, "Ease:        %.2f\n", c.EaseFactor)
		if c.LastReviewed != nil {
			fmt.Fprintf(out, "Reviewed:    %s\n", humanize.Time(*c.LastReviewed))
		}
		fmt.Fprintf(out, "Due:         %s\n", dueLabel(c.State, now))
		return nil
	}),
}

var cardEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the text or topic of a flashcard",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := findCard(cmd, e, args[0])
		if err != nil {
			return err
		}

		changed := false
		for _, f := range []struct {
			name string
			dst  *string
		}{{"front", &c.Front}, {"back", &c.Back}, {"topic", &c.Topic}} {
			if !cmd.Flags().Changed(f.name) {
				continue
			}
			v, _ := cmd.Flags().GetString(f.name)
			if v = strings.TrimSpace(v); v == "" {
				return fmt.Errorf("--%s must not be empty", f.name)
			}
			*f.dst = v
			changed = true
		}
		if !changed {
			return errors.New("nothing to change: pass --front, --back or --topic")
		}

		if err := e.cards().UpdateCard(cmd.Context(), c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated card %s.\n", c.ID)
		return nil
	}),
}

var cardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a flashcard",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := findCard(cmd, e, args[0])
		if err != nil {
			return err
		}
		if err := e.cards().DeleteCard(cmd.Context(), c.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s.\n", c.ID)
		return nil
	}),
}

var cardClearCmd = &cobra.Command{
	Use:   "clear [topic]",
	Short: "Delete every flashcard of a topic, or all with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		all, _ := cmd.Flags().GetBool("all")

		var (
			n   int64
			err error
		)
		switch {
		case all && len(args) == 0:
			n, err = e.cards().ClearAll(cmd.Context())
		case !all && len(args) == 1:
			n, err = e.cards().ClearTopic(cmd.Context(), args[0])
		default:
			return errors.New("pass either a topic or --all")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cards.\n", n)
		return nil
	}),
}

func init() {
	cardListCmd.Flags().String("topic", "", "Only list cards of this topic")

	cardEditCmd.Flags().String("front", "", "New front text")
	cardEditCmd.Flags().String("back", "", "New back text")
	cardEditCmd.Flags().String("topic", "", "Move the card to another topic")

	cardClearCmd.Flags().Bool("all", false, "Delete all cards of the user")

	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardShowCmd)
	cardCmd.AddCommand(cardEditCmd)
	cardCmd.AddCommand(cardDeleteCmd)
	cardCmd.AddCommand(cardClearCmd)
}

// findCard resolves a full card id or a unique prefix of at least four
// characters, as printed by card list.
func findCard(cmd *cobra.Command, e *env, id string) (spacedrep.Card, error) {
	ctx := cmd.Context()
	c, err := e.cards().GetCard(ctx, id)
	if err == nil || !errors.Is(err, store.ErrNotFound) || len(id) < 4 {
		return c, err
	}

	cards, err := e.cards().ListCards(ctx)
	if err != nil {
		return spacedrep.Card{}, err
	}
	var matches []spacedrep.Card
	for _, c := range cards {
		if strings.HasPrefix(c.ID, id) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return spacedrep.Card{}, fmt.Errorf("card %s: %w", id, store.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return spacedrep.Card{}, fmt.Errorf("card id prefix %q matches %d cards", id, len(matches))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// dueLabel describes when a card is next due.
func dueLabel(s spacedrep.State, now time.Time) string {
	switch {
	case s.Due == nil:
		return "new"
	case s.IsDue(now):
		return "due " + humanize.Time(*s.Due)
	default:
		return humanize.Time(*s.Due)
	}
}
