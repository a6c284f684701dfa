package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List learner profiles",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		users, err := e.store.Users().List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, u := range users {
			mark := " "
			if u.ID == e.user {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %-24s  last active %s\n", mark, u.ID, humanize.Time(u.LastActive))
		}
		return nil
	}),
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a learner profile and all of its data",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		if args[0] == e.user {
			return fmt.Errorf("cannot delete the active profile %q; pass --user to act as another one", e.user)
		}
		if err := e.store.Users().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q.\n", args[0])
		return nil
	}),
}

func init() {
	usersCmd.AddCommand(usersDeleteCmd)
}
