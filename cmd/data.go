package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the learner's cards, statistics and progress as JSON",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		path, _ := cmd.Flags().GetString("out")

		exp, err := e.store.ExportUser(cmd.Context(), e.user, time.Now())
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if path != "" && path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exp); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		if path != "" && path != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s.\n", len(exp.Cards), path)
		}
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load an export into the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		replace, _ := cmd.Flags().GetBool("replace")

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()
			r = f
		}

		var exp store.Export
		if err := json.NewDecoder(r).Decode(&exp); err != nil {
			return fmt.Errorf("read import: %w", err)
		}
		if err := store.CheckFormatVersion(exp.FormatVersion); err != nil {
			return err
		}
		if exp.UserID != "" && exp.UserID != e.user {
			e.logger.Info("importing another profile's export", "from", exp.UserID, "into", e.user)
		}

		res, err := e.store.ImportUser(cmd.Context(), e.user, &exp, replace)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"Imported into %q: %d cards added, %d updated, %d skipped; %d topics of stats, %d of progress, %d quiz attempts.\n",
			e.user, res.CardsAdded, res.CardsUpdated, res.CardsSkipped, res.StatsTopics, res.ProgressTopics, res.QuizAttempts)
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	importCmd.Flags().Bool("replace", false, "Remove the profile's existing data first")
}
