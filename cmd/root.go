package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/revise/internal/config"
	"github.com/abhisek/revise/internal/logging"
	"github.com/abhisek/revise/internal/mastery"
	"github.com/abhisek/revise/internal/spacedrep"
	"github.com/abhisek/revise/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "revise",
	Short: "Study companion with spaced-repetition flashcards",
	Long: "revise teaches study material topic by topic, sizes quizzes to your accuracy,\n" +
		"turns finished topics into flashcards and schedules them with spaced repetition.",
	SilenceUsage: true,
}

// Execute runs the command tree. An interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides REVISE_DB)")
	pf.StringP("user", "u", "", "Learner profile id (overrides REVISE_USER)")
	pf.String("config", "", "Path to a YAML config file")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("policy", "", "Scheduling policy: graded, doubling or three-tier")

	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(flashcardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(weakCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what a command needs to act for one learner.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	user   string
}

// loadConfig resolves configuration for cmd from its flags, the config
// file, the environment and the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(config.Options{
		File:     file,
		Flags:    cmd.Flags(),
		Discover: true,
	})
}

// openEnv loads configuration, sets up logging, opens the database and
// registers the active user.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	if err := store.EnsureDir(cfg.DB); err != nil {
		return nil, fmt.Errorf("prepare database directory: %w", err)
	}
	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.DB, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := st.Users().Touch(ctx, cfg.User, time.Now()); err != nil {
		st.Close()
		return nil, err
	}
	logger.Debug("environment ready", "db", cfg.DB, "user", cfg.User, "policy", cfg.Policy)
	return &env{cfg: *cfg, logger: logger, store: st, user: cfg.User}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func (e *env) cards() *store.CardRepo {
	return e.store.Cards(e.user)
}

// tracker loads the learner's topic statistics.
func (e *env) tracker(ctx context.Context) (*mastery.Tracker, error) {
	return mastery.LoadTracker(ctx, e.store.Stats(e.user), e.logger)
}

// scheduler builds the configured scheduling policy.
func (e *env) scheduler() (*spacedrep.Scheduler, error) {
	return spacedrep.NewSchedulerByName(e.cfg.Policy)
}

// withEnv adapts a command body that needs an env.
func withEnv(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, args, e)
	}
}
