package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/revise/internal/llm"
	"github.com/abhisek/revise/internal/spacedrep"
	"github.com/abhisek/revise/internal/store"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "REVISE"

// Options controls where Load looks for settings.
type Options struct {
	// File is an explicit config file. When empty, config.yaml is searched
	// for in the user config dir and a missing file is not an error.
	File string

	// EnvFile is an explicit .env file. When empty, ./.env is loaded if
	// present.
	EnvFile string

	// Flags are bound on top of every other source. Only flags the user
	// actually set take precedence.
	Flags *pflag.FlagSet

	// Discover enables falling back to the vendors' standard API key
	// variables when no LLM provider is configured.
	Discover bool
}

// flagKeys maps the global flags to config keys.
var flagKeys = map[string]string{
	"db":         "db",
	"user":       "user",
	"policy":     "policy",
	"log-level":  "log_level",
	"log-format": "log_format",
}

// KeyAnnotation is the pflag annotation naming the config key a
// command-local flag overrides. Flags without it are never bound, so a
// --limit on one command cannot leak into the review cap.
const KeyAnnotation = "revise.config-key"

// BindFlag marks the flag name in fs as an override for key.
func BindFlag(fs *pflag.FlagSet, name, key string) error {
	return fs.SetAnnotation(name, KeyAnnotation, []string{key})
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts.File); err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Provider keys keep their historical names (REVISE_ANTHROPIC_API_KEY
	// rather than REVISE_LLM_ANTHROPIC_API_KEY).
	cfg.LLM = llm.ApplyEnv(cfg.LLM)
	if opts.Discover && !cfg.LLM.Enabled() {
		if found, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = found
		}
	}

	if cfg.DB == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DB = path
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[KeyAnnotation]
		if err != nil || len(keys) == 0 {
			return
		}
		if bindErr := v.BindPFlag(keys[0], f); bindErr != nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Validate checks field constraints and the LLM provider settings.
func Validate(cfg *Config) error {
	if err := newValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultFile returns the config file searched when none is given.
func DefaultFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "revise", "config.yaml"), nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("policy", func(fl validator.FieldLevel) bool {
		_, err := spacedrep.ParsePolicy(fl.Field().String())
		return err == nil
	})
	return v
}

func loadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	def, err := DefaultFile()
	if err != nil {
		return nil
	}
	v.SetConfigFile(def)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", def, err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db", d.DB)
	v.SetDefault("user", d.User)
	v.SetDefault("policy", d.Policy)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("review.limit", d.Review.Limit)
	v.SetDefault("learn.cards_per_topic", d.Learn.CardsPerTopic)
	v.SetDefault("learn.max_topics", d.Learn.MaxTopics)
	v.SetDefault("thresholds.quiz", d.Thresholds.Quiz)
	v.SetDefault("thresholds.flashcard", d.Thresholds.Flashcard)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.anthropic.model", d.LLM.Anthropic.Model)
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", d.LLM.OpenAI.BaseURL)
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.openrouter.model", d.LLM.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.LLM.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)
}
