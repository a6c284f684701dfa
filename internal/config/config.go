// Package config loads revise settings from defaults, an optional YAML
// file, a .env file, REVISE_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"github.com/abhisek/revise/internal/llm"
	"github.com/abhisek/revise/internal/mastery"
	"github.com/abhisek/revise/internal/spacedrep"
)

// DefaultUser is the profile used when no user id is configured.
const DefaultUser = "default"

// Config holds all application configuration.
type Config struct {
	// DB is the SQLite database path. Empty resolves to the XDG data dir.
	DB string `mapstructure:"db"`

	User      string `mapstructure:"user" validate:"required,max=64,excludesall=/\\"`
	Policy    string `mapstructure:"policy" validate:"policy"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`

	Review     ReviewConfig       `mapstructure:"review"`
	Learn      LearnConfig        `mapstructure:"learn"`
	Thresholds mastery.Thresholds `mapstructure:"thresholds"`
	LLM        llm.Config         `mapstructure:"llm"`
}

// ReviewConfig tunes flashcard review sessions.
type ReviewConfig struct {
	// Limit caps the number of cards per session; 0 means no cap.
	Limit int `mapstructure:"limit" validate:"gte=0"`
}

// LearnConfig tunes the teaching pass.
type LearnConfig struct {
	CardsPerTopic int `mapstructure:"cards_per_topic" validate:"gte=1,lte=20"`
	MaxTopics     int `mapstructure:"max_topics" validate:"gte=1,lte=50"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		User:       DefaultUser,
		Policy:     string(spacedrep.DefaultPolicy),
		LogLevel:   "warn",
		LogFormat:  "text",
		Review:     ReviewConfig{Limit: 20},
		Learn:      LearnConfig{CardsPerTopic: 5, MaxTopics: 8},
		Thresholds: mastery.DefaultThresholds(),
		LLM:        llm.DefaultConfig(),
	}
}

// PolicyName returns the parsed scheduling policy.
func (c Config) PolicyName() (spacedrep.PolicyName, error) {
	return spacedrep.ParsePolicy(c.Policy)
}
