package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/revise/internal/llm"
)

var isolatedVars = []string{
	"REVISE_DB", "REVISE_USER", "REVISE_POLICY", "REVISE_LOG_LEVEL", "REVISE_LOG_FORMAT",
	"REVISE_REVIEW_LIMIT", "REVISE_THRESHOLDS_QUIZ", "REVISE_LLM_PROVIDER",
	"REVISE_ANTHROPIC_API_KEY", "REVISE_OPENAI_API_KEY", "REVISE_GEMINI_API_KEY", "REVISE_OPENROUTER_API_KEY",
	"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
}

// isolate points every lookup location at a fresh temp dir and clears
// overrides inherited from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	for _, k := range isolatedVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultUser, cfg.User)
	assert.Equal(t, "graded", cfg.Policy)
	assert.Equal(t, 20, cfg.Review.Limit)
	assert.Equal(t, 0.6, cfg.Thresholds.Quiz)
	assert.Equal(t, 0.7, cfg.Thresholds.Flashcard)
	assert.Equal(t, filepath.Join(dir, "data", "revise", "revise.db"), cfg.DB)
	assert.False(t, cfg.LLM.Enabled())
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, filepath.Join(dir, "revise.yaml"), `
user: alice
policy: doubling
review:
  limit: 5
thresholds:
  quiz: 0.5
llm:
  timeout: 45s
  retry:
    max_attempts: 2
`)

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "doubling", cfg.Policy)
	assert.Equal(t, 5, cfg.Review.Limit)
	assert.Equal(t, 0.5, cfg.Thresholds.Quiz)
	assert.Equal(t, 0.7, cfg.Thresholds.Flashcard)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.LLM.Retry.MaxAttempts)

	t.Setenv("REVISE_USER", "bob")
	t.Setenv("REVISE_REVIEW_LIMIT", "7")
	cfg, err = Load(Options{File: file})
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, 7, cfg.Review.Limit)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("user", "", "")
	flags.String("policy", "", "")
	require.NoError(t, flags.Parse([]string{"--user", "carol"}))

	cfg, err = Load(Options{File: file, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.User)
	assert.Equal(t, "doubling", cfg.Policy, "unset flag must not override the file")
}

func TestLoad_DefaultFileLocation(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "revise", "config.yaml"), "policy: three-tier\n")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "three-tier", cfg.Policy)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{File: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	env := writeFile(t, filepath.Join(dir, "test.env"), "REVISE_USER=dana\nREVISE_ANTHROPIC_API_KEY=sk-ant\nREVISE_LLM_PROVIDER=anthropic\n")

	cfg, err := Load(Options{EnvFile: env})
	require.NoError(t, err)
	assert.Equal(t, "dana", cfg.User)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestLoad_Discover(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.False(t, cfg.LLM.Enabled(), "discovery is opt-in")

	cfg, err = Load(Options{Discover: true})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-openai", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_OnlyMarkedFlagsBindReviewLimit(t *testing.T) {
	isolate(t)

	history := pflag.NewFlagSet("history", pflag.ContinueOnError)
	history.Int("limit", 20, "")
	require.NoError(t, history.Parse([]string{"--limit", "-1"}))

	cfg, err := Load(Options{Flags: history})
	require.NoError(t, err, "an unmarked --limit must not reach the review cap")
	assert.Equal(t, Default().Review.Limit, cfg.Review.Limit)

	review := pflag.NewFlagSet("review", pflag.ContinueOnError)
	review.Int("limit", 0, "")
	require.NoError(t, BindFlag(review, "limit", "review.limit"))
	require.NoError(t, review.Parse([]string{"--limit", "4"}))

	cfg, err = Load(Options{Flags: review})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Review.Limit)

	assert.Error(t, BindFlag(review, "missing", "review.limit"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown policy", map[string]string{"REVISE_POLICY": "leitner"}},
		{"bad log level", map[string]string{"REVISE_LOG_LEVEL": "loud"}},
		{"threshold above one", map[string]string{"REVISE_THRESHOLDS_QUIZ": "1.5"}},
		{"negative limit", map[string]string{"REVISE_REVIEW_LIMIT": "-1"}},
		{"provider without key", map[string]string{"REVISE_LLM_PROVIDER": "gemini"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(Options{})
			assert.Error(t, err)
		})
	}
}

func TestConfig_PolicyName(t *testing.T) {
	cfg := Default()
	cfg.Policy = "sm2"
	name, err := cfg.PolicyName()
	require.NoError(t, err)
	assert.Equal(t, "graded", string(name))
}
