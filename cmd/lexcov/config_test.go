package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/lexcov"
	main "github.com/fwojciec/lexcov/cmd/lexcov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when no file exists", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg, err := main.LoadConfig(filepath.Join(dir, "lexcov.yaml"), false, filepath.Join(dir, ".env"), noEnv)

		require.NoError(t, err)
		assert.Equal(t, main.DefaultConfig(), cfg)
	})

	t.Run("returns error for a missing explicit file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), true, "", noEnv)

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("reads yaml settings over the defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lexcov.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
words: lists/words.csv
level: C1
engine: trafilatura
timeout: 45s
gemini:
  model: gemini-custom
sources:
  rps: 2.5
  burst: 4
coverage:
  written: [NGSL]
`), 0644))

		cfg, err := main.LoadConfig(path, true, "", noEnv)

		require.NoError(t, err)
		assert.Equal(t, "lists/words.csv", cfg.WordsPath)
		assert.Equal(t, lexcov.LevelC1, cfg.Level)
		assert.Equal(t, main.EngineTrafilatura, cfg.Engine)
		assert.Equal(t, 45*time.Second, cfg.Timeout)
		assert.Equal(t, "gemini-custom", cfg.Gemini.Model)
		assert.Equal(t, 2.5, cfg.Sources.RequestsPerSecond)
		assert.Equal(t, 4, cfg.Sources.Burst)
		assert.Equal(t, 3, cfg.Sources.Concurrency)
		assert.Equal(t, []string{lexcov.ListNGSL}, cfg.Coverage.WrittenTags)
		assert.Equal(t, lexcov.ListSpoken, cfg.Coverage.SpokenTag)
	})

	t.Run("environment overrides dotenv which overrides yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "lexcov.yaml")
		envPath := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("db: yaml.db\nwords: yaml.csv\n"), 0644))
		require.NoError(t, os.WriteFile(envPath, []byte("LEXCOV_DB=dotenv.db\nLEXCOV_WORDS=dotenv.csv\nGEMINI_API_KEY=from-dotenv\n"), 0644))

		getenv := func(key string) string {
			if key == main.EnvWords {
				return "env.csv"
			}
			return ""
		}
		cfg, err := main.LoadConfig(path, true, envPath, getenv)

		require.NoError(t, err)
		assert.Equal(t, "dotenv.db", cfg.DBPath)
		assert.Equal(t, "env.csv", cfg.WordsPath)
		assert.Equal(t, "from-dotenv", cfg.Gemini.APIKey)
	})

	t.Run("selects the openai provider from the environment", func(t *testing.T) {
		t.Parallel()

		getenv := func(key string) string {
			switch key {
			case main.EnvProvider:
				return main.ProviderOpenAI
			case main.EnvOpenAIBaseURL:
				return "http://localhost:11434/v1"
			}
			return ""
		}
		cfg, err := main.LoadConfig("", false, "", getenv)

		require.NoError(t, err)
		assert.Equal(t, main.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAI.BaseURL)
		assert.Equal(t, cfg.OpenAI.Model, cfg.Model())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("returns error for malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lexcov.yaml")
		require.NoError(t, os.WriteFile(path, []byte("level: [B1\n"), 0644))

		_, err := main.LoadConfig(path, true, "", noEnv)

		require.Error(t, err)
		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(err))
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts the defaults", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, main.DefaultConfig().Validate())
	})

	t.Run("rejects an unknown level", func(t *testing.T) {
		t.Parallel()

		cfg := main.DefaultConfig()
		cfg.Level = "B3"
		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects an unknown engine", func(t *testing.T) {
		t.Parallel()

		cfg := main.DefaultConfig()
		cfg.Engine = "magic"
		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		t.Parallel()

		cfg := main.DefaultConfig()
		cfg.Provider = "mystery"
		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects an empty written aggregate", func(t *testing.T) {
		t.Parallel()

		cfg := main.DefaultConfig()
		cfg.Coverage.WrittenTags = nil
		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects a non-positive timeout", func(t *testing.T) {
		t.Parallel()

		cfg := main.DefaultConfig()
		cfg.Timeout = 0
		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(cfg.Validate()))
	})
}
