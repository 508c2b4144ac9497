package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/gemini"
	"github.com/fwojciec/lexcov/openai"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when present and no --config flag is given.
const DefaultConfigPath = "lexcov.yaml"

// Config holds the settings every command shares.
type Config struct {
	WordsPath string        `yaml:"words"`
	DBPath    string        `yaml:"db"`
	TermsPath string        `yaml:"terms"`
	OutDir    string        `yaml:"out"`
	Level     string        `yaml:"level"`
	Engine    string        `yaml:"engine"`
	Timeout   time.Duration `yaml:"timeout"`

	// Provider selects the generative backend: gemini or openai.
	Provider string                `yaml:"provider"`
	Gemini   GeminiConfig          `yaml:"gemini"`
	OpenAI   OpenAIConfig          `yaml:"openai"`
	Sources  SourcesConfig         `yaml:"sources"`
	Coverage lexcov.CoverageConfig `yaml:"coverage"`
}

// GeminiConfig configures the generative collaborators.
type GeminiConfig struct {
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	FallbackModel string `yaml:"fallback_model"`
}

// OpenAIConfig configures an OpenAI-compatible backend. BaseURL may point
// at a local server.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// SourcesConfig configures word-list downloads.
type SourcesConfig struct {
	// RequestsPerSecond and Burst pace downloads per host.
	RequestsPerSecond float64 `yaml:"rps"`
	Burst             int     `yaml:"burst"`
	Concurrency       int     `yaml:"concurrency"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		WordsPath: "data/words.csv",
		DBPath:    "data/lexcov.db",
		TermsPath: "data/specialized_terms.txt",
		Level:     lexcov.LevelB1,
		Engine:    EngineHeuristic,
		Timeout:   30 * time.Second,
		Provider:  ProviderGemini,
		Gemini: GeminiConfig{
			Model:         gemini.DefaultModel,
			FallbackModel: gemini.FallbackModel,
		},
		OpenAI: OpenAIConfig{
			Model: openai.DefaultModel,
		},
		Sources: SourcesConfig{
			RequestsPerSecond: 1,
			Burst:             1,
			Concurrency:       3,
		},
		Coverage: lexcov.DefaultCoverageConfig(),
	}
}

// Generative backends.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Environment variables read by LoadConfig.
const (
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvGeminiModel   = "GEMINI_MODEL"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvProvider      = "LEXCOV_PROVIDER"
	EnvWords         = "LEXCOV_WORDS"
	EnvDB            = "LEXCOV_DB"
	EnvTerms         = "LEXCOV_TERMS"
)

// LoadConfig builds the configuration from the defaults, the YAML file at
// path, the dotenv file at envPath and the environment, each overriding the
// previous. A missing file at DefaultConfigPath or envPath is ignored; a
// missing explicit path is an error. getenv is typically os.Getenv.
func LoadConfig(path string, explicit bool, envPath string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, lexcov.Errorf(lexcov.EINVALID, "parse config %s: %v", path, err)
			}
		}
	}

	dotenv := map[string]string{}
	if envPath != "" {
		m, err := godotenv.Read(envPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, lexcov.Errorf(lexcov.EINVALID, "parse %s: %v", envPath, err)
		}
		if m != nil {
			dotenv = m
		}
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	setString(&cfg.Gemini.APIKey, lookup(EnvGeminiAPIKey))
	setString(&cfg.Gemini.Model, lookup(EnvGeminiModel))
	setString(&cfg.OpenAI.APIKey, lookup(EnvOpenAIAPIKey))
	setString(&cfg.OpenAI.BaseURL, lookup(EnvOpenAIBaseURL))
	setString(&cfg.Provider, lookup(EnvProvider))
	setString(&cfg.WordsPath, lookup(EnvWords))
	setString(&cfg.DBPath, lookup(EnvDB))
	setString(&cfg.TermsPath, lookup(EnvTerms))

	return cfg, nil
}

// Validate reports settings no command can work with.
func (c *Config) Validate() error {
	if c.Level != "" && !lexcov.ValidLevel(c.Level) {
		return lexcov.Errorf(lexcov.EINVALID, "invalid level %q", c.Level)
	}
	switch c.Engine {
	case EngineHeuristic, EngineReadability, EngineTrafilatura:
	default:
		return lexcov.Errorf(lexcov.EINVALID, "unknown engine %q", c.Engine)
	}
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return lexcov.Errorf(lexcov.EINVALID, "unknown provider %q", c.Provider)
	}
	if len(c.Coverage.WrittenTags) == 0 {
		return lexcov.Errorf(lexcov.EINVALID, "coverage.written must name at least one list")
	}
	if c.Timeout <= 0 {
		return lexcov.Errorf(lexcov.EINVALID, "timeout must be positive")
	}
	return nil
}

// Model returns the configured model of the selected provider.
func (c *Config) Model() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Gemini.Model
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
