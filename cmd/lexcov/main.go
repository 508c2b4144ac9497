package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/fs"
	"github.com/fwojciec/lexcov/gemini"
	"github.com/fwojciec/lexcov/goquery"
	"github.com/fwojciec/lexcov/openai"
	lexhttp "github.com/fwojciec/lexcov/http"
	"github.com/fwojciec/lexcov/readability"
	"github.com/fwojciec/lexcov/rod"
	lexslog "github.com/fwojciec/lexcov/slog"
	"github.com/fwojciec/lexcov/sources"
	"github.com/fwojciec/lexcov/sqlite"
	"github.com/fwojciec/lexcov/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads environment variables. Set before calling Run().
	Getenv func(string) string

	// DotEnvPath is the dotenv file merged below the environment.
	DotEnvPath string

	// Stdin feeds "coverage -".
	Stdin io.Reader

	// SQLite database used by the article store.
	DB *sqlite.DB

	// Fetcher and Generator replace the network-backed implementations
	// for end-to-end testing.
	Fetcher   lexcov.Fetcher
	Generator gemini.Generator
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv:     os.Getenv,
		DotEnvPath: ".env",
		Stdin:      os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lexcov"),
		kong.Description("Extract web articles and measure their coverage by graded word lists"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := lexcov.Errorf(lexcov.EINVALID, "no command specified. Run 'lexcov --help' to see available commands")
		return fail(deps, err)
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}
	command := commandName(kongCtx.Command())

	configPath := cli.Config
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := LoadConfig(configPath, cli.Config != "", m.DotEnvPath, m.Getenv)
	if err != nil {
		return fail(deps, err)
	}
	m.applyFlags(cfg, cli, command)
	if err := cfg.Validate(); err != nil {
		return fail(deps, err)
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	deps.Words = lexslog.NewLoggingWordStore(fs.NewWordStore(cfg.WordsPath), logger)

	if needsDB(command, cli) {
		if err := m.openDB(cfg.DBPath); err != nil {
			fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", EnvDB)
			return fail(deps, err)
		}
		defer m.Close()
		deps.Articles = lexslog.NewLoggingArticleService(sqlite.NewArticleService(m.DB), logger)
	}

	switch command {
	case "ingest", "extract":
		browser := cli.Ingest.Browser
		if command == "extract" {
			browser = cli.Extract.Browser
		}
		fetcher, err := m.fetcher(cfg, browser)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fail(deps, err)
		}
		defer fetcher.Close()
		deps.Fetcher = lexslog.NewLoggingFetcher(fetcher, logger)
		deps.Extractor = lexslog.NewLoggingExtractor(newExtractor(cfg.Engine, deps.Fetcher), logger)

	case "lists import":
		fetcher, err := m.fetcher(cfg, false)
		if err != nil {
			return fail(deps, err)
		}
		defer fetcher.Close()
		var mu sync.Mutex
		deps.Importer = &sources.Importer{
			Fetcher:     lexslog.NewLoggingFetcher(fetcher, logger),
			Words:       deps.Words,
			RateLimiter: sources.NewHostLimiter(cfg.Sources.RequestsPerSecond, cfg.Sources.Burst),
			Concurrency: cfg.Sources.Concurrency,
			Logf: func(format string, args ...any) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(stdout, format+"\n", args...)
			},
		}
	}

	if command == "ingest" {
		gen, err := m.generator(ctx, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Check your %s is valid\n", EnvGeminiAPIKey)
			return fail(deps, err)
		}
		if gen != nil {
			var opts []gemini.RewriterOption
			if cfg.Provider == ProviderGemini {
				opts = append(opts, gemini.WithFallbackModel(cfg.Gemini.FallbackModel))
			}
			rw := gemini.NewRewriter(gen, cfg.Model(), opts...)
			deps.Rewriter = lexslog.NewLoggingRewriter(rw, logger)
			deps.Terms = lexslog.NewLoggingTermDetector(gemini.NewTermDetector(gen, cfg.Model()), logger)
		}
		if cfg.OutDir != "" {
			deps.Writer = fs.NewWriter(cfg.OutDir)
		}
	}

	return kongCtx.Run(deps)
}

// applyFlags lets command-line flags override the loaded configuration.
func (m *Main) applyFlags(cfg *Config, cli *CLI, command string) {
	setString(&cfg.WordsPath, cli.Words)
	setString(&cfg.DBPath, cli.DB)
	setString(&cfg.TermsPath, cli.Terms)
	setString(&cfg.Provider, cli.Provider)
	if cfg.Provider == ProviderOpenAI {
		setString(&cfg.OpenAI.Model, cli.Model)
	} else {
		setString(&cfg.Gemini.Model, cli.Model)
	}
	switch command {
	case "ingest":
		setString(&cfg.Level, cli.Ingest.Level)
		setString(&cfg.Engine, cli.Ingest.Engine)
		setString(&cfg.OutDir, cli.Ingest.Out)
	case "extract":
		setString(&cfg.Engine, cli.Extract.Engine)
	}
}

// commandName strips positional placeholders from a kong command path,
// e.g. "lists import <names>" becomes "lists import".
func commandName(path string) string {
	var parts []string
	for _, f := range strings.Fields(path) {
		if strings.HasPrefix(f, "<") {
			break
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, " ")
}

func needsDB(command string, cli *CLI) bool {
	switch command {
	case "ingest":
		return !cli.Ingest.DryRun
	case "apply-counts", "unapply-counts", "articles list", "articles delete":
		return true
	}
	return false
}

func (m *Main) openDB(path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return nil
}

func (m *Main) fetcher(cfg *Config, browser bool) (lexcov.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}
	if browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout), rod.WithUserAgent(lexhttp.DefaultUserAgent))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}
	return lexhttp.NewFetcher(lexhttp.WithTimeout(cfg.Timeout)), nil
}

// generator returns nil when the selected provider is not configured.
// An OpenAI-compatible endpoint with a base URL needs no API key.
func (m *Main) generator(ctx context.Context, cfg *Config) (gemini.Generator, error) {
	if m.Generator != nil {
		return m.Generator, nil
	}
	if cfg.Provider == ProviderOpenAI {
		if cfg.OpenAI.APIKey == "" && cfg.OpenAI.BaseURL == "" {
			return nil, nil
		}
		return openai.NewGenerator(openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)), nil
	}
	if cfg.Gemini.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewClient(client), nil
}

func newExtractor(engine string, fetcher lexcov.Fetcher) lexcov.Extractor {
	switch engine {
	case EngineReadability:
		return readability.NewExtractor()
	case EngineTrafilatura:
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor(goquery.WithFetcher(fetcher))
	}
}
