package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/fs"
	"github.com/fwojciec/lexcov/sources"
)

// Extraction engines.
const (
	EngineHeuristic   = "heuristic"
	EngineReadability = "readability"
	EngineTrafilatura = "trafilatura"
)

// Dependencies holds all services and configuration for command execution.
// Services a command does not use may be nil.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Fetcher   lexcov.Fetcher
	Extractor lexcov.Extractor
	Rewriter  lexcov.Rewriter
	Terms     lexcov.TermDetector
	Words     lexcov.WordStore
	Articles  lexcov.ArticleService
	Writer    *fs.Writer
	Importer  *sources.Importer
}

// fail reports err on stderr the way every command does and returns it.
func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", lexcov.ErrorMessage(err))
	return err
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"c" help:"YAML config file (default: lexcov.yaml when present)" type:"path"`
	Verbose  bool   `short:"v" help:"Log debug output to stderr"`
	Words    string `help:"Word registry CSV path" type:"path"`
	DB       string `name:"db" help:"Article database path" type:"path"`
	Terms    string `help:"Specialized terms file, one term per line" type:"path"`
	Provider string `help:"Generative backend: gemini or openai"`
	Model    string `help:"Model of the selected backend"`

	Ingest        IngestCmd        `cmd:"" help:"Fetch, extract, rewrite and record an article"`
	Extract       ExtractCmd       `cmd:"" help:"Print the readable text of a web page"`
	Coverage      CoverageCmd      `cmd:"" help:"Report word-list coverage of a local text"`
	ApplyCounts   ApplyCountsCmd   `cmd:"" name:"apply-counts" help:"Add a stored article's words to the registry counters"`
	UnapplyCounts UnapplyCountsCmd `cmd:"" name:"unapply-counts" help:"Remove a stored article's words from the registry counters"`
	ResetWords    ResetWordsCmd    `cmd:"" name:"reset-words" help:"Zero the registry counters or remove every entry"`
	Seed          SeedCmd          `cmd:"" help:"Add the first-column words of a CSV file to the registry"`
	Lists         ListsCmd         `cmd:"" help:"Manage published word lists"`
	WordsCmd      WordsCmd         `cmd:"" name:"words" help:"Inspect the word registry"`
	Articles      ArticlesCmd      `cmd:"" help:"Inspect stored articles"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL           string `arg:"" help:"Article URL"`
	Level         string `short:"l" help:"CEFR level of the rewrite (A2, B1, B2, C1)"`
	Engine        string `short:"e" help:"Extraction engine: heuristic, readability or trafilatura"`
	Browser       bool   `short:"b" help:"Render the page in headless Chrome"`
	NoRewrite     bool   `name:"no-rewrite" help:"Analyse the extracted text without rewriting it"`
	DryRun        bool   `name:"dry-run" help:"Stop after the coverage report and print a preview"`
	SkipWordCount bool   `name:"skip-word-count" help:"Store the article without updating word counters"`
	Out           string `short:"o" help:"Also write the article as markdown to this directory" type:"path"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL     string `arg:"" help:"Page URL"`
	Engine  string `short:"e" help:"Extraction engine: heuristic, readability or trafilatura"`
	Browser bool   `short:"b" help:"Render the page in headless Chrome"`
}

// CoverageCmd is the "coverage" subcommand.
type CoverageCmd struct {
	File string `arg:"" help:"Text file, or - for stdin"`
	JSON bool   `help:"Print the metrics as JSON"`
}

// ApplyCountsCmd is the "apply-counts" subcommand.
type ApplyCountsCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// UnapplyCountsCmd is the "unapply-counts" subcommand.
type UnapplyCountsCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// ResetWordsCmd is the "reset-words" subcommand.
type ResetWordsCmd struct {
	Mode string `arg:"" enum:"zero,archive" help:"zero keeps entries and clears counters, archive removes every entry"`
}

// SeedCmd is the "seed" subcommand.
type SeedCmd struct {
	File string `arg:"" help:"CSV file whose first column holds words" type:"existingfile"`
}

// ListsCmd groups word-list subcommands.
type ListsCmd struct {
	Import ListsImportCmd `cmd:"" help:"Download published lists and tag their words"`
}

// ListsImportCmd is the "lists import" subcommand.
type ListsImportCmd struct {
	Names     []string `arg:"" enum:"ngsl,nawl,ngsl-spoken" help:"Lists to import: ngsl, nawl, ngsl-spoken"`
	SourceURL string   `name:"source-url" help:"Download from this URL instead (single list only)"`
	DryRun    bool     `name:"dry-run" help:"Fetch and parse without updating the registry"`
	CSV       string   `name:"csv" help:"Also save the parsed words to this CSV file" type:"path"`
}

// WordsCmd groups registry subcommands.
type WordsCmd struct {
	Summary WordsSummaryCmd `cmd:"" help:"Count words per list"`
	Export  WordsExportCmd  `cmd:"" help:"Print the registry as CSV"`
}

// WordsSummaryCmd is the "words summary" subcommand.
type WordsSummaryCmd struct{}

// WordsExportCmd is the "words export" subcommand.
type WordsExportCmd struct{}

// ArticlesCmd groups article subcommands.
type ArticlesCmd struct {
	List   ArticlesListCmd   `cmd:"" help:"List stored articles, newest first"`
	Delete ArticlesDeleteCmd `cmd:"" help:"Delete a stored article, reverting its counts first"`
}

// ArticlesListCmd is the "articles list" subcommand.
type ArticlesListCmd struct {
	Limit   int  `short:"n" default:"20" help:"Maximum number of articles"`
	Counted bool `help:"Only articles whose counts are applied"`
}

// ArticlesDeleteCmd is the "articles delete" subcommand.
type ArticlesDeleteCmd struct {
	ID string `arg:"" help:"Article ID"`
}
