package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/fs"
)

// previewLimit caps the dry-run preview of the article body.
const previewLimit = 2000

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	out := deps.Stdout

	fmt.Fprintln(out, "[1] Extracting article...")
	article, err := fetchArticle(deps, c.URL)
	if err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(out, "  Title: %s\n", lexcov.Truncate(article.Title, 80))
	fmt.Fprintf(out, "  Strategy: %s (%d chars)\n", article.Strategy, lexcov.TextLen(article.Body))

	body := article.Body
	var glossary []lexcov.GlossaryEntry
	switch {
	case c.NoRewrite:
		fmt.Fprintln(out, "[2] Rewriting... (skipped)")
	case deps.Rewriter == nil:
		if cfg.Provider == ProviderOpenAI {
			return fail(deps, lexcov.Errorf(lexcov.EINVALID,
				"rewrite: %s or %s not set. Configure the endpoint or pass --no-rewrite", EnvOpenAIAPIKey, EnvOpenAIBaseURL))
		}
		return fail(deps, lexcov.Errorf(lexcov.EINVALID,
			"rewrite: %s not set. Get a key at https://aistudio.google.com/apikey or pass --no-rewrite", EnvGeminiAPIKey))
	default:
		fmt.Fprintf(out, "[2] Rewriting for %s...\n", cfg.Level)
		rw, err := deps.Rewriter.Rewrite(deps.Ctx, article.Body, cfg.Level)
		if err != nil {
			return fail(deps, fmt.Errorf("rewrite: %w", err))
		}
		if rw.Malformed {
			fmt.Fprintln(deps.Stderr, "warn: rewrite reply was not structured JSON; using it as the body")
		}
		body = rw.Body
		glossary = rw.Glossary
	}

	fmt.Fprintln(out, "[3] Loading word lists...")
	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return fail(deps, fmt.Errorf("registry: %w", err))
	}
	byList := reg.WordsByList()
	if first := cfg.Coverage.WrittenTags[0]; len(byList[first]) == 0 {
		return fail(deps, lexcov.Errorf(lexcov.EINVALID,
			"registry: the %s list is empty. Run 'lexcov lists import' first", first))
	}

	fmt.Fprintln(out, "[4] Computing coverage...")
	manual, err := fs.LoadTerms(cfg.TermsPath)
	if err != nil {
		return fail(deps, fmt.Errorf("terms: %w", err))
	}
	detected := detectTerms(deps, body)
	if len(detected) > 0 {
		fmt.Fprintf(out, "  Detected specialized terms: %s\n", strings.Join(detected, ", "))
	}
	exclude := manual.Union(lexcov.NewWordSet(detected...))
	metrics := lexcov.Coverage(body, byList, exclude, cfg.Coverage)
	printCoverage(deps, metrics)

	if c.DryRun {
		preview := body
		if lexcov.TextLen(preview) > previewLimit {
			preview = lexcov.Truncate(preview, previewLimit) + "\n... (truncated)"
		}
		fmt.Fprintf(out, "\n===== [%s Rewrite Preview] =====\n", cfg.Level)
		fmt.Fprintln(out, preview)
		fmt.Fprintf(out, "===== [/%s Rewrite Preview] =====\n\n", cfg.Level)
		return nil
	}

	fmt.Fprintln(out, "[5] Storing article...")
	stored := &lexcov.StoredArticle{
		Title:         article.Title,
		SourceURL:     c.URL,
		Strategy:      article.Strategy,
		Body:          body,
		Original:      article.Body,
		Glossary:      glossary,
		Coverage:      metrics,
		Analysis:      lexcov.FormatAnalysis(metrics, cfg.Coverage, detected),
		ManualTerms:   slices.Sorted(maps.Keys(manual)),
		DetectedTerms: detected,
	}
	if !c.NoRewrite {
		stored.Level = cfg.Level
	}
	if err := deps.Articles.CreateArticle(deps.Ctx, stored); err != nil {
		return fail(deps, fmt.Errorf("store: %w", err))
	}
	fmt.Fprintf(out, "  Created article: %s\n", stored.ID)

	if deps.Writer != nil {
		path, err := deps.Writer.WriteArticle(deps.Ctx, stored)
		if err != nil {
			return fail(deps, fmt.Errorf("write: %w", err))
		}
		fmt.Fprintf(out, "  Wrote %s\n", path)
	}

	if c.SkipWordCount {
		fmt.Fprintln(out, "[6] Updating word counts... (skipped)")
	} else {
		fmt.Fprintln(out, "[6] Updating word counts...")
		n, err := applyArticleCounts(deps, stored, reg)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(out, "  Updated %d words\n", n)
	}

	fmt.Fprintln(out, "Done.")
	return nil
}

// fetchArticle fetches the page and extracts its article text. A page
// without extractable text is an error.
func fetchArticle(deps *Dependencies, pageURL string) (*lexcov.Article, error) {
	html, err := deps.Fetcher.Fetch(deps.Ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	article, err := deps.Extractor.Extract(deps.Ctx, pageURL, html)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if strings.TrimSpace(article.Body) == "" {
		return nil, lexcov.Errorf(lexcov.EINVALID, "extract: no article text found at %s", pageURL)
	}
	return article, nil
}

// detectTerms asks the term detector for specialized terms. Failures are
// reported as warnings and yield no terms.
func detectTerms(deps *Dependencies, body string) []string {
	if deps.Terms == nil {
		return nil
	}
	terms, err := deps.Terms.DetectTerms(deps.Ctx, body)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warn: specialized-term detection failed: %s\n", lexcov.ErrorMessage(err))
		return nil
	}
	return terms
}

func printCoverage(deps *Dependencies, m *lexcov.CoverageMetrics) {
	out := deps.Stdout
	fmt.Fprintf(out, "  tokens_total (raw): %d\n", m.TokensTotal)
	fmt.Fprintf(out, "  tokens_total (specialized-excluded): %d\n", m.TokensTotalFiltered)
	for _, line := range lexcov.CoverageSummary(m, deps.Config.Coverage) {
		fmt.Fprintf(out, "  %s\n", line)
	}
	if len(m.TopNonCore) > 0 {
		top := &lexcov.CoverageMetrics{TopNonCore: m.TopNonCore[:min(len(m.TopNonCore), 5)]}
		fmt.Fprintf(out, "  Top non-core: %s\n", lexcov.FormatNonCore(top))
	}
}
