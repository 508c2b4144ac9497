// Package sources imports published vocabulary lists into the word-list
// registry. Lists are fetched concurrently through a per-domain rate
// limiter with bounded retry.
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/lexcov"
	"golang.org/x/sync/errgroup"
)

// Source is a known word-list publication.
type Source struct {
	Name  string // command-line name, e.g. "ngsl-spoken"
	Label string // registry tag, e.g. "Spoken"
	URL   string
}

// Known lists the built-in sources in their canonical import order.
var Known = []Source{
	{Name: "ngsl", Label: lexcov.ListNGSL, URL: "https://www.newgeneralservicelist.com/s/NGSL_12_alphabetized_description.txt"},
	{Name: "nawl", Label: lexcov.ListNAWL, URL: "https://www.newgeneralservicelist.com/s/NAWL_12_alphabetized_description.txt"},
	{Name: "ngsl-spoken", Label: lexcov.ListSpoken, URL: "https://www.newgeneralservicelist.com/s/NGSL-Spoken_12_alphabetized_description.txt"},
}

// Names returns the names of the Known sources.
func Names() []string {
	names := make([]string, len(Known))
	for i, s := range Known {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the known source with the given name.
func Lookup(name string) (Source, bool) {
	for _, s := range Known {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// DefaultConcurrency bounds simultaneous list downloads.
const DefaultConcurrency = 3

// Importer fetches word lists and merges them into the registry.
type Importer struct {
	Fetcher     lexcov.Fetcher
	Words       lexcov.WordStore
	RateLimiter lexcov.HostLimiter // optional
	Concurrency int
	RetryDelays []time.Duration // nil selects DefaultRetryDelays
	Logf        LogFunc         // optional progress output
}

// Request selects the lists to import.
type Request struct {
	Names []string

	// SourceURL overrides the download URL. Only valid with a single name.
	SourceURL string

	// DryRun fetches and parses without touching the registry.
	DryRun bool
}

// ListResult is the outcome for one list.
type ListResult struct {
	Source Source
	Words  []string
	Import lexcov.ImportResult
}

// Result is the outcome of an import.
type Result struct {
	Lists []ListResult

	// Total is the registry size after the import, zero on dry runs.
	Total int
}

// Import downloads and parses the requested lists, then tags their words in
// the registry in request order and saves it once.
func (im *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	srcs, err := resolve(req)
	if err != nil {
		return nil, err
	}

	lists, err := im.fetchAll(ctx, srcs)
	if err != nil {
		return nil, err
	}
	res := &Result{Lists: lists}
	if req.DryRun {
		return res, nil
	}

	reg, err := im.Words.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	for i := range res.Lists {
		l := &res.Lists[i]
		l.Import = reg.Import(l.Source.Label, l.Words)
	}
	if err := im.Words.Save(ctx, reg); err != nil {
		return nil, fmt.Errorf("save registry: %w", err)
	}
	res.Total = len(reg)
	return res, nil
}

func resolve(req Request) ([]Source, error) {
	if len(req.Names) == 0 {
		return nil, lexcov.Errorf(lexcov.EINVALID, "no word list given: want one of %s", strings.Join(Names(), ", "))
	}
	if req.SourceURL != "" && len(req.Names) > 1 {
		return nil, lexcov.Errorf(lexcov.EINVALID, "source url override needs exactly one list")
	}

	seen := make(map[string]bool)
	var srcs []Source
	for _, name := range req.Names {
		src, ok := Lookup(name)
		if !ok {
			return nil, lexcov.Errorf(lexcov.EINVALID, "unknown word list %q: want one of %s", name, strings.Join(Names(), ", "))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		if req.SourceURL != "" {
			src.URL = req.SourceURL
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}

// fetchAll downloads every source concurrently. Results keep the order of
// srcs. The first failure cancels the remaining downloads.
func (im *Importer) fetchAll(ctx context.Context, srcs []Source) ([]ListResult, error) {
	concurrency := im.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := im.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	out := make([]ListResult, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range srcs {
		g.Go(func() error {
			im.logf("[fetch] %s <- %s", src.Label, src.URL)
			raw, err := FetchWithRetry(gctx, src.URL, im.fetch, im.Logf, delays)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", src.Name, err)
			}
			words := lexcov.ParseWordList(raw)
			im.logf("[parse] %s: %d words", src.Label, len(words))
			out[i] = ListResult{Source: src, Words: words}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetch waits for the host's rate limit before each attempt.
func (im *Importer) fetch(ctx context.Context, rawURL string) (string, error) {
	if im.RateLimiter != nil {
		if err := im.RateLimiter.Wait(ctx, rawURL); err != nil {
			return "", err
		}
	}
	return im.Fetcher.Fetch(ctx, rawURL)
}

func (im *Importer) logf(format string, args ...any) {
	if im.Logf != nil {
		im.Logf(format, args...)
	}
}
