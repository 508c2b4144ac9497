// Package trafilatura implements lexcov.Extractor with go-trafilatura.
package trafilatura

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/lexcov"
	"github.com/markusmobius/go-trafilatura"
)

// Strategy is reported in lexcov.Article.Strategy.
const Strategy = "trafilatura"

// Ensure Extractor implements lexcov.Extractor at compile time.
var _ lexcov.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	fallback bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback toggles trafilatura's readability and dom-distiller
// fallbacks. Enabled by default.
func WithFallback(on bool) Option {
	return func(e *Extractor) {
		e.fallback = on
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{fallback: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the page title and the normalized text trafilatura
// selects. Pages without extractable content yield an empty body.
func (e *Extractor) Extract(ctx context.Context, pageURL, rawHTML string) (*lexcov.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rawHTML == "" {
		return nil, lexcov.Errorf(lexcov.EINVALID, "empty HTML input")
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, lexcov.Errorf(lexcov.EINVALID, "invalid page url %q: %v", pageURL, err)
	}

	opts := trafilatura.Options{
		OriginalURL:    u,
		EnableFallback: e.fallback,
	}

	out := &lexcov.Article{Title: pageURL, SourceURL: pageURL, Strategy: Strategy}
	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil {
		return out, nil
	}
	if t := lexcov.NormalizeText(result.Metadata.Title); t != "" {
		out.Title = t
	}
	out.Body = lexcov.NormalizeText(result.ContentText)
	return out, nil
}
