package mock

import (
	"context"

	"github.com/fwojciec/lexcov"
)

var _ lexcov.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of lexcov.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, pageURL, html string) (*lexcov.Article, error)
}

func (e *Extractor) Extract(ctx context.Context, pageURL, html string) (*lexcov.Article, error) {
	return e.ExtractFn(ctx, pageURL, html)
}
