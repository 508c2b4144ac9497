package mock

import (
	"context"

	"github.com/fwojciec/lexcov"
)

var (
	_ lexcov.Rewriter     = (*Rewriter)(nil)
	_ lexcov.TermDetector = (*TermDetector)(nil)
)

// Rewriter is a mock implementation of lexcov.Rewriter.
type Rewriter struct {
	RewriteFn func(ctx context.Context, text, level string) (*lexcov.Rewrite, error)
}

func (r *Rewriter) Rewrite(ctx context.Context, text, level string) (*lexcov.Rewrite, error) {
	return r.RewriteFn(ctx, text, level)
}

// TermDetector is a mock implementation of lexcov.TermDetector.
type TermDetector struct {
	DetectTermsFn func(ctx context.Context, text string) ([]string, error)
}

func (d *TermDetector) DetectTerms(ctx context.Context, text string) ([]string, error) {
	return d.DetectTermsFn(ctx, text)
}
