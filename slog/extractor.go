package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lexcov"
)

// Ensure LoggingExtractor implements lexcov.Extractor.
var _ lexcov.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of the chosen strategy.
type LoggingExtractor struct {
	next   lexcov.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next lexcov.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, pageURL, html string) (a *lexcov.Article, err error) {
	defer func(begin time.Time) {
		var strategy string
		var chars int
		if a != nil {
			strategy = a.Strategy
			chars = lexcov.TextLen(a.Body)
		}
		e.logger.Log(ctx, levelFor(err), "extract",
			"url", pageURL,
			"strategy", strategy,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, pageURL, html)
}
