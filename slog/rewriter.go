package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lexcov"
)

var (
	_ lexcov.Rewriter     = (*LoggingRewriter)(nil)
	_ lexcov.TermDetector = (*LoggingTermDetector)(nil)
)

// LoggingRewriter wraps a Rewriter with logging.
type LoggingRewriter struct {
	next   lexcov.Rewriter
	logger *slog.Logger
}

// NewLoggingRewriter creates a new LoggingRewriter.
func NewLoggingRewriter(next lexcov.Rewriter, logger *slog.Logger) *LoggingRewriter {
	return &LoggingRewriter{next: next, logger: logger}
}

// Rewrite delegates to the wrapped rewriter. A malformed reply is logged
// at warn level even though it is not an error.
func (r *LoggingRewriter) Rewrite(ctx context.Context, text, level string) (rw *lexcov.Rewrite, err error) {
	defer func(begin time.Time) {
		lvl := levelFor(err)
		var chars, glossary int
		var malformed bool
		if rw != nil {
			chars = lexcov.TextLen(rw.Body)
			glossary = len(rw.Glossary)
			malformed = rw.Malformed
			if malformed {
				lvl = slog.LevelWarn
			}
		}
		r.logger.Log(ctx, lvl, "rewrite",
			"cefr", level,
			"input_chars", lexcov.TextLen(text),
			"chars", chars,
			"glossary", glossary,
			"malformed", malformed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Rewrite(ctx, text, level)
}

// LoggingTermDetector wraps a TermDetector with logging.
type LoggingTermDetector struct {
	next   lexcov.TermDetector
	logger *slog.Logger
}

// NewLoggingTermDetector creates a new LoggingTermDetector.
func NewLoggingTermDetector(next lexcov.TermDetector, logger *slog.Logger) *LoggingTermDetector {
	return &LoggingTermDetector{next: next, logger: logger}
}

// DetectTerms delegates to the wrapped detector and logs the term count.
func (d *LoggingTermDetector) DetectTerms(ctx context.Context, text string) (terms []string, err error) {
	defer func(begin time.Time) {
		d.logger.Log(ctx, levelFor(err), "detect terms",
			"count", len(terms),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DetectTerms(ctx, text)
}
