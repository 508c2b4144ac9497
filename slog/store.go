package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lexcov"
)

var (
	_ lexcov.WordStore      = (*LoggingWordStore)(nil)
	_ lexcov.ArticleService = (*LoggingArticleService)(nil)
)

// LoggingWordStore wraps a WordStore with logging of registry sizes.
type LoggingWordStore struct {
	next   lexcov.WordStore
	logger *slog.Logger
}

// NewLoggingWordStore creates a new LoggingWordStore.
func NewLoggingWordStore(next lexcov.WordStore, logger *slog.Logger) *LoggingWordStore {
	return &LoggingWordStore{next: next, logger: logger}
}

// Load delegates to the wrapped store.
func (s *LoggingWordStore) Load(ctx context.Context) (r lexcov.Registry, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "load words",
			"words", len(r),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store.
func (s *LoggingWordStore) Save(ctx context.Context, r lexcov.Registry) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "save words",
			"words", len(r),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, r)
}

// LoggingArticleService wraps an ArticleService, logging its mutations.
type LoggingArticleService struct {
	next   lexcov.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next lexcov.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// CreateArticle delegates to the wrapped service and logs the new id.
func (s *LoggingArticleService) CreateArticle(ctx context.Context, a *lexcov.StoredArticle) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "create article",
			"id", a.ID,
			"url", a.SourceURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, a)
}

// FindArticleByID delegates to the wrapped service.
func (s *LoggingArticleService) FindArticleByID(ctx context.Context, id string) (*lexcov.StoredArticle, error) {
	return s.next.FindArticleByID(ctx, id)
}

// FindArticles delegates to the wrapped service.
func (s *LoggingArticleService) FindArticles(ctx context.Context, filter lexcov.ArticleFilter) ([]*lexcov.StoredArticle, error) {
	return s.next.FindArticles(ctx, filter)
}

// MarkCountsApplied delegates to the wrapped service and logs how many
// distinct words were recorded.
func (s *LoggingArticleService) MarkCountsApplied(ctx context.Context, id string, encounters lexcov.Counts) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "mark counts applied",
			"id", id,
			"words", len(encounters),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.MarkCountsApplied(ctx, id, encounters)
}

// ClearCountsApplied delegates to the wrapped service.
func (s *LoggingArticleService) ClearCountsApplied(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "clear counts applied",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ClearCountsApplied(ctx, id)
}

// DeleteArticle delegates to the wrapped service.
func (s *LoggingArticleService) DeleteArticle(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "delete article",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteArticle(ctx, id)
}
