package mock

import (
	"context"

	"github.com/fwojciec/lexcov"
)

var _ lexcov.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of lexcov.ArticleService.
type ArticleService struct {
	CreateArticleFn      func(ctx context.Context, a *lexcov.StoredArticle) error
	FindArticleByIDFn    func(ctx context.Context, id string) (*lexcov.StoredArticle, error)
	FindArticlesFn       func(ctx context.Context, filter lexcov.ArticleFilter) ([]*lexcov.StoredArticle, error)
	MarkCountsAppliedFn  func(ctx context.Context, id string, encounters lexcov.Counts) error
	ClearCountsAppliedFn func(ctx context.Context, id string) error
	DeleteArticleFn      func(ctx context.Context, id string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, a *lexcov.StoredArticle) error {
	return s.CreateArticleFn(ctx, a)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*lexcov.StoredArticle, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter lexcov.ArticleFilter) ([]*lexcov.StoredArticle, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) MarkCountsApplied(ctx context.Context, id string, encounters lexcov.Counts) error {
	return s.MarkCountsAppliedFn(ctx, id, encounters)
}

func (s *ArticleService) ClearCountsApplied(ctx context.Context, id string) error {
	return s.ClearCountsAppliedFn(ctx, id)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}
