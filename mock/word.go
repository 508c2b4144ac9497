package mock

import (
	"context"

	"github.com/fwojciec/lexcov"
)

var _ lexcov.WordStore = (*WordStore)(nil)

// WordStore is a mock implementation of lexcov.WordStore.
type WordStore struct {
	LoadFn func(ctx context.Context) (lexcov.Registry, error)
	SaveFn func(ctx context.Context, r lexcov.Registry) error
}

func (s *WordStore) Load(ctx context.Context) (lexcov.Registry, error) {
	return s.LoadFn(ctx)
}

func (s *WordStore) Save(ctx context.Context, r lexcov.Registry) error {
	return s.SaveFn(ctx, r)
}
