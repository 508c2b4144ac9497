package mock

import (
	"context"

	"github.com/fwojciec/lexcov"
)

var _ lexcov.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of lexcov.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, rawURL string) error
}

func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	return l.WaitFn(ctx, rawURL)
}
