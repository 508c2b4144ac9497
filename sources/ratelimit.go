package sources

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/lexcov"
	"golang.org/x/time/rate"
)

var _ lexcov.HostLimiter = (*HostLimiter)(nil)

// HostLimiter paces list downloads per host. Hosts that differ only by a
// leading "www." share a bucket.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewHostLimiter returns a HostLimiter allowing rps requests per second to
// each host with the given burst. A burst below one is treated as one and a
// non-positive rps disables pacing.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   max(burst, 1),
	}
}

// Wait blocks until a request to the host of rawURL is allowed.
// Returns EINVALID if rawURL has no host.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostKey(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[host]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[host] = b
	}
	return b
}

func hostKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", lexcov.Errorf(lexcov.EINVALID, "invalid source url %q: %v", rawURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", lexcov.Errorf(lexcov.EINVALID, "source url %q has no host", rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}
