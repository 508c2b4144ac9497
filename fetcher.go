package lexcov

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any held resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// HostLimiter paces requests per host.
type HostLimiter interface {
	// Wait blocks until a request to the host of rawURL is allowed or ctx
	// is done.
	Wait(ctx context.Context, rawURL string) error
}
