package lexcov

import "context"

// Article is the readable content located in a web page.
type Article struct {
	Title     string
	Body      string
	SourceURL string

	// Strategy names the extraction step that produced Body.
	Strategy string
}

// Extractor locates the article body in raw HTML, removing boilerplate.
type Extractor interface {
	// Extract returns the title and normalized body text of the page.
	// pageURL resolves relative links and serves as the title of last
	// resort. A page without recognizable content yields an article with
	// an empty body rather than an error.
	Extract(ctx context.Context, pageURL, html string) (*Article, error)
}
