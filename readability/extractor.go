// Package readability implements lexcov.Extractor with go-readability, the
// Mozilla Readability port.
package readability

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/lexcov"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Strategy is reported in lexcov.Article.Strategy.
const Strategy = "readability"

// Ensure Extractor implements lexcov.Extractor at compile time.
var _ lexcov.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the normalized text of the content
// readability selects. A page readability cannot parse yields an empty
// body with the URL as title.
func (e *Extractor) Extract(ctx context.Context, pageURL, rawHTML string) (*lexcov.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rawHTML == "" {
		return nil, lexcov.Errorf(lexcov.EINVALID, "empty HTML input")
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, lexcov.Errorf(lexcov.EINVALID, "invalid page url %q: %v", pageURL, err)
	}

	out := &lexcov.Article{Title: pageURL, SourceURL: pageURL, Strategy: Strategy}
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return out, nil
	}
	if t := lexcov.NormalizeText(article.Title); t != "" {
		out.Title = t
	}
	if article.Node != nil {
		out.Body = nodeText(article.Node)
	} else {
		out.Body = lexcov.NormalizeText(article.TextContent)
	}
	return out, nil
}

// nodeText joins the text nodes under n with spaces, so adjacent paragraphs
// never run together.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return lexcov.NormalizeText(strings.Join(parts, " "))
}
