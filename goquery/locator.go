package goquery

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lexcov"
	"golang.org/x/net/html"
)

// Strategy names.
const (
	StrategyStructuredData  = "structured-data"
	StrategyAMP             = "amp"
	StrategySelector        = "selector"
	StrategyParagraphParent = "paragraph-parent"
	StrategyParagraphs      = "paragraphs"
)

// minBlockLen is the text length a heuristic candidate must reach.
const minBlockLen = 200

// maxParagraphParents bounds how many paragraph parents are scored.
const maxParagraphParents = 8

// BodySelectors match common article containers, semantic elements first.
var BodySelectors = []string{
	"article",
	"[role=main]",
	"main",
	"[class*=entry-content]",
	".td-post-content",
	".post-content",
	".article-content",
	".story-content",
	".content-body",
	".c-article__body",
	".article-body",
}

// Page is a fetched HTML page being examined by the strategies.
type Page struct {
	URL  string
	HTML string

	doc    *goquery.Document
	pruned *goquery.Document
}

func newPage(pageURL, rawHTML string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, lexcov.Errorf(lexcov.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Page{URL: pageURL, HTML: rawHTML, doc: doc}, nil
}

// Document returns the page as parsed.
// It must not be modified.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Pruned returns a separately parsed copy of the page with Prune applied.
func (p *Page) Pruned() *goquery.Document {
	if p.pruned == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
		if err != nil {
			// The page parsed once already; x/net/html only fails on reader errors.
			doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
		}
		Prune(doc)
		p.pruned = doc
	}
	return p.pruned
}

// FallbackTitle is the page <title>, or the URL when there is none.
func (p *Page) FallbackTitle() string {
	if t := documentTitle(p.doc); t != "" {
		return t
	}
	return p.URL
}

// HeadingTitle is the first non-empty <h1>, else the FallbackTitle.
func (p *Page) HeadingTitle() string {
	if t := headingTitle(p.doc); t != "" {
		return t
	}
	return p.FallbackTitle()
}

func documentTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func headingTitle(doc *goquery.Document) string {
	var title string
	doc.Find("h1").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		title = VisibleText(h)
		return title == ""
	})
	return title
}

// Strategy is one step of the extraction cascade. Extract returns the
// article found on the page and whether it is acceptable.
type Strategy struct {
	Name    string
	Extract func(ctx context.Context, p *Page) (*lexcov.Article, bool)
}

// Ensure Extractor implements lexcov.Extractor.
var _ lexcov.Extractor = (*Extractor)(nil)

// Extractor locates article text by trying each strategy in order and
// returning the first acceptable result.
type Extractor struct {
	fetcher    lexcov.Fetcher
	strategies []Strategy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithFetcher enables the AMP strategy, which fetches the AMP version of
// the page with f.
func WithFetcher(f lexcov.Fetcher) Option {
	return func(e *Extractor) {
		e.fetcher = f
	}
}

// WithStrategies replaces the default cascade.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// NewExtractor creates an Extractor with the default cascade: structured
// data, AMP page, article selectors, paragraph parents and finally every
// paragraph of the page.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	e.strategies = []Strategy{
		{Name: StrategyStructuredData, Extract: extractStructured},
		{Name: StrategyAMP, Extract: e.extractAMP},
		{Name: StrategySelector, Extract: extractSelector},
		{Name: StrategyParagraphParent, Extract: extractParagraphParent},
		{Name: StrategyParagraphs, Extract: extractParagraphs},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategies returns the cascade in evaluation order.
func (e *Extractor) Strategies() []Strategy {
	return e.strategies
}

// Extract implements lexcov.Extractor.
func (e *Extractor) Extract(ctx context.Context, pageURL, rawHTML string) (*lexcov.Article, error) {
	p, err := newPage(pageURL, rawHTML)
	if err != nil {
		return nil, err
	}
	for _, s := range e.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		article, ok := s.Extract(ctx, p)
		if !ok {
			continue
		}
		article.SourceURL = pageURL
		article.Strategy = s.Name
		return article, nil
	}
	return &lexcov.Article{Title: p.FallbackTitle(), SourceURL: pageURL}, nil
}

func extractStructured(_ context.Context, p *Page) (*lexcov.Article, bool) {
	ld, ok := structuredArticle(p.Document())
	if !ok {
		return nil, false
	}
	title := ld.Title
	if title == "" {
		title = p.FallbackTitle()
	}
	return &lexcov.Article{Title: title, Body: ld.Body}, true
}

// extractAMP fetches the AMP version of the page and runs the structured
// data and block heuristics on it. Fetch and parse failures only mean the
// strategy found nothing.
func (e *Extractor) extractAMP(ctx context.Context, p *Page) (*lexcov.Article, bool) {
	if e.fetcher == nil {
		return nil, false
	}
	ampURL, ok := ampCandidateURL(p)
	if !ok {
		return nil, false
	}
	raw, err := e.fetcher.Fetch(ctx, ampURL)
	if err != nil {
		return nil, false
	}
	amp, err := newPage(ampURL, raw)
	if err != nil {
		return nil, false
	}

	if ld, ok := structuredArticle(amp.Document()); ok {
		title := ld.Title
		if title == "" {
			title = documentTitle(amp.Document())
		}
		if title == "" {
			title = p.FallbackTitle()
		}
		return &lexcov.Article{Title: title, Body: ld.Body}, true
	}

	text, ok := bestBlock(BodySelectorBlocks(amp.Pruned()))
	if !ok {
		text, ok = bestBlock(ParagraphParents(amp.Pruned()))
	}
	if !ok {
		return nil, false
	}
	body, ok := acceptBlock(text)
	if !ok {
		return nil, false
	}
	title := headingTitle(amp.Document())
	if title == "" {
		title = documentTitle(amp.Document())
	}
	if title == "" {
		title = p.FallbackTitle()
	}
	return &lexcov.Article{Title: title, Body: body}, true
}

// ampCandidateURL returns the declared AMP alternate resolved against the
// page URL, or the page URL with "/amp" appended when none is declared and
// the page is not already an AMP page.
func ampCandidateURL(p *Page) (string, bool) {
	var href string
	p.Document().Find("link[rel][href]").EachWithBreak(func(_ int, l *goquery.Selection) bool {
		rel, _ := l.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "amphtml") {
			return true
		}
		href, _ = l.Attr("href")
		href = strings.TrimSpace(href)
		return href == ""
	})
	if href != "" {
		if resolved := resolveURL(p.URL, href); resolved != "" {
			return resolved, true
		}
	}
	if strings.HasSuffix(p.URL, "/amp") {
		return "", false
	}
	return strings.TrimRight(p.URL, "/") + "/amp", true
}

func resolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func extractSelector(_ context.Context, p *Page) (*lexcov.Article, bool) {
	return blockArticle(p, BodySelectorBlocks(p.Pruned()))
}

func extractParagraphParent(_ context.Context, p *Page) (*lexcov.Article, bool) {
	return blockArticle(p, ParagraphParents(p.Pruned()))
}

// extractParagraphs joins every paragraph of the unpruned page. It always
// succeeds, possibly with an empty body.
func extractParagraphs(_ context.Context, p *Page) (*lexcov.Article, bool) {
	var parts []string
	p.Document().Find("p").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, VisibleText(s))
	})
	return &lexcov.Article{
		Title: p.FallbackTitle(),
		Body:  lexcov.NormalizeText(strings.Join(parts, " ")),
	}, true
}

func blockArticle(p *Page, blocks []*goquery.Selection) (*lexcov.Article, bool) {
	text, ok := bestBlock(blocks)
	if !ok {
		return nil, false
	}
	body, ok := acceptBlock(text)
	if !ok {
		return nil, false
	}
	return &lexcov.Article{Title: p.HeadingTitle(), Body: body}, true
}

// acceptBlock cleans block text and reports whether enough of it remains.
func acceptBlock(text string) (string, bool) {
	body := lexcov.NormalizeText(cleanLines(text))
	return body, lexcov.TextLen(body) > minBlockLen
}

// BodySelectorBlocks returns the elements matching BodySelectors, in
// selector order.
func BodySelectorBlocks(doc *goquery.Document) []*goquery.Selection {
	var blocks []*goquery.Selection
	for _, selector := range BodySelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			blocks = append(blocks, s)
		})
	}
	return blocks
}

// ParagraphParents returns the parents of <p> elements holding the most
// paragraphs, at most eight, in descending paragraph count. Ties keep
// document order.
func ParagraphParents(doc *goquery.Document) []*goquery.Selection {
	type parentCount struct {
		node  *html.Node
		count int
	}
	index := make(map[*html.Node]int)
	var parents []parentCount
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		parent := s.Nodes[0].Parent
		if parent == nil {
			return
		}
		i, ok := index[parent]
		if !ok {
			i = len(parents)
			index[parent] = i
			parents = append(parents, parentCount{node: parent})
		}
		parents[i].count++
	})
	sort.SliceStable(parents, func(i, j int) bool {
		return parents[i].count > parents[j].count
	})

	var blocks []*goquery.Selection
	for _, pc := range parents[:min(len(parents), maxParagraphParents)] {
		blocks = append(blocks, doc.FindNodes(pc.node))
	}
	return blocks
}

// bestBlock returns the text of the highest scoring block. Blocks shorter
// than minBlockLen or containing promotional phrases are rejected; the
// score is the text length discounted by link density.
func bestBlock(blocks []*goquery.Selection) (string, bool) {
	var best string
	bestScore := -1.0
	for _, b := range blocks {
		text := VisibleText(b)
		n := lexcov.TextLen(text)
		if n < minBlockLen || adTextRe.MatchString(text) {
			continue
		}
		score := float64(n) * (1 - LinkDensity(b))
		if score > bestScore {
			bestScore = score
			best = text
		}
	}
	return best, bestScore >= 0
}
