// Package fs provides file-based storage: the CSV word registry, the
// specialized-term list and markdown copies of ingested articles.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/lexcov"
	"github.com/google/uuid"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// maxSlugLen bounds the title part of article file names.
const maxSlugLen = 60

// Slug converts text to a lowercase, hyphen-separated file name stem of at
// most n characters.
// Example: "Bitcoin ETF: What's Next?" → "bitcoin-etf-what-s-next"
func Slug(text string, n int) string {
	s := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "-")
	s = strings.Trim(s, "-")
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// FormatArticle formats an ingested article as markdown with YAML
// frontmatter, followed by the glossary and the coverage analysis.
func FormatArticle(a *lexcov.StoredArticle) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(a.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(a.Title)
	if a.Level != "" {
		b.WriteString("\nlevel: ")
		b.WriteString(a.Level)
	}
	b.WriteString("\nimported: ")
	b.WriteString(a.ImportedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(a.Body)
	b.WriteString("\n")

	if len(a.Glossary) > 0 {
		b.WriteString("\n## Glossary\n\n")
		for _, g := range a.Glossary {
			b.WriteString("- **")
			b.WriteString(g.Term)
			b.WriteString("**: ")
			b.WriteString(g.Definition)
			b.WriteString("\n")
		}
	}

	if a.Analysis != "" {
		b.WriteString("\n## Coverage\n\n")
		b.WriteString(a.Analysis)
		b.WriteString("\n")
	}
	return b.String()
}

// Writer writes articles as markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteArticle writes the article to <slug>-<6 hex>.md and returns the
// file path. The random suffix keeps articles with equal titles apart.
func (w *Writer) WriteArticle(ctx context.Context, a *lexcov.StoredArticle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := a.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	stem := Slug(a.Title, maxSlugLen)
	if stem == "" {
		stem = "article"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	path := filepath.Join(w.baseDir, stem+"-"+suffix+".md")

	if err := os.WriteFile(path, []byte(FormatArticle(a)), 0644); err != nil {
		return "", err
	}
	return path, nil
}
