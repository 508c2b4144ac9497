package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{
			name: "replaces punctuation runs with hyphens",
			text: "Bitcoin ETF: What's Next?",
			n:    60,
			want: "bitcoin-etf-what-s-next",
		},
		{
			name: "trims surrounding separators",
			text: "  --Hello World--  ",
			n:    60,
			want: "hello-world",
		},
		{
			name: "truncates to n characters",
			text: "abcdefghij",
			n:    4,
			want: "abcd",
		},
		{
			name: "drops non-ascii letters",
			text: "暗号資産",
			n:    60,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, fs.Slug(tt.text, tt.n))
		})
	}
}

func TestFormatArticle(t *testing.T) {
	t.Parallel()

	t.Run("formats article with frontmatter, glossary and coverage", func(t *testing.T) {
		t.Parallel()

		a := &lexcov.StoredArticle{
			SourceURL:  "https://example.com/news/etf",
			Title:      "ETF Approved",
			Level:      lexcov.LevelB1,
			Body:       "The fund was approved.",
			Glossary:   []lexcov.GlossaryEntry{{Term: "fund", Definition: "a pool of money"}},
			Analysis:   "Coverage (specialized-free):\nNGSL: 2 tokens (50.0% specialized-free)",
			ImportedAt: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
		}

		got := fs.FormatArticle(a)

		want := `---
source: https://example.com/news/etf
title: ETF Approved
level: B1
imported: 2025-01-08
---

The fund was approved.

## Glossary

- **fund**: a pool of money

## Coverage

Coverage (specialized-free):
NGSL: 2 tokens (50.0% specialized-free)
`

		assert.Equal(t, want, got)
	})

	t.Run("omits empty sections", func(t *testing.T) {
		t.Parallel()

		a := &lexcov.StoredArticle{
			SourceURL:  "https://example.com/a",
			Title:      "A",
			Body:       "Body.",
			ImportedAt: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		}

		got := fs.FormatArticle(a)

		assert.Equal(t, "---\nsource: https://example.com/a\ntitle: A\nimported: 2025-01-08\n---\n\nBody.\n", got)
	})
}

func TestWriter_WriteArticle(t *testing.T) {
	t.Parallel()

	t.Run("writes slugged file with random suffix", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "output")
		w := fs.NewWriter(dir)
		a := &lexcov.StoredArticle{
			SourceURL: "https://example.com/a",
			Title:     "Market Update",
			Body:      "Prices rose.",
		}

		path, err := w.WriteArticle(context.Background(), a)

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`market-update-[0-9a-f]{6}\.md$`), filepath.Base(path))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, fs.FormatArticle(a), string(content))
	})

	t.Run("does not overwrite articles with the same title", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		a := &lexcov.StoredArticle{SourceURL: "https://example.com/a", Title: "Same"}

		first, err := w.WriteArticle(context.Background(), a)
		require.NoError(t, err)
		second, err := w.WriteArticle(context.Background(), a)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("falls back to a generic name for untitled articles", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())

		path, err := w.WriteArticle(context.Background(), &lexcov.StoredArticle{SourceURL: "https://example.com/a"})

		require.NoError(t, err)
		assert.Regexp(t, `^article-[0-9a-f]{6}\.md$`, filepath.Base(path))
	})

	t.Run("rejects invalid articles", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())

		_, err := w.WriteArticle(context.Background(), &lexcov.StoredArticle{Title: "No URL"})

		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(err))
	})
}
