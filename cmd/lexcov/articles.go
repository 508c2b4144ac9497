package main

import (
	"fmt"

	"github.com/fwojciec/lexcov"
	"github.com/mattn/go-runewidth"
)

// titleWidth is the terminal column budget for titles in listings.
const titleWidth = 60

// Run executes the articles list command.
func (c *ArticlesListCmd) Run(deps *Dependencies) error {
	filter := lexcov.ArticleFilter{Limit: c.Limit}
	if c.Counted {
		counted := true
		filter.CountsApplied = &counted
	}
	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		return fail(deps, err)
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'lexcov ingest' to add one.")
		return nil
	}

	for _, a := range articles {
		mark := " "
		if a.CountsApplied {
			mark = "*"
		}
		written := "-"
		if a.Coverage != nil {
			written = fmt.Sprintf("%.1f%%", a.Coverage.WrittenPercent)
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %s  %-4s %7s  %s\n",
			mark, a.ID, a.ImportedAt.Format("2006-01-02"), a.Level, written, runewidth.Truncate(a.Title, titleWidth, "..."))
	}
	return nil
}

// Run executes the articles delete command. Counts an article contributed
// are removed from the registry before the article is deleted.
func (c *ArticlesDeleteCmd) Run(deps *Dependencies) error {
	article, err := deps.Articles.FindArticleByID(deps.Ctx, c.ID)
	if err != nil {
		return fail(deps, err)
	}

	if article.CountsApplied {
		reg, err := deps.Words.Load(deps.Ctx)
		if err != nil {
			return fail(deps, fmt.Errorf("registry: %w", err))
		}
		n, err := revertArticleCounts(deps, article, reg)
		if err != nil {
			return fail(deps, err)
		}
		if n > 0 {
			fmt.Fprintf(deps.Stdout, "Reverted %d words\n", n)
		}
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, article.ID); err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted article: %s\n", article.ID)
	return nil
}
