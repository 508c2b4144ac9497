package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/fs"
)

// Run executes the apply-counts command. An article whose counts are
// already applied is skipped.
func (c *ApplyCountsCmd) Run(deps *Dependencies) error {
	article, reg, err := loadCountable(deps, c.ID)
	if err != nil {
		return fail(deps, err)
	}
	if article.CountsApplied {
		fmt.Fprintf(deps.Stdout, "[apply-counts] already applied, skipping: %s\n", article.ID)
		return nil
	}

	n, err := applyArticleCounts(deps, article, reg)
	if err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Applied counts for article: %s (%d words)\n", article.ID, n)
	return nil
}

// Run executes the unapply-counts command. An article whose counts were
// never applied is skipped.
func (c *UnapplyCountsCmd) Run(deps *Dependencies) error {
	article, reg, err := loadCountable(deps, c.ID)
	if err != nil {
		return fail(deps, err)
	}
	if !article.CountsApplied {
		fmt.Fprintf(deps.Stdout, "[unapply-counts] counts not applied, skipping: %s\n", article.ID)
		return nil
	}

	n, err := revertArticleCounts(deps, article, reg)
	if err != nil {
		return fail(deps, err)
	}
	if n == 0 {
		fmt.Fprintln(deps.Stdout, "[unapply-counts] no matching words, counters unchanged")
	}
	fmt.Fprintf(deps.Stdout, "[unapply-counts] reverted %d words for article %s\n", n, article.ID)
	return nil
}

// applyArticleCounts adds the article's encounters to the registry. The
// article is flagged with the exact encounters before the registry is saved
// and the flag is cleared again when the save fails, so a retry never counts
// the article twice.
func applyArticleCounts(deps *Dependencies, article *lexcov.StoredArticle, reg lexcov.Registry) (int, error) {
	encounters := article.Encounters(reg)
	if err := deps.Articles.MarkCountsApplied(deps.Ctx, article.ID, encounters); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	n := reg.ApplyCounts(encounters, lexcov.Now())
	if err := deps.Words.Save(deps.Ctx, reg); err != nil {
		if cerr := deps.Articles.ClearCountsApplied(deps.Ctx, article.ID); cerr != nil {
			return 0, fmt.Errorf("registry: %w (article %s is still flagged as counted: %v)", err, article.ID, cerr)
		}
		return 0, fmt.Errorf("registry: %w", err)
	}
	article.CountsApplied = true
	article.AppliedEncounters = encounters
	return n, nil
}

// revertArticleCounts removes the encounters recorded when the article was
// counted. The flag is cleared before the registry is saved and restored
// when the save fails.
func revertArticleCounts(deps *Dependencies, article *lexcov.StoredArticle, reg lexcov.Registry) (int, error) {
	encounters := article.AppliedEncounters
	if encounters == nil {
		// Counted before encounters were recorded.
		encounters = article.Encounters(reg)
	}
	if err := deps.Articles.ClearCountsApplied(deps.Ctx, article.ID); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	n := reg.UnapplyCounts(encounters)
	if n > 0 {
		if err := deps.Words.Save(deps.Ctx, reg); err != nil {
			if merr := deps.Articles.MarkCountsApplied(deps.Ctx, article.ID, encounters); merr != nil {
				return 0, fmt.Errorf("registry: %w (article %s is no longer flagged as counted: %v)", err, article.ID, merr)
			}
			return 0, fmt.Errorf("registry: %w", err)
		}
	}
	article.CountsApplied = false
	article.AppliedEncounters = nil
	return n, nil
}

// loadCountable returns the article and the registry, failing for an
// article without body or an empty registry.
func loadCountable(deps *Dependencies, id string) (*lexcov.StoredArticle, lexcov.Registry, error) {
	article, err := deps.Articles.FindArticleByID(deps.Ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(article.Body) == "" {
		return nil, nil, lexcov.Errorf(lexcov.EINVALID, "article %s has an empty body", id)
	}
	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("registry: %w", err)
	}
	if len(reg) == 0 {
		return nil, nil, lexcov.Errorf(lexcov.EINVALID, "word registry is empty. Run 'lexcov seed' or 'lexcov lists import' first")
	}
	return article, reg, nil
}

// Run executes the reset-words command.
func (c *ResetWordsCmd) Run(deps *Dependencies) error {
	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return fail(deps, fmt.Errorf("registry: %w", err))
	}
	before, err := reg.Reset(lexcov.ResetMode(c.Mode))
	if err != nil {
		return fail(deps, err)
	}
	if err := deps.Words.Save(deps.Ctx, reg); err != nil {
		return fail(deps, fmt.Errorf("registry: %w", err))
	}
	if lexcov.ResetMode(c.Mode) == lexcov.ResetArchive {
		fmt.Fprintf(deps.Stdout, "[reset] removed all entries (previously %d).\n", before)
	} else {
		fmt.Fprintf(deps.Stdout, "[reset] counters zeroed for %d entries.\n", before)
	}
	return nil
}

// Run executes the seed command.
func (c *SeedCmd) Run(deps *Dependencies) error {
	words, err := fs.ReadWordColumnFile(c.File)
	if err != nil {
		return fail(deps, fmt.Errorf("seed: %w", err))
	}
	reg, err := deps.Words.Load(deps.Ctx)
	if err != nil {
		return fail(deps, fmt.Errorf("registry: %w", err))
	}
	created := reg.Seed(words)
	if err := deps.Words.Save(deps.Ctx, reg); err != nil {
		return fail(deps, fmt.Errorf("registry: %w", err))
	}
	fmt.Fprintf(deps.Stdout, "[seed] added %d of %d words (total=%d)\n", created, len(words), len(reg))
	return nil
}
