package lexcov

import (
	"context"
	"slices"
	"time"
)

// Reading levels accepted by the rewrite step.
const (
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
)

// Levels lists every reading level in ascending difficulty.
var Levels = []string{LevelA2, LevelB1, LevelB2, LevelC1}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	return slices.Contains(Levels, level)
}

// GlossaryEntry is a term defined for learners next to a rewritten article.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// StoredArticle is an ingested article as persisted in the article store.
type StoredArticle struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl"`
	Level     string `json:"level"`
	Strategy  string `json:"strategy"`

	// Body is the text whose words are counted: the rewrite, or the
	// extracted text when the rewrite was skipped.
	Body     string          `json:"body"`
	Original string          `json:"original"`
	Glossary []GlossaryEntry `json:"glossary"`

	Coverage      *CoverageMetrics `json:"coverage"`
	Analysis      string           `json:"analysis"`
	ManualTerms   []string         `json:"manualTerms"`
	DetectedTerms []string         `json:"detectedTerms"`

	ContentHash string `json:"contentHash"`

	// CountsApplied records whether the body's encounters are currently
	// included in the word registry counters. AppliedEncounters holds the
	// exact counts that were added, so reverting them does not depend on
	// the registry contents at revert time.
	CountsApplied     bool      `json:"countsApplied"`
	CountsAppliedAt   time.Time `json:"countsAppliedAt"`
	AppliedEncounters Counts    `json:"appliedEncounters"`

	ImportedAt time.Time `json:"importedAt"`
}

// Validate returns an error if the article contains invalid fields.
func (a *StoredArticle) Validate() error {
	if a.SourceURL == "" {
		return Errorf(EINVALID, "article source URL required")
	}
	if a.Level != "" && !ValidLevel(a.Level) {
		return Errorf(EINVALID, "article level %q not one of %v", a.Level, Levels)
	}
	return nil
}

// Encounters returns the occurrence counts of the article body restricted
// to words known to the registry.
func (a *StoredArticle) Encounters(r Registry) Counts {
	return r.Known(CountTokens(ContentTokens(a.Body)))
}

// ArticleService represents a service for managing ingested articles.
type ArticleService interface {
	// CreateArticle stores a new article. ID, ContentHash and ImportedAt
	// are assigned when empty.
	CreateArticle(ctx context.Context, a *StoredArticle) error

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByID(ctx context.Context, id string) (*StoredArticle, error)

	// FindArticles retrieves articles matching the filter, newest first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*StoredArticle, error)

	// MarkCountsApplied sets the counts-applied flag and records the
	// encounters added to the registry.
	// Returns ENOTFOUND if the article does not exist.
	MarkCountsApplied(ctx context.Context, id string, encounters Counts) error

	// ClearCountsApplied clears the counts-applied flag and the recorded
	// encounters.
	// Returns ENOTFOUND if the article does not exist.
	ClearCountsApplied(ctx context.Context, id string) error

	// DeleteArticle permanently removes an article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	ID            *string `json:"id"`
	SourceURL     *string `json:"sourceUrl"`
	CountsApplied *bool   `json:"countsApplied"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
