package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/lexcov"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ lexcov.ArticleService = (*ArticleService)(nil)

// ArticleService implements lexcov.ArticleService using SQLite.
type ArticleService struct {
	db  *DB
	now func() time.Time
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db, now: time.Now}
}

const articleColumns = `id, title, source_url, level, strategy, body, original, glossary, coverage,
	analysis, manual_terms, detected_terms, content_hash, counts_applied, counts_applied_at,
	counts_applied_encounters, imported_at`

// CreateArticle stores a new article, assigning its ID, content hash and
// import time when they are empty.
func (s *ArticleService) CreateArticle(ctx context.Context, a *lexcov.StoredArticle) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.ImportedAt.IsZero() {
		a.ImportedAt = s.now().UTC().Truncate(time.Second)
	}
	a.ContentHash = hashContent(a.Body)

	glossary, err := marshalJSON(a.Glossary)
	if err != nil {
		return err
	}
	manual, err := marshalJSON(a.ManualTerms)
	if err != nil {
		return err
	}
	detected, err := marshalJSON(a.DetectedTerms)
	if err != nil {
		return err
	}
	coverage, err := json.Marshal(a.Coverage)
	if err != nil {
		return err
	}
	encounters, err := marshalCounts(a.AppliedEncounters)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Title, a.SourceURL, a.Level, a.Strategy, a.Body, a.Original, glossary, string(coverage),
		a.Analysis, manual, detected, a.ContentHash, a.CountsApplied, formatTime(a.CountsAppliedAt),
		encounters, formatTime(a.ImportedAt))
	if errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY) || errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return lexcov.Errorf(lexcov.ECONFLICT, "article %s already exists", a.ID)
	}
	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*lexcov.StoredArticle, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lexcov.Errorf(lexcov.ENOTFOUND, "article %s not found", id)
	}
	return a, err
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter lexcov.ArticleFilter) ([]*lexcov.StoredArticle, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + articleColumns + ` FROM articles WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.CountsApplied != nil {
		query.WriteString(" AND counts_applied = ?")
		args = append(args, *filter.CountsApplied)
	}

	query.WriteString(" ORDER BY imported_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*lexcov.StoredArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// MarkCountsApplied sets the counts-applied flag, records the current time
// and stores the encounters that were added to the registry.
func (s *ArticleService) MarkCountsApplied(ctx context.Context, id string, encounters lexcov.Counts) error {
	raw, err := marshalCounts(encounters)
	if err != nil {
		return err
	}
	return s.updateCounts(ctx, id, true, formatTime(s.now()), raw)
}

// ClearCountsApplied clears the counts-applied flag, its time and the
// recorded encounters.
func (s *ArticleService) ClearCountsApplied(ctx context.Context, id string) error {
	return s.updateCounts(ctx, id, false, "", "{}")
}

func (s *ArticleService) updateCounts(ctx context.Context, id string, applied bool, appliedAt, encounters string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET counts_applied = ?, counts_applied_at = ?, counts_applied_encounters = ?
		WHERE id = ?
	`, applied, appliedAt, encounters, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return lexcov.Errorf(lexcov.ENOTFOUND, "article %s not found", id)
	}
	return nil
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return lexcov.Errorf(lexcov.ENOTFOUND, "article %s not found", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*lexcov.StoredArticle, error) {
	var a lexcov.StoredArticle
	var glossary, coverage, manual, detected, appliedAt, encounters, importedAt string

	if err := row.Scan(&a.ID, &a.Title, &a.SourceURL, &a.Level, &a.Strategy, &a.Body, &a.Original,
		&glossary, &coverage, &a.Analysis, &manual, &detected, &a.ContentHash, &a.CountsApplied,
		&appliedAt, &encounters, &importedAt); err != nil {
		return nil, err
	}

	if err := unmarshalJSON(glossary, "glossary", &a.Glossary); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(coverage, "coverage", &a.Coverage); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(manual, "manual_terms", &a.ManualTerms); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(detected, "detected_terms", &a.DetectedTerms); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(encounters, "counts_applied_encounters", &a.AppliedEncounters); err != nil {
		return nil, err
	}

	var err error
	if a.CountsAppliedAt, err = parseTime(appliedAt, "counts_applied_at"); err != nil {
		return nil, err
	}
	if a.ImportedAt, err = parseTime(importedAt, "imported_at"); err != nil {
		return nil, err
	}
	return &a, nil
}
