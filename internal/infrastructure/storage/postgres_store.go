package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// PostgresStore persists articles, flash items and diagnostic logs.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var articleColumns = []string{
	"id", "source", "title", "content", "url", "pub_date", "category",
	"summary", "author", "image_url", "tags", "created_at", "processed",
	"analysis",
}

// Exists reports presence and terminal state of (id, source) in one round trip.
func (s *PostgresStore) Exists(ctx context.Context, id, source string) (bool, bool, error) {
	query, args, err := s.builder.
		Select("processed").
		From("articles").
		Where(sq.Eq{"id": id, "source": source}).
		ToSql()
	if err != nil {
		return false, false, storeErr("exists", err)
	}

	var processed bool
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&processed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, storeErr("exists", err)
	}
	return true, processed, nil
}

// Upsert inserts or refreshes the article row. The conflict clause keeps the
// processed flag monotonic and never clears a stored analysis; the quality
// enhancement columns are deliberately absent from the update set.
func (s *PostgresStore) Upsert(ctx context.Context, article domain.Article) error {
	tags, err := json.Marshal(nonNilTags(article.Tags))
	if err != nil {
		return storeErr("upsert", fmt.Errorf("marshal tags: %w", err))
	}

	var analysis any
	processed := article.Processed
	if article.Analysis != nil {
		raw, mErr := json.Marshal(article.Analysis)
		if mErr != nil {
			return storeErr("upsert", fmt.Errorf("marshal analysis: %w", mErr))
		}
		analysis = raw
		processed = true
	}

	query, args, err := s.builder.
		Insert("articles").
		Columns(articleColumns...).
		Values(
			article.ID, article.Source, article.Title, article.Content,
			article.URL, article.PubDate, article.Category, article.Summary,
			article.Author, article.ImageURL, tags, sq.Expr("NOW()"),
			processed, analysis,
		).
		Suffix(`ON CONFLICT (id, source) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			url = EXCLUDED.url,
			pub_date = EXCLUDED.pub_date,
			category = EXCLUDED.category,
			summary = EXCLUDED.summary,
			author = EXCLUDED.author,
			image_url = EXCLUDED.image_url,
			tags = EXCLUDED.tags,
			processed = articles.processed OR EXCLUDED.processed,
			analysis = COALESCE(EXCLUDED.analysis, articles.analysis)`).
		ToSql()
	if err != nil {
		return storeErr("upsert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("upsert", err)
	}
	return nil
}

// UpsertFlash persists a flash item under the same dedup rule.
func (s *PostgresStore) UpsertFlash(ctx context.Context, flash domain.FlashNews) error {
	query, args, err := s.builder.
		Insert("flash_news").
		Columns("id", "source", "title", "content", "url", "pub_date", "created_at").
		Values(flash.ID, flash.Source, flash.Title, flash.Content, flash.URL, flash.PubDate, sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (id, source) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			url = EXCLUDED.url,
			pub_date = EXCLUDED.pub_date`).
		ToSql()
	if err != nil {
		return storeErr("upsert_flash", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("upsert_flash", err)
	}
	return nil
}

// Unresolved returns up to limit unprocessed rows, newest publish time first.
func (s *PostgresStore) Unresolved(ctx context.Context, limit int, source string) ([]domain.Article, error) {
	builder := s.builder.
		Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"processed": false}).
		OrderBy("pub_date DESC").
		Limit(uint64(limit))
	if source != "" {
		builder = builder.Where(sq.Eq{"source": source})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, storeErr("unresolved", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("unresolved", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, scanErr := scanArticle(rows)
		if scanErr != nil {
			return nil, storeErr("unresolved", scanErr)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("unresolved", err)
	}

	return articles, nil
}

// RecordLog appends one diagnostic row; the pipeline never reads these back.
func (s *PostgresStore) RecordLog(ctx context.Context, articleID string, severity domain.LogSeverity, message string) error {
	query, args, err := s.builder.
		Insert("logs").
		Columns("article_id", "type", "message", "timestamp").
		Values(articleID, string(severity), message, sq.Expr("NOW()")).
		ToSql()
	if err != nil {
		return storeErr("record_log", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("record_log", err)
	}
	return nil
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var (
		article     domain.Article
		tagsRaw     []byte
		analysisRaw []byte
	)

	err := rows.Scan(
		&article.ID, &article.Source, &article.Title, &article.Content,
		&article.URL, &article.PubDate, &article.Category, &article.Summary,
		&article.Author, &article.ImageURL, &tagsRaw, &article.CreatedAt,
		&article.Processed, &analysisRaw,
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &article.Tags); err != nil {
			return domain.Article{}, fmt.Errorf("decode tags: %w", err)
		}
	}
	if len(analysisRaw) > 0 {
		var result domain.AnalysisResult
		if err := json.Unmarshal(analysisRaw, &result); err != nil {
			return domain.Article{}, fmt.Errorf("decode analysis: %w", err)
		}
		article.Analysis = &result
	}

	return article, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
