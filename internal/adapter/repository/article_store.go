package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newschat/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgvector "github.com/pgvector/pgvector-go"
)

// Executor is the subset of pgxpool.Pool the repositories use. Tests
// substitute a mock connection.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type articleStore struct {
	db     Executor
	logger *slog.Logger
}

// NewArticleStore creates an ArticleStore backed by Postgres with pgvector.
func NewArticleStore(db Executor, logger *slog.Logger) domain.ArticleStore {
	return &articleStore{db: db, logger: logger}
}

func (s *articleStore) Upsert(ctx context.Context, article domain.Article, vector []float32) error {
	query := `
		INSERT INTO articles (id, title, content, url, published_at, source, summary, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			url = EXCLUDED.url,
			published_at = EXCLUDED.published_at,
			source = EXCLUDED.source,
			summary = EXCLUDED.summary,
			embedding = EXCLUDED.embedding,
			updated_at = now()
	`
	_, err := s.db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.URL,
		article.PublishedAt,
		article.Source,
		article.Summary,
		pgvector.NewVector(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert article %s: %w: %w", article.ID, domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *articleStore) VectorSearch(ctx context.Context, vector []float32, limit int) []domain.SearchResult {
	start := time.Now()
	query := `
		SELECT id, title, content, url, published_at, source, summary,
		       1 - (embedding <=> $1) AS score
		FROM articles
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, pgvector.NewVector(vector), limit)
	if err != nil {
		s.logger.Warn("vector_search_unavailable", slog.String("error", err.Error()))
		return nil
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(
			&r.Article.ID,
			&r.Article.Title,
			&r.Article.Content,
			&r.Article.URL,
			&r.Article.PublishedAt,
			&r.Article.Source,
			&r.Article.Summary,
			&r.Score,
		); err != nil {
			s.logger.Warn("vector_search_scan_failed", slog.String("error", err.Error()))
			return nil
		}
		r.Origin = domain.OriginVector
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("vector_search_rows_error", slog.String("error", err.Error()))
		return nil
	}

	s.logger.Info("vector_search_completed",
		slog.Int("results", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return results
}

func (s *articleStore) ScanAll(ctx context.Context, limit int) []domain.Article {
	query := `
		SELECT id, title, content, url, published_at, source, summary
		FROM articles
		ORDER BY published_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		s.logger.Warn("article_scan_unavailable", slog.String("error", err.Error()))
		return nil
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.URL, &a.PublishedAt, &a.Source, &a.Summary); err != nil {
			s.logger.Warn("article_scan_failed", slog.String("error", err.Error()))
			return nil
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("article_scan_rows_error", slog.String("error", err.Error()))
		return nil
	}
	return articles
}

func (s *articleStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE TABLE articles`); err != nil {
		return fmt.Errorf("failed to clear articles: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
