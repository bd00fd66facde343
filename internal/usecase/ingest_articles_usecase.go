package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newschat/internal/domain"
	"newschat/internal/infra/logger"

	"golang.org/x/sync/errgroup"
)

// ingestConcurrency bounds parallel embed+upsert calls so a large feed
// batch does not overwhelm the embedding service.
const ingestConcurrency = 4

// IngestArticlesUsecase feeds collected articles into the vector index.
type IngestArticlesUsecase interface {
	// IngestBatch embeds and upserts each article, skipping individual
	// failures. Returns the number of articles stored.
	IngestBatch(ctx context.Context, articles []domain.Article) (int, error)

	// Refresh collects from all configured sources and ingests the batch.
	Refresh(ctx context.Context) (int, error)

	// Rebuild clears the index and re-ingests everything. Administrative.
	Rebuild(ctx context.Context) (int, error)
}

type ingestArticlesUsecase struct {
	collector domain.ArticleCollector
	store     domain.ArticleStore
	embedder  domain.Embedder
	ctxLog    *logger.ContextLogger
}

// NewIngestArticlesUsecase creates a new IngestArticlesUsecase.
func NewIngestArticlesUsecase(
	collector domain.ArticleCollector,
	store domain.ArticleStore,
	embedder domain.Embedder,
	ctxLog *logger.ContextLogger,
) IngestArticlesUsecase {
	return &ingestArticlesUsecase{
		collector: collector,
		store:     store,
		embedder:  embedder,
		ctxLog:    ctxLog,
	}
}

func (u *ingestArticlesUsecase) IngestBatch(ctx context.Context, articles []domain.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	start := time.Now()
	stored := make(chan string, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)
	for _, article := range articles {
		g.Go(func() error {
			u.ingestOne(gctx, article, stored)
			return nil
		})
	}
	// Workers never return errors: per-article failures are logged and
	// skipped so one bad article cannot abort the batch.
	_ = g.Wait()
	close(stored)

	count := 0
	for range stored {
		count++
	}

	u.ctxLog.WithContext(ctx).Info("ingest_batch_completed",
		slog.Int("collected", len(articles)),
		slog.Int("stored", count),
		slog.Int("skipped", len(articles)-count),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return count, ctx.Err()
}

func (u *ingestArticlesUsecase) ingestOne(ctx context.Context, article domain.Article, stored chan<- string) {
	ctx = logger.WithArticleID(ctx, article.ID)
	log := u.ctxLog.WithContext(ctx)

	embedding, err := u.embedder.Embed(ctx, article.Title+"\n"+article.Content)
	if err != nil {
		log.Warn("article_embed_failed", slog.String("error", err.Error()))
		return
	}
	if embedding.Degraded {
		log.Warn("article_embedded_degraded", slog.String("url", article.URL))
	}

	if err := u.store.Upsert(ctx, article, embedding.Vector); err != nil {
		log.Warn("article_upsert_failed",
			slog.String("url", article.URL),
			slog.String("error", err.Error()))
		return
	}
	stored <- article.ID
}

func (u *ingestArticlesUsecase) Refresh(ctx context.Context) (int, error) {
	ctx = logger.WithProcessingStage(ctx, "refresh")

	articles, err := u.collector.Collect(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to collect articles: %w", err)
	}
	return u.IngestBatch(ctx, articles)
}

func (u *ingestArticlesUsecase) Rebuild(ctx context.Context) (int, error) {
	ctx = logger.WithProcessingStage(ctx, "rebuild")

	if err := u.store.Clear(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear article store: %w", err)
	}
	return u.Refresh(ctx)
}
