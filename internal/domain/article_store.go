package domain

import (
	"context"
	"errors"
)

// ErrStoreUnavailable is returned by Upsert and Clear when the backing
// service cannot be reached. Callers decide whether to skip or retry;
// ingestion must not abort a whole batch on one failure.
var ErrStoreUnavailable = errors.New("article store unavailable")

// ArticleStore is the vector index holding one entry per ingested article.
//
// VectorSearch and ScanAll deliberately return empty slices instead of
// errors when the store is unreachable or uninitialized, so callers can
// fall back to keyword search or an empty-context answer.
type ArticleStore interface {
	// Upsert stores the article and its vector, idempotent by Article.ID
	// (last write wins).
	Upsert(ctx context.Context, article Article, vector []float32) error

	// VectorSearch returns up to limit results ordered by descending
	// cosine similarity score.
	VectorSearch(ctx context.Context, vector []float32, limit int) []SearchResult

	// ScanAll returns up to limit stored articles without ranking. Used
	// only by the keyword-search fallback.
	ScanAll(ctx context.Context, limit int) []Article

	// Clear drops all stored articles. Administrative rebuild only, never
	// on the query path.
	Clear(ctx context.Context) error
}
