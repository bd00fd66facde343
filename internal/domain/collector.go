package domain

import "context"

// ArticleCollector produces fresh articles from the configured news
// sources. Implementations own fetch scheduling details (rate limits,
// parsing); the ingestion usecase only consumes the resulting batch.
type ArticleCollector interface {
	Collect(ctx context.Context) ([]Article, error)
}
