package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newschat/internal/domain"
	"newschat/internal/usecase/retrieval"

	"github.com/google/uuid"
)

const (
	// DefaultRetrieveLimit is the number of articles handed to generation
	// when the caller does not specify one.
	DefaultRetrieveLimit = 5

	// defaultScanLimit bounds the keyword-fallback full scan.
	defaultScanLimit = 500
)

// RetrieveArticlesInput defines the input parameters for RetrieveArticles.
type RetrieveArticlesInput struct {
	Query   string
	History []domain.ConversationTurn
	Limit   int
}

// RetrieveArticlesOutput defines the output for RetrieveArticles.
type RetrieveArticlesOutput struct {
	Results        []domain.SearchResult
	EffectiveQuery string
	FollowUp       bool

	// Degraded is set when the query embedding came from the local
	// fallback; ranking quality is reduced but results are still usable.
	Degraded bool
}

// RetrieveArticlesUsecase is the root of the retrieval core: given a query
// and conversation history, return the top-K relevant articles.
type RetrieveArticlesUsecase interface {
	Execute(ctx context.Context, input RetrieveArticlesInput) (*RetrieveArticlesOutput, error)
}

type retrieveArticlesUsecase struct {
	store     domain.ArticleStore
	embedder  domain.Embedder
	vocab     domain.Vocabulary
	scanLimit int
	logger    *slog.Logger
}

// RetrieveOption configures optional retrieval parameters.
type RetrieveOption func(*retrieveArticlesUsecase)

// WithScanLimit overrides the keyword-fallback scan bound.
func WithScanLimit(limit int) RetrieveOption {
	return func(u *retrieveArticlesUsecase) {
		if limit > 0 {
			u.scanLimit = limit
		}
	}
}

// NewRetrieveArticlesUsecase creates a new RetrieveArticlesUsecase.
func NewRetrieveArticlesUsecase(
	store domain.ArticleStore,
	embedder domain.Embedder,
	vocab domain.Vocabulary,
	logger *slog.Logger,
	opts ...RetrieveOption,
) RetrieveArticlesUsecase {
	u := &retrieveArticlesUsecase{
		store:     store,
		embedder:  embedder,
		vocab:     vocab,
		scanLimit: defaultScanLimit,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Execute runs the pipeline: rewrite -> embed -> vector search -> filter.
// It never fails for "no results"; the worst case is an empty result set,
// which callers answer without supporting context.
func (u *retrieveArticlesUsecase) Execute(ctx context.Context, input RetrieveArticlesInput) (*RetrieveArticlesOutput, error) {
	if input.Query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultRetrieveLimit
	}

	sc := &retrieval.StageContext{
		RetrievalID: uuid.New().String(),
		Query:       input.Query,
		Limit:       limit,
		ScanLimit:   u.scanLimit,
	}
	start := time.Now()

	retrieval.RewriteQuery(sc, input.History, u.vocab)
	if sc.FollowUp {
		u.logger.Info("follow_up_rewritten",
			slog.String("retrieval_id", sc.RetrievalID),
			slog.String("effective_query", sc.EffectiveQuery))
	}

	embedding, err := u.embedder.Embed(ctx, sc.EffectiveQuery)
	if err != nil {
		// Embedders absorb remote failures via the deterministic
		// fallback; an error here means the input itself was unusable.
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	sc.Embedding = embedding

	sc.RawResults = u.store.VectorSearch(ctx, embedding.Vector, limit)

	retrieval.FilterResults(ctx, sc, u.store, u.vocab, u.logger)

	u.logger.Info("retrieval_completed",
		slog.String("retrieval_id", sc.RetrievalID),
		slog.Int("raw_count", len(sc.RawResults)),
		slog.Int("result_count", len(sc.Results)),
		slog.Bool("degraded", embedding.Degraded),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &RetrieveArticlesOutput{
		Results:        sc.Results,
		EffectiveQuery: sc.EffectiveQuery,
		FollowUp:       sc.FollowUp,
		Degraded:       embedding.Degraded,
	}, nil
}
