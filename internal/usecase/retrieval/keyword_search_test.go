package retrieval_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"newschat/internal/domain"
	"newschat/internal/usecase/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockArticleStore is a test double for domain.ArticleStore.
type MockArticleStore struct {
	mock.Mock
}

func (m *MockArticleStore) Upsert(ctx context.Context, article domain.Article, vector []float32) error {
	args := m.Called(ctx, article, vector)
	return args.Error(0)
}

func (m *MockArticleStore) VectorSearch(ctx context.Context, vector []float32, limit int) []domain.SearchResult {
	args := m.Called(ctx, vector, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.SearchResult)
}

func (m *MockArticleStore) ScanAll(ctx context.Context, limit int) []domain.Article {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Article)
}

func (m *MockArticleStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestKeywordSearch_ScoresTitleOverContent(t *testing.T) {
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "1", Title: "Fed raises rates", URL: "https://a.example/fed", Content: "central bank news"},
		{ID: "2", Title: "Unrelated story", URL: "https://a.example/other", Content: "the fed was mentioned once"},
	})

	results := retrieval.KeywordSearch(context.Background(), "fed rates", 5, 500,
		store, domain.DefaultVocabulary(), discardLogger())

	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].Article.ID, "title hits outrank content hits")
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Equal(t, domain.OriginKeyword, results[0].Origin)
}

func TestKeywordSearch_ScoreNormalization(t *testing.T) {
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "1", Title: "budget", URL: "https://a.example/1"},
	})

	results := retrieval.KeywordSearch(context.Background(), "budget", 5, 500,
		store, domain.Vocabulary{}, discardLogger())

	require.Len(t, results, 1)
	// One title hit = 5 raw points, divided by the normalization constant.
	assert.InDelta(t, 0.5, results[0].Score, 1e-9)
}

func TestKeywordSearch_CategoryExpansion(t *testing.T) {
	vocab := domain.Vocabulary{
		Categories: map[string][]string{
			"tech": {"software", "startup"},
		},
	}
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "1", Title: "Software giants report earnings", URL: "https://a.example/sw", Summary: "startup scene"},
		{ID: "2", Title: "Weather report", URL: "https://a.example/weather"},
	})

	// "tech" appears nowhere literally; only the expansion terms do.
	results := retrieval.KeywordSearch(context.Background(), "tech", 5, 500,
		store, vocab, discardLogger())

	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Article.ID)
}

func TestKeywordSearch_AppliesDenylist(t *testing.T) {
	vocab := domain.Vocabulary{Denylist: []string{"horoscope"}}
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "1", Title: "Weekly horoscope update", URL: "https://a.example/h"},
		{ID: "2", Title: "Weekly markets update", URL: "https://a.example/m"},
	})

	results := retrieval.KeywordSearch(context.Background(), "weekly update", 5, 500,
		store, vocab, discardLogger())

	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Article.ID)
}

func TestKeywordSearch_TieBreaksByPublishedAtDescending(t *testing.T) {
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "old", Title: "election results", URL: "https://a.example/old", PublishedAt: older},
		{ID: "new", Title: "election results", URL: "https://a.example/new", PublishedAt: newer},
	})

	results := retrieval.KeywordSearch(context.Background(), "election", 5, 500,
		store, domain.Vocabulary{}, discardLogger())

	require.Len(t, results, 2)
	assert.Equal(t, "new", results[0].Article.ID)
	assert.Equal(t, "old", results[1].Article.ID)
}

func TestKeywordSearch_TruncatesToLimit(t *testing.T) {
	articles := make([]domain.Article, 10)
	for i := range articles {
		articles[i] = domain.Article{
			ID:    string(rune('a' + i)),
			Title: "trade news",
			URL:   "https://a.example/" + string(rune('a'+i)),
		}
	}
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return(articles)

	results := retrieval.KeywordSearch(context.Background(), "trade", 3, 500,
		store, domain.Vocabulary{}, discardLogger())

	assert.Len(t, results, 3)
}

func TestKeywordSearch_EmptyStoreReturnsNothing(t *testing.T) {
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return(nil)

	results := retrieval.KeywordSearch(context.Background(), "anything", 5, 500,
		store, domain.DefaultVocabulary(), discardLogger())

	assert.Empty(t, results)
}

func TestKeywordSearch_EmptyQueryReturnsNothing(t *testing.T) {
	store := new(MockArticleStore)

	results := retrieval.KeywordSearch(context.Background(), "   ", 5, 500,
		store, domain.DefaultVocabulary(), discardLogger())

	assert.Empty(t, results)
	store.AssertNotCalled(t, "ScanAll")
}
