package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"newschat/internal/domain"
	"newschat/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

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

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.Embedding), args.Error(1)
}

func vectorResult(url, title string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Article: domain.Article{
			ID:          url,
			Title:       title,
			URL:         url,
			Content:     "body of " + title,
			PublishedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		},
		Score:  score,
		Origin: domain.OriginVector,
	}
}

func TestRetrieve_EmptyQueryIsAnError(t *testing.T) {
	uc := usecase.NewRetrieveArticlesUsecase(
		&MockArticleStore{}, &MockEmbedder{}, domain.DefaultVocabulary(), discardLogger())

	_, err := uc.Execute(context.Background(), usecase.RetrieveArticlesInput{Query: ""})

	assert.Error(t, err)
}

func TestRetrieve_HappyPath(t *testing.T) {
	store := &MockArticleStore{}
	embedder := &MockEmbedder{}
	vec := []float32{0.1, 0.2}

	embedder.On("Embed", mock.Anything, "latest tech news").
		Return(domain.Embedding{Vector: vec}, nil)
	store.On("VectorSearch", mock.Anything, vec, 5).
		Return([]domain.SearchResult{
			vectorResult("https://a.example.com", "AI Breakthrough", 0.92),
			vectorResult("https://b.example.com", "Chip Shortage Eases", 0.85),
		})

	uc := usecase.NewRetrieveArticlesUsecase(store, embedder, domain.DefaultVocabulary(), discardLogger())
	out, err := uc.Execute(context.Background(), usecase.RetrieveArticlesInput{Query: "latest tech news"})

	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, "latest tech news", out.EffectiveQuery)
	assert.False(t, out.FollowUp)
	assert.False(t, out.Degraded)
	store.AssertExpectations(t)
	embedder.AssertExpectations(t)
}

func TestRetrieve_FollowUpQueryIsRewrittenBeforeEmbedding(t *testing.T) {
	store := &MockArticleStore{}
	embedder := &MockEmbedder{}

	history := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: "Tell me about the chip shortage"},
		{Role: domain.RoleAssistant, Content: "The shortage affects carmakers."},
		{Role: domain.RoleUser, Content: "previous question placeholder"},
	}
	// Two prior user turns plus a reference word make this a follow-up;
	// the embedder must see the rewritten query.
	rewritten := "Tell me about the chip shortage why did it happen?"
	embedder.On("Embed", mock.Anything, rewritten).
		Return(domain.Embedding{Vector: []float32{0.3}}, nil)
	store.On("VectorSearch", mock.Anything, []float32{0.3}, 5).
		Return([]domain.SearchResult{
			vectorResult("https://a.example.com", "Chip Shortage Explained", 0.9),
			vectorResult("https://b.example.com", "Fab Capacity", 0.8),
		})

	uc := usecase.NewRetrieveArticlesUsecase(store, embedder, domain.DefaultVocabulary(), discardLogger())
	out, err := uc.Execute(context.Background(), usecase.RetrieveArticlesInput{
		Query:   "why did it happen?",
		History: history,
	})

	require.NoError(t, err)
	assert.True(t, out.FollowUp)
	assert.Equal(t, rewritten, out.EffectiveQuery)
	embedder.AssertExpectations(t)
}

func TestRetrieve_DegradedEmbeddingIsSurfaced(t *testing.T) {
	store := &MockArticleStore{}
	embedder := &MockEmbedder{}

	embedder.On("Embed", mock.Anything, "markets").
		Return(domain.Embedding{Vector: []float32{0.1}, Degraded: true}, nil)
	store.On("VectorSearch", mock.Anything, []float32{0.1}, 5).
		Return([]domain.SearchResult{
			vectorResult("https://a.example.com", "Markets Rally", 0.7),
			vectorResult("https://b.example.com", "Stocks Close Higher", 0.6),
		})

	uc := usecase.NewRetrieveArticlesUsecase(store, embedder, domain.DefaultVocabulary(), discardLogger())
	out, err := uc.Execute(context.Background(), usecase.RetrieveArticlesInput{Query: "markets"})

	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Len(t, out.Results, 2)
}

func TestRetrieve_SparseVectorResultsEscalateToKeywordScan(t *testing.T) {
	store := &MockArticleStore{}
	embedder := &MockEmbedder{}

	embedder.On("Embed", mock.Anything, "cricket").
		Return(domain.Embedding{Vector: []float32{0.5}}, nil)
	// A single vector hit is below the health threshold.
	store.On("VectorSearch", mock.Anything, []float32{0.5}, 5).
		Return([]domain.SearchResult{
			vectorResult("https://a.example.com", "Cricket Final Tonight", 0.9),
		})
	store.On("ScanAll", mock.Anything, 500).
		Return([]domain.Article{
			{ID: "1", Title: "Cricket Final Tonight", URL: "https://a.example.com"},
			{ID: "2", Title: "Cricket League Expands", URL: "https://b.example.com"},
			{ID: "3", Title: "Cricket Star Retires", URL: "https://c.example.com"},
		})

	uc := usecase.NewRetrieveArticlesUsecase(store, embedder, domain.DefaultVocabulary(), discardLogger())
	out, err := uc.Execute(context.Background(), usecase.RetrieveArticlesInput{Query: "cricket"})

	require.NoError(t, err)
	assert.Len(t, out.Results, 3, "keyword scan outnumbers the sparse vector results")
	assert.Equal(t, domain.OriginKeyword, out.Results[0].Origin)
	store.AssertExpectations(t)
}

func TestRetrieve_CustomLimitIsRespected(t *testing.T) {
	store := &MockArticleStore{}
	embedder := &MockEmbedder{}

	embedder.On("Embed", mock.Anything, "economy").
		Return(domain.Embedding{Vector: []float32{0.2}}, nil)
	store.On("VectorSearch", mock.Anything, []float32{0.2}, 2).
		Return([]domain.SearchResult{
			vectorResult("https://a.example.com", "GDP Grows", 0.9),
			vectorResult("https://b.example.com", "Inflation Cools", 0.8),
		})

	uc := usecase.NewRetrieveArticlesUsecase(store, embedder, domain.DefaultVocabulary(), discardLogger())
	out, err := uc.Execute(context.Background(), usecase.RetrieveArticlesInput{Query: "economy", Limit: 2})

	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	store.AssertExpectations(t)
}
