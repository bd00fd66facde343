package retrieval_test

import (
	"context"
	"testing"

	"newschat/internal/domain"
	"newschat/internal/usecase/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func vectorResult(id, title, url string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Article: domain.Article{ID: id, Title: title, URL: url},
		Score:   score,
		Origin:  domain.OriginVector,
	}
}

func TestFilterResults_DeduplicatesByURL(t *testing.T) {
	store := new(MockArticleStore)
	sc := &retrieval.StageContext{
		RetrievalID:    "test-filter-1",
		EffectiveQuery: "fed rates",
		Limit:          5,
		ScanLimit:      500,
		RawResults: []domain.SearchResult{
			vectorResult("1", "Fed raises rates", "https://a.example/fed", 0.95),
			vectorResult("2", "Fed raises rates again", "https://a.example/fed", 0.90),
			vectorResult("3", "Other story", "https://a.example/other", 0.85),
		},
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	require.Len(t, sc.Results, 2)
	assert.Equal(t, "1", sc.Results[0].Article.ID, "first (highest scored) occurrence wins")
	assert.Equal(t, "3", sc.Results[1].Article.ID)
	store.AssertNotCalled(t, "ScanAll")
}

func TestFilterResults_DeduplicatesByNormalizedTitleWhenURLMissing(t *testing.T) {
	store := new(MockArticleStore)
	sc := &retrieval.StageContext{
		EffectiveQuery: "q",
		Limit:          5,
		ScanLimit:      500,
		RawResults: []domain.SearchResult{
			vectorResult("1", "Fed  Raises Rates", "", 0.95),
			vectorResult("2", "fed raises rates", "", 0.90),
			vectorResult("3", "Something else", "", 0.85),
		},
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	require.Len(t, sc.Results, 2)
	assert.Equal(t, "1", sc.Results[0].Article.ID)
}

func TestFilterResults_DropsDenylistedArticles(t *testing.T) {
	vocab := domain.Vocabulary{Denylist: []string{"sponsored content"}}
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return(nil)

	sc := &retrieval.StageContext{
		EffectiveQuery: "q",
		Limit:          5,
		ScanLimit:      500,
		RawResults: []domain.SearchResult{
			vectorResult("1", "Great deal", "https://a.example/1", 0.99),
			vectorResult("2", "Real news", "https://a.example/2", 0.80),
			vectorResult("3", "More news", "https://a.example/3", 0.70),
		},
	}
	sc.RawResults[0].Article.Content = "This is Sponsored Content from a partner."

	retrieval.FilterResults(context.Background(), sc, store, vocab, discardLogger())

	require.Len(t, sc.Results, 2)
	for _, res := range sc.Results {
		assert.NotEqual(t, "1", res.Article.ID, "denylisted article must never appear, score notwithstanding")
	}
}

func TestFilterResults_SparseEscalationPrefersLargerKeywordSet(t *testing.T) {
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "k1", Title: "election special", URL: "https://a.example/k1"},
		{ID: "k2", Title: "election roundup", URL: "https://a.example/k2"},
		{ID: "k3", Title: "election analysis", URL: "https://a.example/k3"},
	})

	sc := &retrieval.StageContext{
		EffectiveQuery: "election",
		Limit:          5,
		ScanLimit:      500,
		RawResults: []domain.SearchResult{
			vectorResult("v1", "lone vector hit", "https://a.example/v1", 0.50),
		},
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	require.Len(t, sc.Results, 3)
	for _, res := range sc.Results {
		assert.Equal(t, domain.OriginKeyword, res.Origin)
	}
}

func TestFilterResults_KeepsVectorSetWhenKeywordSetNotLarger(t *testing.T) {
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "k1", Title: "election special", URL: "https://a.example/k1"},
	})

	sc := &retrieval.StageContext{
		EffectiveQuery: "election",
		Limit:          5,
		ScanLimit:      500,
		RawResults: []domain.SearchResult{
			vectorResult("v1", "vector hit", "https://a.example/v1", 0.50),
		},
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	require.Len(t, sc.Results, 1)
	assert.Equal(t, "v1", sc.Results[0].Article.ID)
}

func TestFilterResults_NoEscalationWhenEnoughSurvivors(t *testing.T) {
	store := new(MockArticleStore)
	sc := &retrieval.StageContext{
		EffectiveQuery: "q",
		Limit:          5,
		ScanLimit:      500,
		RawResults: []domain.SearchResult{
			vectorResult("1", "a", "https://a.example/1", 0.9),
			vectorResult("2", "b", "https://a.example/2", 0.8),
		},
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	assert.Len(t, sc.Results, 2)
	store.AssertNotCalled(t, "ScanAll")
}

func TestFilterResults_CapsAtLimit(t *testing.T) {
	store := new(MockArticleStore)
	var raw []domain.SearchResult
	for i := 0; i < 8; i++ {
		raw = append(raw, vectorResult(
			string(rune('a'+i)), "title", "https://a.example/"+string(rune('a'+i)), 0.9-float64(i)*0.05))
	}
	sc := &retrieval.StageContext{
		EffectiveQuery: "q",
		Limit:          3,
		ScanLimit:      500,
		RawResults:     raw,
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	assert.Len(t, sc.Results, 3)
}

func TestFilterResults_EmptyRawTriggersKeywordFallback(t *testing.T) {
	store := new(MockArticleStore)
	store.On("ScanAll", mock.Anything, 500).Return([]domain.Article{
		{ID: "k1", Title: "budget passed", URL: "https://a.example/k1"},
	})

	sc := &retrieval.StageContext{
		EffectiveQuery: "budget",
		Limit:          5,
		ScanLimit:      500,
	}

	retrieval.FilterResults(context.Background(), sc, store, domain.Vocabulary{}, discardLogger())

	require.Len(t, sc.Results, 1)
	assert.Equal(t, "k1", sc.Results[0].Article.ID)
}
