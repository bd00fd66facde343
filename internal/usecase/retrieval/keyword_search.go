package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"newschat/internal/domain"
)

// Keyword scoring weights. Title hits dominate, content hits only nudge.
const (
	titleWeight   = 5
	summaryWeight = 3
	contentWeight = 1

	categoryTitleWeight   = 2
	categorySummaryWeight = 1

	// scoreNorm maps raw keyword scores into the same 0..1-ish range as
	// cosine similarity so both origins can share one ranked list.
	scoreNorm = 10.0
)

// KeywordSearch scans the full store and scores articles by literal token
// match. It is the fallback for queries whose embedding match is weak
// (proper nouns, very recent events) but whose keyword match is strong.
//
// Ties break by PublishedAt descending, then URL ascending, so output is
// deterministic regardless of scan order.
func KeywordSearch(
	ctx context.Context,
	query string,
	limit int,
	scanLimit int,
	store domain.ArticleStore,
	vocab domain.Vocabulary,
	logger *slog.Logger,
) []domain.SearchResult {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 || limit <= 0 {
		return nil
	}

	start := time.Now()
	articles := store.ScanAll(ctx, scanLimit)

	results := make([]domain.SearchResult, 0, limit)
	for _, article := range articles {
		if matchesDenylist(article, vocab.Denylist) {
			continue
		}
		score := scoreArticle(article, tokens, vocab.Categories)
		if score <= 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Article: article,
			Score:   float64(score) / scoreNorm,
			Origin:  domain.OriginKeyword,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Article.PublishedAt.Equal(results[j].Article.PublishedAt) {
			return results[i].Article.PublishedAt.After(results[j].Article.PublishedAt)
		}
		return results[i].Article.URL < results[j].Article.URL
	})

	if len(results) > limit {
		results = results[:limit]
	}

	logger.Info("keyword_search_completed",
		slog.Int("scanned", len(articles)),
		slog.Int("matched", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return results
}

func scoreArticle(article domain.Article, tokens []string, categories map[string][]string) int {
	title := strings.ToLower(article.Title)
	summary := strings.ToLower(article.Summary)
	content := strings.ToLower(article.Content)

	score := 0
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += titleWeight
		}
		if strings.Contains(summary, token) {
			score += summaryWeight
		}
		if strings.Contains(content, token) {
			score += contentWeight
		}

		// Topical queries often use a category name ("tech news") rather
		// than the words used in articles; expand those through the
		// category tables.
		for key, terms := range categories {
			if !strings.Contains(key, token) {
				continue
			}
			for _, term := range terms {
				if strings.Contains(title, term) {
					score += categoryTitleWeight
				}
				if strings.Contains(summary, term) {
					score += categorySummaryWeight
				}
			}
		}
	}
	return score
}
