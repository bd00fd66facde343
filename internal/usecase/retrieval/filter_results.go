package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"newschat/internal/domain"
)

// minHealthyResults is the threshold below which the vector-derived set is
// considered sparse and keyword fallback is attempted.
const minHealthyResults = 2

// FilterResults turns raw vector search output into the final answer set
// (Stage 4): deduplicate, drop denylisted articles, and escalate to keyword
// search when too few results survive.
func FilterResults(
	ctx context.Context,
	sc *StageContext,
	store domain.ArticleStore,
	vocab domain.Vocabulary,
	logger *slog.Logger,
) {
	deduped := dedupeResults(sc.RawResults)

	filtered := make([]domain.SearchResult, 0, len(deduped))
	for _, res := range deduped {
		if matchesDenylist(res.Article, vocab.Denylist) {
			continue
		}
		filtered = append(filtered, res)
	}

	if len(filtered) < minHealthyResults {
		keyword := KeywordSearch(ctx, sc.EffectiveQuery, sc.Limit, sc.ScanLimit, store, vocab, logger)
		if len(keyword) > len(filtered) {
			logger.Info("sparse_results_escalated",
				slog.String("retrieval_id", sc.RetrievalID),
				slog.Int("vector_count", len(filtered)),
				slog.Int("keyword_count", len(keyword)))
			filtered = keyword
		}
	}

	if len(filtered) > sc.Limit {
		filtered = filtered[:sc.Limit]
	}
	sc.Results = filtered
}

// dedupeResults keeps the first occurrence per article: input arrives sorted
// by descending score, so the first hit is the best one. Articles without a
// URL fall back to their normalized title as the dedupe key.
func dedupeResults(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	unique := make([]domain.SearchResult, 0, len(results))
	for _, res := range results {
		key := dedupeKey(res.Article)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, res)
	}
	return unique
}

func dedupeKey(article domain.Article) string {
	if url := strings.TrimSpace(article.URL); url != "" {
		return strings.ToLower(url)
	}
	return strings.Join(strings.Fields(strings.ToLower(article.Title)), " ")
}

// matchesDenylist reports whether any denylist term appears in the article's
// title, summary or content (case-insensitive substring match).
func matchesDenylist(article domain.Article, denylist []string) bool {
	if len(denylist) == 0 {
		return false
	}
	title := strings.ToLower(article.Title)
	summary := strings.ToLower(article.Summary)
	content := strings.ToLower(article.Content)
	for _, term := range denylist {
		if term == "" {
			continue
		}
		if strings.Contains(title, term) || strings.Contains(summary, term) || strings.Contains(content, term) {
			return true
		}
	}
	return false
}
