package retrieval

import "newschat/internal/domain"

// StageContext carries per-retrieval state across the pipeline stages.
// Stages mutate it in order: rewrite -> embed -> vector search -> filter.
type StageContext struct {
	RetrievalID string

	// Query is the raw user query; EffectiveQuery is what actually gets
	// embedded and scored, after follow-up rewriting.
	Query          string
	EffectiveQuery string
	FollowUp       bool

	Embedding domain.Embedding

	// RawResults holds vector search output before filtering; Results
	// holds the final deduplicated, denylist-clean, ranked set.
	RawResults []domain.SearchResult
	Results    []domain.SearchResult

	Limit     int
	ScanLimit int
}
