package domain

import "time"

// Article is an immutable news record. Once stored it is never mutated;
// the whole collection is dropped and rebuilt for administrative resets.
type Article struct {
	ID          string
	Title       string
	Content     string
	URL         string
	PublishedAt time.Time
	Source      string
	Summary     string
}

// ResultOrigin identifies which search path produced a result.
type ResultOrigin string

const (
	OriginVector  ResultOrigin = "vector"
	OriginKeyword ResultOrigin = "keyword"
)

// SearchResult is a transient per-query ranking entry. Score is in 0..1,
// higher meaning more similar; lists are ordered by descending score.
type SearchResult struct {
	Article Article
	Score   float64
	Origin  ResultOrigin
}
