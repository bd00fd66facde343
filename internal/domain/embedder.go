package domain

import "context"

// EmbeddingDim is the fixed dimensionality of all vectors in the system.
const EmbeddingDim = 768

// Embedding carries a query or article vector. Degraded marks vectors that
// were derived locally because the embedding service was unreachable; they
// are stable for identical input text but carry no semantic meaning.
type Embedding struct {
	Vector   []float32
	Degraded bool
}

// Embedder turns text into a fixed-length vector. Implementations must not
// surface remote failures to callers: on failure they return a deterministic
// fallback vector flagged Degraded instead of an error.
type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
}
