package embedding

import (
	"hash/fnv"
	"math"
	"math/rand"

	"newschat/internal/domain"
)

// FallbackVector deterministically derives a unit vector from the input
// text: an FNV-64a hash of the text seeds a PRNG that fills the vector.
// Identical text always yields the identical vector, so repeated queries
// behave consistently while the embedding service is down. The vector
// carries no semantic meaning; its similarity to real embeddings is not
// meaningful for ranking quality.
func FallbackVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vector := make([]float32, domain.EmbeddingDim)
	var norm float64
	for i := range vector {
		v := rng.Float64()*2 - 1
		vector[i] = float32(v)
		norm += v * v
	}

	// Normalize to unit length so cosine scores stay in range.
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
	return vector
}
