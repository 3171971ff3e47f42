package llm

import (
	"math"
	"strings"
)

// EmbeddingDim is the fixed dimensionality of every stored vector.
// The schema never sees a vector of any other size.
const EmbeddingDim = 1536

// HashEmbedding derives a deterministic pseudo-embedding from text:
// each word hashes into one of EmbeddingDim buckets with a weight that
// decays by word position, and the result is L2-normalized. It carries
// no semantic meaning; it exists so the storage layer never receives a
// missing embedding when the real embedding service is unavailable.
func HashEmbedding(text string) []float32 {
	vec := make([]float32, EmbeddingDim)
	words := strings.Fields(strings.ToLower(text))

	for i, word := range words {
		var h int32
		for _, r := range word {
			h = h*31 + int32(r)
		}
		idx := int(int64(h)) // widen before abs so MinInt32 is safe
		if idx < 0 {
			idx = -idx
		}
		idx %= EmbeddingDim
		vec[idx] = (vec[idx] + 1) / float32(i+1)
	}

	l2normalize(vec)
	return vec
}

// l2normalize scales a vector to unit length in place.
// A zero vector is left untouched.
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
