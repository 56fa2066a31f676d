package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultNgramDimension is the vector size of the character-trigram embedder
const DefaultNgramDimension = 512

// NgramEmbedder hashes lowercased character trigrams into a fixed-size vector.
// It needs no network or model files and is meant for offline use and tests.
// Similarity reflects spelling overlap only.
type NgramEmbedder struct {
	dim int
}

// NewNgramEmbedder creates a trigram embedder with dim buckets.
func NewNgramEmbedder(dim int) *NgramEmbedder {
	if dim <= 0 {
		dim = DefaultNgramDimension
	}
	return &NgramEmbedder{dim: dim}
}

// Embed implements Embedder.
func (n *NgramEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = n.vector(t)
	}
	return out, nil
}

func (n *NgramEmbedder) vector(text string) []float32 {
	vec := make([]float32, n.dim)
	text = strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if text == "" {
		return vec
	}

	runes := []rune(" " + text + " ")
	h := fnv.New32a()
	for i := 0; i+3 <= len(runes); i++ {
		h.Reset()
		_, _ = h.Write([]byte(string(runes[i : i+3])))
		vec[h.Sum32()%uint32(n.dim)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
