package embedding

import "math"

// Cosine returns the cosine similarity of a and b. Zero vectors and vectors of
// different length have similarity 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Similarities returns the cosine similarity of query against each candidate.
func Similarities(query []float32, candidates [][]float32) []float64 {
	out := make([]float64, len(candidates))
	for i, c := range candidates {
		out[i] = Cosine(query, c)
	}
	return out
}

// ArgMax returns the index of the largest score strictly above threshold, or
// -1. The earliest index wins ties.
func ArgMax(scores []float64, threshold float64) int {
	best := -1
	for i, s := range scores {
		if s <= threshold {
			continue
		}
		if best == -1 || s > scores[best] {
			best = i
		}
	}
	return best
}
