// Package embedding provides sentence-embedding backends and the vector helpers
// used for semantic skill and job title matching.
package embedding

import (
	"context"
	"io"
)

// Embedder maps a batch of texts to fixed-length vectors. Output index i
// corresponds to input index i. Implementations must be deterministic for a
// fixed model and input and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Close releases resources held by e if it holds any.
func Close(e Embedder) error {
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// checkCount verifies that a backend returned one vector per input.
func checkCount(backend string, want, got int) error {
	if want != got {
		return &ResponseError{
			Backend: backend,
			Message: "vector count mismatch",
			Want:    want,
			Got:     got,
		}
	}
	return nil
}

// batches splits texts into consecutive chunks of at most size elements.
func batches(texts []string, size int) [][]string {
	if size <= 0 || len(texts) <= size {
		return [][]string{texts}
	}
	out := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		out = append(out, texts[start:end])
	}
	return out
}
