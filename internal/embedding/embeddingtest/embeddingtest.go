// Package embeddingtest provides Embedder fakes for tests.
package embeddingtest

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Static returns fixed vectors looked up by lowercased text. Unknown texts get
// Default, or a zero vector of the same width as the first entry.
type Static struct {
	Vectors map[string][]float32
	Default []float32
}

// Embed implements embedding.Embedder.
func (s *Static) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.Vectors[strings.ToLower(strings.TrimSpace(t))]; ok {
			out[i] = v
			continue
		}
		out[i] = s.fallback()
	}
	return out, nil
}

func (s *Static) fallback() []float32 {
	if s.Default != nil {
		return s.Default
	}
	for _, v := range s.Vectors {
		return make([]float32, len(v))
	}
	return nil
}

// ErrUnavailable is the error returned by Failing when Err is nil.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Failing always returns an error.
type Failing struct {
	Err error
}

// Embed implements embedding.Embedder.
func (f *Failing) Embed(context.Context, []string) ([][]float32, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return nil, ErrUnavailable
}

// Short returns one vector fewer than requested.
type Short struct{}

// Embed implements embedding.Embedder.
func (Short) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, len(texts)-1)
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

// Counting records calls to the wrapped embedder.
type Counting struct {
	Inner interface {
		Embed(ctx context.Context, texts []string) ([][]float32, error)
	}

	mu    sync.Mutex
	calls int
	texts [][]string
}

// Embed implements embedding.Embedder.
func (c *Counting) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	c.calls++
	c.texts = append(c.texts, append([]string(nil), texts...))
	c.mu.Unlock()
	return c.Inner.Embed(ctx, texts)
}

// Calls returns the number of Embed calls.
func (c *Counting) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Texts returns the batches passed to Embed, in call order.
func (c *Counting) Texts() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.texts
}
