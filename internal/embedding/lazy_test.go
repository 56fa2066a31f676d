package embedding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_LoadsOnce(t *testing.T) {
	var loads atomic.Int32
	l := NewLazy("test model", func(context.Context) (Embedder, error) {
		loads.Add(1)
		return NewNgramEmbedder(32), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := l.Embed(context.Background(), []string{"python"})
			assert.NoError(t, err)
			assert.Len(t, out, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}

func TestLazy_NoLoadForEmptyInput(t *testing.T) {
	var loads atomic.Int32
	l := NewLazy("test model", func(context.Context) (Embedder, error) {
		loads.Add(1)
		return NewNgramEmbedder(32), nil
	})

	out, err := l.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Zero(t, loads.Load())
}

func TestLazy_FailureIsSticky(t *testing.T) {
	cause := errors.New("weights not found")
	var loads atomic.Int32
	l := NewLazy("test model", func(context.Context) (Embedder, error) {
		loads.Add(1)
		return nil, cause
	})

	_, err1 := l.Embed(context.Background(), []string{"a"})
	_, err2 := l.Embed(context.Background(), []string{"b"})

	var loadErr *LoadError
	require.ErrorAs(t, err1, &loadErr)
	assert.ErrorIs(t, err1, cause)
	assert.Same(t, err1, err2)
	assert.Contains(t, err1.Error(), "failed to load test model")
	assert.Equal(t, int32(1), loads.Load())
}

func TestLazy_LoadSurvivesCancelledTrigger(t *testing.T) {
	l := NewLazy("test model", func(ctx context.Context) (Embedder, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return NewNgramEmbedder(32), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, l.Load(ctx))

	out, err := l.Embed(context.Background(), []string{"go"})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

type closingEmbedder struct {
	Embedder
	closed atomic.Int32
}

func (c *closingEmbedder) Close() error {
	c.closed.Add(1)
	return nil
}

func TestLazy_CloseWaitsForLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	inner := &closingEmbedder{Embedder: NewNgramEmbedder(8)}
	l := NewLazy("test model", func(context.Context) (Embedder, error) {
		close(started)
		<-release
		return inner, nil
	})

	loaded := make(chan error, 1)
	go func() { loaded <- l.Load(context.Background()) }()
	<-started

	closed := make(chan error, 1)
	go func() { closed <- l.Close() }()
	close(release)

	require.NoError(t, <-loaded)
	require.NoError(t, <-closed)
	assert.Equal(t, int32(1), inner.closed.Load())
}

func TestLazy_CloseBeforeLoad(t *testing.T) {
	var loads atomic.Int32
	l := NewLazy("test model", func(context.Context) (Embedder, error) {
		loads.Add(1)
		return NewNgramEmbedder(8), nil
	})

	require.NoError(t, l.Close())
	_, err := l.Embed(context.Background(), []string{"python"})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "closed")
	assert.Zero(t, loads.Load())
}
