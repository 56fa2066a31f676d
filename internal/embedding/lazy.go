package embedding

import (
	"context"
	"sync"
)

// Loader constructs an embedding model.
type Loader func(ctx context.Context) (Embedder, error)

// Lazy defers model construction to the first Embed call. Construction happens
// exactly once even under concurrent callers; a failed construction is
// remembered and returned on every later call.
type Lazy struct {
	name string
	load Loader

	once  sync.Once
	inner Embedder
	err   error
}

// NewLazy wraps load. name is used in error messages.
func NewLazy(name string, load Loader) *Lazy {
	return &Lazy{name: name, load: load}
}

// Load forces construction and reports its outcome.
func (l *Lazy) Load(ctx context.Context) error {
	l.once.Do(func() {
		// The model outlives the request that triggered the load.
		inner, err := l.load(context.WithoutCancel(ctx))
		if err != nil {
			l.err = &LoadError{Message: "failed to load " + l.name, Cause: err}
			return
		}
		l.inner = inner
	})
	return l.err
}

// Embed implements Embedder.
func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return l.inner.Embed(ctx, texts)
}

// Close closes the underlying model if it was constructed. It waits for a
// load in progress, and a Lazy closed before its first load never loads. Embed
// calls still running against the model must finish before Close.
func (l *Lazy) Close() error {
	l.once.Do(func() {
		l.err = &LoadError{Message: l.name + " is closed"}
	})
	if l.inner == nil {
		return nil
	}
	return Close(l.inner)
}
