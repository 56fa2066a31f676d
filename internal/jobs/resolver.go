package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/skillgap/internal/embedding"
	"github.com/jonathan/skillgap/internal/types"
)

// Resolver defaults
const (
	DefaultTitleThreshold = 0.7
	DefaultTitleTopN      = 3
)

// ErrNoEmbedder is returned by Resolve when the Resolver has no embedding model.
var ErrNoEmbedder = errors.New("no embedding model configured")

// Resolver suggests known job titles close to a free-text query.
type Resolver struct {
	titles    TitleLister
	embedder  embedding.Embedder
	threshold float64
	topN      int
}

// NewResolver creates a Resolver. Non-positive threshold or topN select the defaults.
func NewResolver(titles TitleLister, embedder embedding.Embedder, threshold float64, topN int) *Resolver {
	if threshold <= 0 {
		threshold = DefaultTitleThreshold
	}
	if topN <= 0 {
		topN = DefaultTitleTopN
	}
	return &Resolver{titles: titles, embedder: embedder, threshold: threshold, topN: topN}
}

// Resolve returns up to topN known titles whose similarity to query exceeds
// the threshold, best first. Equal scores keep store order. No titles, or none
// close enough, is an empty result rather than an error.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]types.TitleMatch, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	titles, err := r.titles.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job titles: %w", err)
	}
	if len(titles) == 0 {
		return nil, nil
	}
	if r.embedder == nil {
		return nil, ErrNoEmbedder
	}

	vectors, err := r.embedder.Embed(ctx, append([]string{query}, titles...))
	if err != nil {
		return nil, fmt.Errorf("failed to embed job titles: %w", err)
	}
	if len(vectors) != len(titles)+1 {
		return nil, &embedding.ResponseError{Backend: "resolver", Message: "vector count mismatch", Want: len(titles) + 1, Got: len(vectors)}
	}

	scores := embedding.Similarities(vectors[0], vectors[1:])
	var matches []types.TitleMatch
	for i, s := range scores {
		if s > r.threshold {
			matches = append(matches, types.TitleMatch{Title: titles[i], Similarity: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > r.topN {
		matches = matches[:r.topN]
	}
	return matches, nil
}
