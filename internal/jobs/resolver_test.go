package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap/internal/embedding"
	"github.com/jonathan/skillgap/internal/embedding/embeddingtest"
)

type titleList []string

func (l titleList) Titles(context.Context) ([]string, error) { return l, nil }

type failingTitles struct{}

func (failingTitles) Titles(context.Context) ([]string, error) {
	return nil, errors.New("connection reset")
}

func TestResolver_Typo(t *testing.T) {
	titles := titleList{"Data Analyst", "Data Scientist", "Software Engineer"}
	r := NewResolver(titles, embedding.NewNgramEmbedder(512), 0.7, 3)

	matches, err := r.Resolve(context.Background(), "Data Scientst")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Data Scientist", matches[0].Title)
	assert.Greater(t, matches[0].Similarity, 0.7)
}

func TestResolver_OrderAndLimit(t *testing.T) {
	emb := &embeddingtest.Static{Vectors: map[string][]float32{
		"engineer":          {1, 0},
		"software engineer": {0.9, 0.1},
		"backend engineer":  {1, 0},
		"platform engineer": {1, 0},
		"data engineer":     {0.95, 0.05},
		"chef":              {0, 1},
	}}
	titles := titleList{"Software Engineer", "Backend Engineer", "Chef", "Platform Engineer", "Data Engineer"}

	matches, err := NewResolver(titles, emb, 0.7, 3).Resolve(context.Background(), "Engineer")
	require.NoError(t, err)

	got := make([]string, len(matches))
	for i, m := range matches {
		got[i] = m.Title
	}
	assert.Equal(t, []string{"Backend Engineer", "Platform Engineer", "Data Engineer"}, got)
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[2].Similarity)
}

func TestResolver_QueryIsLowercased(t *testing.T) {
	counter := &embeddingtest.Counting{Inner: embedding.NewNgramEmbedder(64)}
	r := NewResolver(titleList{"Data Scientist"}, counter, 0, 0)

	_, err := r.Resolve(context.Background(), "  DATA Scientist ")
	require.NoError(t, err)
	require.Equal(t, 1, counter.Calls())
	assert.Equal(t, []string{"data scientist", "Data Scientist"}, counter.Texts()[0])
}

func TestResolver_Empty(t *testing.T) {
	counter := &embeddingtest.Counting{Inner: embedding.NewNgramEmbedder(64)}

	matches, err := NewResolver(titleList{}, counter, 0.7, 3).Resolve(context.Background(), "chef")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = NewResolver(titleList{"Chef"}, counter, 0.7, 3).Resolve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, counter.Calls())

	matches, err = NewResolver(titleList{"Chef"}, counter, 0.7, 3).Resolve(context.Background(), "kubernetes administrator")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestResolver_Errors(t *testing.T) {
	_, err := NewResolver(failingTitles{}, embedding.NewNgramEmbedder(8), 0.7, 3).Resolve(context.Background(), "chef")
	assert.ErrorContains(t, err, "failed to list job titles")

	_, err = NewResolver(titleList{"Chef"}, &embeddingtest.Failing{}, 0.7, 3).Resolve(context.Background(), "chef")
	assert.ErrorIs(t, err, embeddingtest.ErrUnavailable)

	_, err = NewResolver(titleList{"Chef"}, nil, 0.7, 3).Resolve(context.Background(), "chef")
	assert.ErrorIs(t, err, ErrNoEmbedder)

	_, err = NewResolver(titleList{"Chef", "Cook"}, embeddingtest.Short{}, 0.7, 3).Resolve(context.Background(), "chef")
	var respErr *embedding.ResponseError
	assert.ErrorAs(t, err, &respErr)
}
