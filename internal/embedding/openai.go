package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the OpenAI embedding model used when none is configured
const DefaultOpenAIModel = "text-embedding-3-small"

const openAIBatchLimit = 2048

// OpenAIEmbedder implements Embedder for the OpenAI embeddings API
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

// NewOpenAIEmbedder creates a new OpenAI embedding client. baseURL may point at
// any OpenAI-compatible endpoint.
func NewOpenAIEmbedder(apiKey, model, baseURL string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Embed implements Embedder.
func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, chunk := range batches(texts, openAIBatchLimit) {
		resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunk},
			Model: openai.EmbeddingModel(o.model),
		})
		if err != nil {
			return nil, &APICallError{Backend: "openai", Message: "create embeddings", Cause: err}
		}
		if err := checkCount("openai", len(chunk), len(resp.Data)); err != nil {
			return nil, err
		}

		// Data is not guaranteed to be in input order
		vectors := make([][]float32, len(chunk))
		for _, d := range resp.Data {
			if d.Index < 0 || int(d.Index) >= len(chunk) {
				return nil, &ResponseError{Backend: "openai", Message: fmt.Sprintf("embedding index %d out of range", d.Index)}
			}
			vec := make([]float32, len(d.Embedding))
			for i, v := range d.Embedding {
				vec[i] = float32(v)
			}
			vectors[d.Index] = vec
		}
		out = append(out, vectors...)
	}
	return out, nil
}
