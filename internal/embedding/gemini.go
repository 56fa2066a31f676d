package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the Gemini embedding model used when none is configured
const DefaultGeminiModel = "text-embedding-004"

// geminiBatchLimit is the maximum number of contents per BatchEmbedContents request
const geminiBatchLimit = 100

// GeminiEmbedder implements Embedder for Google Gemini
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

// NewGeminiEmbedder creates a new Gemini embedding client
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	em := client.EmbeddingModel(model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	return &GeminiEmbedder{client: client, model: em}, nil
}

// Embed implements Embedder.
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, chunk := range batches(texts, geminiBatchLimit) {
		batch := g.model.NewBatch()
		for _, t := range chunk {
			batch.AddContent(genai.Text(t))
		}

		resp, err := g.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, &APICallError{Backend: "gemini", Message: "batch embed", Cause: err}
		}
		if err := checkCount("gemini", len(chunk), len(resp.Embeddings)); err != nil {
			return nil, err
		}
		for _, e := range resp.Embeddings {
			out = append(out, e.Values)
		}
	}
	return out, nil
}

// Close releases the underlying client
func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}
