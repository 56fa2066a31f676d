package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Ollama defaults
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "nomic-embed-text"
)

// OllamaEmbedder implements Embedder against a local Ollama server
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaEmbedder creates a client for the Ollama /api/embed endpoint
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type ollamaRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// Embed implements Embedder.
func (o *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(ollamaRequest{Model: o.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, &APICallError{Backend: "ollama", Message: "embed request", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APICallError{Backend: "ollama", Message: "read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error").String()
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APICallError{Backend: "ollama", Message: msg}
	}

	return parseOllamaResponse(data, len(texts))
}

func parseOllamaResponse(data []byte, want int) ([][]float32, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ResponseError{Backend: "ollama", Message: "invalid JSON"}
	}

	embeddings := gjson.GetBytes(data, "embeddings")
	if !embeddings.IsArray() {
		return nil, &ResponseError{Backend: "ollama", Message: "missing embeddings array"}
	}

	rows := embeddings.Array()
	if err := checkCount("ollama", want, len(rows)); err != nil {
		return nil, err
	}

	out := make([][]float32, len(rows))
	for i, row := range rows {
		values := row.Array()
		vec := make([]float32, len(values))
		for j, v := range values {
			vec[j] = float32(v.Float())
		}
		out[i] = vec
	}
	return out, nil
}
