package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newschat/internal/domain"
)

// OllamaEmbedder calls an Ollama-compatible embedding endpoint. Remote
// failures never surface to callers: the embedder falls back to a
// deterministic locally derived vector flagged Degraded.
type OllamaEmbedder struct {
	BaseURL string
	Model   string
	Client  *http.Client
	logger  *slog.Logger
}

// NewOllamaEmbedder constructs an embedder for the given endpoint and model.
func NewOllamaEmbedder(baseURL, model string, client *http.Client, logger *slog.Logger) *OllamaEmbedder {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OllamaEmbedder{
		BaseURL: baseURL,
		Model:   model,
		Client:  client,
		logger:  logger,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the remote embedding for text, or the deterministic
// fallback when the remote call fails in any way (unreachable, non-2xx,
// malformed body, wrong dimensionality). The returned error is always nil.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	start := time.Now()

	vector, err := e.remoteEmbed(ctx, text)
	if err != nil {
		e.logger.Warn("embed_fallback_engaged",
			slog.String("model", e.Model),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return domain.Embedding{Vector: FallbackVector(text), Degraded: true}, nil
	}

	e.logger.Info("embed_completed",
		slog.String("model", e.Model),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return domain.Embedding{Vector: vector}, nil
}

func (e *OllamaEmbedder) remoteEmbed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{
		Model: e.Model,
		Input: []string{text},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/embed", e.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call embedding endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding endpoint returned status: %d", resp.StatusCode)
	}

	var respBody embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(respBody.Embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(respBody.Embeddings))
	}
	vector := respBody.Embeddings[0]
	if len(vector) != domain.EmbeddingDim {
		return nil, fmt.Errorf("expected %d dimensions, got %d", domain.EmbeddingDim, len(vector))
	}

	return vector, nil
}

// Version returns the wrapped model name.
func (e *OllamaEmbedder) Version() string {
	return e.Model
}

var _ domain.Embedder = (*OllamaEmbedder)(nil)
