// Package embedding provides the client for the external embedding service
// and the binary vector codec used by chunk storage and retrieval.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"docvault/internal/config"
	"docvault/internal/domain"
)

// Client obtains fixed-length embedding vectors for text spans.
type Client interface {
	// Embed returns the embedding vector for text. A transport or non-2xx
	// failure surfaces as domain.ErrUpstreamUnavailable after bounded retries.
	Embed(ctx context.Context, text string) ([]float32, error)
}

type openAICompatibleClient struct {
	cfg    config.EmbeddingConfig
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a client for an OpenAI-compatible /embeddings endpoint.
func NewClient(cfg config.EmbeddingConfig, logger *slog.Logger) Client {
	return &openAICompatibleClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed calls the embedding API with exponential backoff. Each attempt is
// bounded by the configured client timeout, so a dead upstream fails the call
// instead of blocking the caller.
func (c *openAICompatibleClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("embed: %w", ctx.Err())
			case <-time.After(backoff):
			}
			c.logger.Debug("retrying embedding call", "attempt", attempt, "backoff", backoff)
		}

		vector, err := c.embedOnce(ctx, text)
		if err == nil {
			return vector, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("embed: %w", ctx.Err())
		}
		lastErr = err
	}

	c.logger.Warn("embedding service unavailable",
		"model", c.cfg.Model,
		"retries", c.cfg.MaxRetries,
		"error", lastErr,
	)
	return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, lastErr)
}

func (c *openAICompatibleClient) embedOnce(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{
		Model: c.cfg.Model,
		Input: []string{text},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding api returned %s", resp.Status)
	}

	var embeddingResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingResp); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	if len(embeddingResp.Data) == 0 || len(embeddingResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding api returned an empty vector")
	}

	vector := embeddingResp.Data[0].Embedding
	if c.cfg.Dimensions > 0 && len(vector) != c.cfg.Dimensions {
		return nil, fmt.Errorf("embedding api returned %d dimensions, want %d", len(vector), c.cfg.Dimensions)
	}

	return vector, nil
}
