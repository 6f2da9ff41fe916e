// Package embedding provides the vector representation used by the
// plagiarism matcher, backed by an Ollama-compatible embeddings API.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Embedder turns text into a numeric vector. Available reports whether the
// model can be used at all; the worker skips plagiarism analysis when it
// cannot.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Available() bool
}

// Client calls an Ollama-compatible embeddings endpoint.
type Client struct {
	baseURL    string
	model      string
	enabled    bool
	httpClient *http.Client
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewClient creates an embeddings client. baseURL defaults to the local
// Ollama server.
func NewClient(baseURL, model string, enabled bool) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434/api"
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *Client) Available() bool { return c.enabled }

func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	reqBody := embedRequest{Model: c.model, Prompt: text}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}
	return result.Embedding, nil
}

// Cosine computes cosine similarity clamped to [0,1]. Vectors of different
// lengths or zero magnitude score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
