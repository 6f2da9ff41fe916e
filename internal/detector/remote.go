package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteProvider calls an external detection API. Unlike the baseline
// contract, the remote side owns the verdict: is_ai from the response is
// used as-is and may disagree with a plain score/threshold comparison.
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
}

type remoteDetectRequest struct {
	Text      string  `json:"text"`
	Threshold float64 `json:"threshold"`
}

type remoteDetectResponse struct {
	IsAI         bool                   `json:"is_ai"`
	Score        float64                `json:"score"`
	Confidence   float64                `json:"confidence"`
	Label        string                 `json:"label"`
	ModelVersion string                 `json:"model_version"`
	Details      map[string]interface{} `json:"details"`
}

type remoteHealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Message     string `json:"message"`
}

// NewRemoteProvider creates a client for the external detection service.
func NewRemoteProvider(baseURL string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *RemoteProvider) Name() string { return "remote" }

func (p *RemoteProvider) Detect(ctx context.Context, text string, threshold float64) (*Result, error) {
	reqBody := remoteDetectRequest{Text: text, Threshold: threshold}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/api/v1/detect", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("detection service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result remoteDetectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	label := result.Label
	if label == "" {
		label = labelFor(result.IsAI)
	}
	details := result.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	if result.ModelVersion != "" {
		details["model"] = result.ModelVersion
	}

	return &Result{
		IsAI:       result.IsAI,
		Score:      result.Score,
		Confidence: result.Confidence,
		Label:      label,
		Provider:   p.Name(),
		Details:    details,
	}, nil
}

// Health checks if the detection service is reachable and loaded.
func (p *RemoteProvider) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("detection service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result remoteHealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.ModelLoaded {
		return fmt.Errorf("detection service model not loaded: %s", result.Message)
	}
	return nil
}
